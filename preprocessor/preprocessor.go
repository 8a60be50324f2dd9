// Package preprocessor extracts macro definitions from a token stream and
// excises them in place, per spec §4.2. Invocation expansion (pass two)
// replaces any remaining identifier that names a stored macro with a copy
// of its body.
package preprocessor

import (
	"github.com/lookbusy1344/sixbit-toolchain/diag"
	"github.com/lookbusy1344/sixbit-toolchain/lexer"
)

// ErrorKind categorizes a PreProcessorError.
type ErrorKind int

const (
	InvalidToken ErrorKind = iota
	UnterminatedMacro
)

// Error is the preprocessor's single error type; both of spec §4.2's
// failure modes (a malformed header, and EOF before MEND) are reported
// through it with a rendered diagnostic.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// definitionState is the macro-header DFA's state, mirroring spec §4.2's
// five numbered steps.
type definitionState int

const (
	// awaitingName consumes optional whitespace/newlines after the MACRO
	// keyword (the header may extend onto the next line) until it sees the
	// macro-name identifier.
	awaitingName definitionState = iota
	expectSpaceOrNewline
	expectAmpersandOrNewline
	expectParameter
	afterParameter
	expectAmpersand
	modelStatements
	mendOrModelStatements
	expectNewlineOrEof
)

// PreProcessor extracts macro definitions from a token stream and expands
// invocations. Each instance is single-use: call Process once per source.
type PreProcessor struct {
	macros    map[string][]lexer.Token
	macroName string
}

// New returns an empty PreProcessor.
func New() *PreProcessor {
	return &PreProcessor{macros: make(map[string][]lexer.Token)}
}

// Process runs the definition pass followed by the invocation pass,
// returning the resulting token stream. The input Stream is mutated.
func (p *PreProcessor) Process(stream *lexer.Stream, sourceLines []string) (*lexer.Stream, error) {
	if err := p.definitions(stream, sourceLines); err != nil {
		return nil, err
	}
	out := p.invocations(stream)
	return out, nil
}

func diagnostic(headline string, tok *lexer.Token, sourceLines []string, help string) string {
	line := ""
	if tok.Loc.Line-1 >= 0 && tok.Loc.Line-1 < len(sourceLines) {
		line = sourceLines[tok.Loc.Line-1]
	}
	return diag.Diagnostic{
		Headline:   headline,
		Line:       tok.Loc.Line,
		Column:     tok.Loc.Column,
		SourceLine: line,
		Help:       help,
	}.Render()
}

// definitions scans for every `MACRO` header, validates it with the header
// DFA, accumulates the model body up to `MEND`, and removes the whole
// definition (header through MEND line) from the stream.
func (p *PreProcessor) definitions(stream *lexer.Stream, sourceLines []string) error {
	for {
		// Find the next MACRO keyword, or stop if we reach EOF.
		found := false
		for {
			tok := stream.Seek(0)
			if tok == nil || tok.Kind == lexer.Eof {
				stream.Reset()
				return nil
			}
			if tok.Kind == lexer.Identifier && tok.Value == "MACRO" {
				found = true
				break
			}
			stream.Next()
		}
		if !found {
			return nil
		}
		stream.RemoveAt() // drop the MACRO keyword itself

		state := awaitingName
		for {
			tok := stream.Seek(0)
			if tok == nil {
				return &Error{Kind: UnterminatedMacro, Message: "unexpected end of token stream inside macro definition"}
			}
			current := *tok
			if current.Kind != lexer.Eof {
				stream.RemoveAt()
			}

			switch state {
			case awaitingName:
				switch current.Kind {
				case lexer.Identifier:
					p.macroName = current.Value
					p.macros[p.macroName] = nil
					state = expectSpaceOrNewline
				case lexer.Whitespace, lexer.Newline:
				default:
					return &Error{Kind: InvalidToken, Message: diagnostic(
						"A macro name is expected", &current, sourceLines, "")}
				}
			case expectSpaceOrNewline:
				switch current.Kind {
				case lexer.Whitespace:
					state = expectAmpersandOrNewline
				case lexer.Newline:
					state = modelStatements
				default:
					return &Error{Kind: InvalidToken, Message: diagnostic(
						"Invalid token or EOF encountered", &current, sourceLines,
						"a space or newline is expected")}
				}
			case expectAmpersandOrNewline:
				switch {
				case current.Kind == lexer.Symbol && current.Value == "&":
					state = expectParameter
				case current.Kind == lexer.Newline:
					state = modelStatements
				default:
					return &Error{Kind: InvalidToken, Message: diagnostic(
						"Invalid token or EOF encountered", &current, sourceLines,
						"a parameter or newline is expected")}
				}
			case expectParameter:
				if current.Kind != lexer.Identifier {
					return &Error{Kind: InvalidToken, Message: diagnostic(
						"Invalid token or EOF encountered", &current, sourceLines, "a parameter is expected")}
				}
				state = afterParameter
			case afterParameter:
				switch {
				case current.Kind == lexer.Symbol && current.Value == ",":
					state = expectAmpersand
				case current.Kind == lexer.Whitespace:
				case current.Kind == lexer.Newline:
					state = modelStatements
				default:
					return &Error{Kind: InvalidToken, Message: diagnostic(
						"Invalid token or EOF encountered", &current, sourceLines,
						"a comma followed by another parameter, or a newline, is expected")}
				}
			case expectAmpersand:
				switch {
				case current.Kind == lexer.Symbol && current.Value == "&":
					state = expectParameter
				case current.Kind == lexer.Whitespace:
				default:
					return &Error{Kind: InvalidToken, Message: diagnostic(
						"Invalid token or EOF encountered", &current, sourceLines,
						"a parameter is expected")}
				}
			case modelStatements:
				if current.Kind == lexer.Eof {
					return &Error{Kind: UnterminatedMacro, Message: diagnostic(
						"EOF encountered before the end of the macro definition", &current, sourceLines,
						"MEND should follow the model statements to end the macro definition")}
				}
				if current.Kind == lexer.Newline {
					state = mendOrModelStatements
				}
				p.macros[p.macroName] = append(p.macros[p.macroName], current)
			case mendOrModelStatements:
				switch {
				case current.Kind == lexer.Identifier && current.Value == "MEND":
					state = expectNewlineOrEof
				case current.Kind == lexer.Eof:
					return &Error{Kind: UnterminatedMacro, Message: diagnostic(
						"EOF encountered before the end of the macro definition", &current, sourceLines,
						"MEND is required to close the macro definition")}
				case current.Kind == lexer.Newline:
				default:
					p.macros[p.macroName] = append(p.macros[p.macroName], current)
					state = modelStatements
				}
			case expectNewlineOrEof:
				switch current.Kind {
				case lexer.Newline, lexer.Eof:
					goto definitionDone
				default:
					return &Error{Kind: InvalidToken, Message: diagnostic(
						"Invalid token encountered", &current, sourceLines, "a newline is expected")}
				}
			}
		}
	definitionDone:
	}
}

// invocations performs the invocation-expansion pass: any Identifier token
// whose value names a stored macro is replaced by a copy of its body. Per
// spec §4.2 this module does not fix a parameter substitution syntax;
// invocation without arguments is literal body insertion.
func (p *PreProcessor) invocations(stream *lexer.Stream) *lexer.Stream {
	in := stream.Tokens()
	out := make([]lexer.Token, 0, len(in))
	for _, tok := range in {
		if tok.Kind == lexer.Identifier {
			if body, ok := p.macros[tok.Value]; ok {
				out = append(out, body...)
				continue
			}
		}
		out = append(out, tok)
	}
	return lexer.NewStream(out)
}

// MacroNames returns the set of macro names extracted during the
// definition pass, for diagnostics/tests.
func (p *PreProcessor) MacroNames() []string {
	names := make([]string, 0, len(p.macros))
	for name := range p.macros {
		names = append(names, name)
	}
	return names
}
