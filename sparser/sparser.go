// Package sparser is the syntactic parser: it groups a token stream into
// Statements (optional label, operation name, operand list) using the
// five-state DFA of spec §4.3. It knows nothing about the ISA; operand
// values are still raw strings at this stage.
package sparser

import (
	"fmt"

	"github.com/lookbusy1344/sixbit-toolchain/diag"
	"github.com/lookbusy1344/sixbit-toolchain/lexer"
)

// Field is one named piece of a Statement together with the source
// location it came from, for diagnostics in later stages.
type Field struct {
	Value string
	Loc   diag.Position
}

// Statement is one line of assembly: an optional label, an optional
// operation name (nil on a label-only line), and its operand list (nil
// if the line has no operands).
type Statement struct {
	Label         *Field
	OperationName *Field
	Operands      []Field
}

func (s *Statement) addOperand(f Field) {
	s.Operands = append(s.Operands, f)
}

// Error is returned for any token sequence the DFA rejects.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// dfaState is the syntactic parser's state, mirroring spec §4.3's five
// named states.
type dfaState int

const (
	start dfaState = iota
	afterLabel
	afterOpcode
	afterOperand
	expectOperand // after a comma
)

// Parser groups a token stream into Statements.
type Parser struct {
	statements []Statement
}

// New returns an empty Parser.
func New() *Parser {
	return &Parser{}
}

// Parse consumes the stream and returns one Statement per non-blank
// source line. Whitespace tokens are skipped; they carry no syntactic
// meaning at this stage.
func (p *Parser) Parse(stream *lexer.Stream, sourceLines []string) ([]Statement, error) {
	statement := Statement{}
	state := start

	for !stream.IsEof(0) {
		tok := stream.Seek(0)
		if tok == nil {
			break
		}
		current := *tok

		switch current.Kind {
		case lexer.Whitespace:
			stream.Next()

		case lexer.Identifier:
			switch state {
			case start:
				if sym, ok := stream.SeekSymbol(1); ok && sym == ':' {
					statement.Label = &Field{Value: current.Value, Loc: current.Loc}
					stream.Next()
					stream.Next()
					state = afterLabel
				} else {
					statement.OperationName = &Field{Value: current.Value, Loc: current.Loc}
					stream.Next()
					state = afterOpcode
				}
			case afterLabel:
				statement.OperationName = &Field{Value: current.Value, Loc: current.Loc}
				stream.Next()
				state = afterOpcode
			case expectOperand, afterOpcode:
				statement.addOperand(Field{Value: current.Value, Loc: current.Loc})
				stream.Next()
				state = afterOperand
			default:
				return nil, unexpectedIdentifier(current, sourceLines, state)
			}

		case lexer.Symbol:
			if state == afterOperand && current.Value == "," {
				state = expectOperand
				stream.Next()
			} else {
				return nil, unexpectedSymbol(current, sourceLines, state)
			}

		case lexer.Newline:
			if state == expectOperand {
				return nil, identifierExpectedAfterComma(current, sourceLines)
			}
			if state != start {
				p.statements = append(p.statements, statement)
			}
			statement = Statement{}
			stream.Next()
			state = start

		default:
			stream.Next()
		}
	}

	tail := stream.Seek(0)
	if state == expectOperand {
		if tail != nil {
			return nil, identifierExpectedAfterComma(*tail, sourceLines)
		}
		return nil, &Error{Message: "An identifier is expected after comma"}
	}
	if state != start {
		p.statements = append(p.statements, statement)
	}

	return p.statements, nil
}

func sourceLine(loc diag.Position, sourceLines []string) string {
	if loc.Line-1 >= 0 && loc.Line-1 < len(sourceLines) {
		return sourceLines[loc.Line-1]
	}
	return ""
}

func unexpectedIdentifier(tok lexer.Token, sourceLines []string, state dfaState) error {
	help := ""
	if state == afterOperand {
		help = "Perhaps you meant to use comma(,) instead?"
	}
	return &Error{Message: diag.Diagnostic{
		Headline:   fmt.Sprintf("Unexpected identifier '%s'", tok.Value),
		Line:       tok.Loc.Line,
		Column:     tok.Loc.Column,
		SourceLine: sourceLine(tok.Loc, sourceLines),
		Help:       help,
	}.Render()}
}

func unexpectedSymbol(tok lexer.Token, sourceLines []string, state dfaState) error {
	help := ""
	switch state {
	case afterLabel:
		help = "Labels must be followed by a single colon(:) and then an identifier (opcode)"
	case afterOpcode:
		help = "An identifier (operand) is expected after the opcode"
	case expectOperand:
		help = "An identifier is expected after comma"
	}
	return &Error{Message: diag.Diagnostic{
		Headline:   fmt.Sprintf("Unexpected symbol '%s'", tok.Value),
		Line:       tok.Loc.Line,
		Column:     tok.Loc.Column,
		SourceLine: sourceLine(tok.Loc, sourceLines),
		Help:       help,
	}.Render()}
}

func identifierExpectedAfterComma(tok lexer.Token, sourceLines []string) error {
	return &Error{Message: diag.Diagnostic{
		Headline:   "An identifier is expected after comma",
		Line:       tok.Loc.Line,
		Column:     tok.Loc.Column,
		SourceLine: sourceLine(tok.Loc, sourceLines),
	}.Render()}
}
