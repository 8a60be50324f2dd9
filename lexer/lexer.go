// Package lexer turns assembly source text into a token stream, following
// the byte-at-a-time scanner design of spec §4.1. It emits Whitespace
// tokens (needed by the preprocessor's macro-header DFA) and relies on
// downstream consumers to skip the ones they don't care about.
package lexer

import (
	"strings"

	"github.com/lookbusy1344/sixbit-toolchain/diag"
)

// Kind is the lexical category of a Token.
type Kind int

const (
	Identifier Kind = iota
	Symbol
	Whitespace
	Newline
	Eof
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "Identifier"
	case Symbol:
		return "Symbol"
	case Whitespace:
		return "Whitespace"
	case Newline:
		return "Newline"
	case Eof:
		return "Eof"
	default:
		return "Unknown"
	}
}

// Token is one lexical unit with its source location. Value is empty for
// Whitespace, Newline, and Eof.
type Token struct {
	Kind  Kind
	Value string
	Loc   diag.Position
}

// symbolChars is the fixed set of single-character symbol tokens.
const symbolChars = ":,+()&"

// Stream is an ordered, mutable token sequence with a cursor. Seek reads
// ahead without consuming; Next advances the cursor; RemoveAt excises the
// token at the cursor in place, which the preprocessor uses to splice out
// macro definitions as it walks the stream.
type Stream struct {
	tokens []Token
	cursor int
}

// NewStream wraps a token slice for cursor-based traversal.
func NewStream(tokens []Token) *Stream {
	return &Stream{tokens: tokens}
}

// Seek returns the token `at` positions ahead of the cursor, or nil past
// the end of the stream.
func (s *Stream) Seek(at int) *Token {
	idx := s.cursor + at
	if idx < 0 || idx >= len(s.tokens) {
		return nil
	}
	return &s.tokens[idx]
}

// SeekSymbol returns the rune of the symbol token `at` positions ahead, or
// false if that slot isn't a Symbol.
func (s *Stream) SeekSymbol(at int) (rune, bool) {
	tok := s.Seek(at)
	if tok == nil || tok.Kind != Symbol || tok.Value == "" {
		return 0, false
	}
	return rune(tok.Value[0]), true
}

// IsEof reports whether the token `at` positions ahead is the Eof token.
func (s *Stream) IsEof(at int) bool {
	tok := s.Seek(at)
	return tok != nil && tok.Kind == Eof
}

// Next advances the cursor by one token.
func (s *Stream) Next() {
	s.cursor++
}

// Reset moves the cursor back to the start of the stream.
func (s *Stream) Reset() {
	s.cursor = 0
}

// RemoveAt deletes the token currently under the cursor, shifting later
// tokens left; the cursor is left pointing at what was the next token.
// Used by the preprocessor to excise a macro definition in place.
func (s *Stream) RemoveAt() {
	if s.cursor >= len(s.tokens) {
		return
	}
	s.tokens = append(s.tokens[:s.cursor], s.tokens[s.cursor+1:]...)
}

// Len reports the number of tokens currently in the stream (those not
// removed by RemoveAt), regardless of the cursor position.
func (s *Stream) Len() int {
	return len(s.tokens)
}

// Tokens returns the underlying token slice, ignoring the cursor; used once
// lexing/preprocessing has finished and a stage wants the whole sequence.
func (s *Stream) Tokens() []Token {
	return s.tokens
}

// Lex scans the full source text into a Stream plus the source split by
// newlines (kept alongside for diagnostic rendering, per spec §4.1). There
// are no lexical error conditions: every byte sequence produces some token
// stream.
func Lex(source string) (*Stream, []string) {
	lines := strings.Split(source, "\n")

	var tokens []Token
	line, column := 1, 1
	var pending strings.Builder
	pendingLine, pendingCol := 1, 1
	inComment := false

	flushIdentifier := func() {
		if pending.Len() == 0 {
			return
		}
		tokens = append(tokens, Token{
			Kind:  Identifier,
			Value: pending.String(),
			Loc:   diag.Position{Line: pendingLine, Column: pendingCol},
		})
		pending.Reset()
	}

	for _, ch := range source {
		if inComment {
			if ch == '\n' {
				inComment = false
				tokens = append(tokens, Token{Kind: Newline, Loc: diag.Position{Line: line, Column: column}})
				line++
				column = 1
			} else {
				column++
			}
			continue
		}

		switch {
		case ch == ';':
			flushIdentifier()
			inComment = true
			column++
		case strings.ContainsRune(symbolChars, ch):
			flushIdentifier()
			tokens = append(tokens, Token{
				Kind:  Symbol,
				Value: string(ch),
				Loc:   diag.Position{Line: line, Column: column},
			})
			column++
		case ch == ' ' || ch == '\t':
			flushIdentifier()
			tokens = append(tokens, Token{Kind: Whitespace, Loc: diag.Position{Line: line, Column: column}})
			column++
		case ch == '\n':
			flushIdentifier()
			tokens = append(tokens, Token{Kind: Newline, Loc: diag.Position{Line: line, Column: column}})
			line++
			column = 1
		default:
			if pending.Len() == 0 {
				pendingLine, pendingCol = line, column
			}
			pending.WriteRune(ch)
			column++
		}
	}
	flushIdentifier()
	tokens = append(tokens, Token{Kind: Eof, Loc: diag.Position{Line: line, Column: column}})

	return NewStream(tokens), lines
}
