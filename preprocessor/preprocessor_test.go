package preprocessor

import (
	"testing"

	"github.com/lookbusy1344/sixbit-toolchain/lexer"
)

func process(t *testing.T, source string) *lexer.Stream {
	t.Helper()
	stream, lines := lexer.Lex(source)
	p := New()
	out, err := p.Process(stream, lines)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	return out
}

func identValues(stream *lexer.Stream) []string {
	var vals []string
	for _, tok := range stream.Tokens() {
		if tok.Kind == lexer.Identifier {
			vals = append(vals, tok.Value)
		}
	}
	return vals
}

func TestMacroDefinitionRemovedFromStream(t *testing.T) {
	out := process(t, "MACRO M\nADD R0, R1\nMEND\n")
	if len(out.Tokens()) != 1 {
		t.Fatalf("expected only the Eof token to remain, got %+v", out.Tokens())
	}
}

func TestMacroInvocationExpandsBody(t *testing.T) {
	out := process(t, "MACRO M\nADD R0, R1\nMEND\nM\n")
	vals := identValues(out)
	want := []string{"ADD", "R0", "R1"}
	if len(vals) != len(want) {
		t.Fatalf("got identifiers %v, want %v", vals, want)
	}
	for i := range want {
		if vals[i] != want[i] {
			t.Fatalf("got identifiers %v, want %v", vals, want)
		}
	}
}

func TestUnterminatedMacroFails(t *testing.T) {
	stream, lines := lexer.Lex("MACRO M\nADD R0, R1\n")
	p := New()
	if _, err := p.Process(stream, lines); err == nil {
		t.Fatal("expected an error for a macro missing MEND")
	}
}

func TestNoMacrosIsANoop(t *testing.T) {
	out := process(t, "MOVER R0, 0\n")
	vals := identValues(out)
	want := []string{"MOVER", "R0", "0"}
	if len(vals) != len(want) {
		t.Fatalf("got %v, want %v", vals, want)
	}
}
