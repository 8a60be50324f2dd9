package lexer

import "testing"

func TestLexBasicInstruction(t *testing.T) {
	stream, _ := Lex("MOVER R1, 0")
	toks := stream.Tokens()

	want := []struct {
		kind  Kind
		value string
	}{
		{Identifier, "MOVER"},
		{Whitespace, ""},
		{Identifier, "R1"},
		{Symbol, ","},
		{Whitespace, ""},
		{Identifier, "0"},
		{Eof, ""},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Value != w.value {
			t.Errorf("token %d: got %v %q, want %v %q", i, toks[i].Kind, toks[i].Value, w.kind, w.value)
		}
	}
}

func TestLexCommentDiscardedButNewlineKept(t *testing.T) {
	stream, _ := Lex("HALT ; stop here\nRET")
	toks := stream.Tokens()
	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	wantKinds := []Kind{Identifier, Whitespace, Newline, Identifier, Eof}
	if len(kinds) != len(wantKinds) {
		t.Fatalf("got kinds %v, want %v", kinds, wantKinds)
	}
	for i := range kinds {
		if kinds[i] != wantKinds[i] {
			t.Fatalf("kind %d = %v, want %v", i, kinds[i], wantKinds[i])
		}
	}
}

func TestLexLabelLocation(t *testing.T) {
	stream, _ := Lex("LOOP: MOVER R0, 1")
	toks := stream.Tokens()
	if toks[0].Value != "LOOP" {
		t.Fatalf("first token = %q", toks[0].Value)
	}
	if toks[0].Loc.Line != 1 || toks[0].Loc.Column != 1 {
		t.Fatalf("LOOP location = %+v", toks[0].Loc)
	}
}

func TestLexAlwaysEmitsEof(t *testing.T) {
	stream, _ := Lex("")
	toks := stream.Tokens()
	if len(toks) != 1 || toks[0].Kind != Eof {
		t.Fatalf("empty source tokens = %+v", toks)
	}
}
