package isa

import "testing"

func TestByNameAndByOpcodeAgree(t *testing.T) {
	table := New()
	for _, want := range []struct {
		name   string
		opcode uint32
		nops   int
	}{
		{"HALT", 0, 0},
		{"MOVER", 1, 2},
		{"ADD", 8, 3},
		{"JMP", 21, 1},
		{"RET", 35, 0},
		{"DB", 42, 1},
	} {
		op, ok := table.ByName(want.name)
		if !ok {
			t.Fatalf("ByName(%q) missing", want.name)
		}
		if op.Opcode != want.opcode {
			t.Errorf("%s: opcode = %d, want %d", want.name, op.Opcode, want.opcode)
		}
		if len(op.Operands) != want.nops {
			t.Errorf("%s: %d operands, want %d", want.name, len(op.Operands), want.nops)
		}
		byOp, ok := table.ByOpcode(want.opcode)
		if !ok || byOp.Name != want.name {
			t.Errorf("ByOpcode(%d) = %v, want %s", want.opcode, byOp, want.name)
		}
	}
}

func TestRegisterRegexRejectsOutOfRange(t *testing.T) {
	table := New()
	op, _ := table.ByName("MOVER")
	reg := op.Operands[0]
	if !reg.Regex.MatchString("R0") || !reg.Regex.MatchString("R3") {
		t.Fatal("expected R0..R3 to match register regex")
	}
	if reg.Regex.MatchString("R4") || reg.Regex.MatchString("r0") {
		t.Fatal("expected R4/r0 to be rejected by register regex")
	}
}

func TestOpcodeBitsIsSix(t *testing.T) {
	if OpcodeBits != 6 {
		t.Fatalf("OpcodeBits = %d, want 6", OpcodeBits)
	}
}
