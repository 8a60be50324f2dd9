package encoder

import (
	"testing"

	"github.com/lookbusy1344/sixbit-toolchain/semantic"
)

func TestEncodeHaltProducesOpcodeAndTrailer(t *testing.T) {
	instructions := []semantic.Instruction{
		{Opcode: semantic.InstructionField{Value: 0, BitCount: 6}},
	}
	out, _ := New().Encode(instructions)
	// 6 significant bits, padded to 1 byte, plus a 4-byte trailer.
	if len(out) != 1+4 {
		t.Fatalf("got %d bytes, want 5: %v", len(out), out)
	}
	wantTrailer := []byte{0, 0, 0, 6}
	for i, b := range wantTrailer {
		if out[1+i] != b {
			t.Fatalf("trailer = %v, want %v", out[1:], wantTrailer)
		}
	}
}

func TestEncodeMoverPacksMSBFirst(t *testing.T) {
	// MOVER R1, 5 -> opcode 1 (6 bits) = 000001, register 1 (2 bits) = 01,
	// memory 5 (4 bits) = 0101. Total 12 bits: 000001 01 0101, padded to
	// 2 bytes: 00000101 01010000.
	instructions := []semantic.Instruction{
		{
			Opcode: semantic.InstructionField{Value: 1, BitCount: 6},
			Operands: []semantic.InstructionField{
				{Value: 1, BitCount: 2},
				{Value: 5, BitCount: 4},
			},
		},
	}
	out, _ := New().Encode(instructions)
	if len(out) != 2+4 {
		t.Fatalf("got %d bytes, want 6: %v", len(out), out)
	}
	if out[0] != 0b00000101 || out[1] != 0b01010000 {
		t.Fatalf("packed bytes = %08b %08b, want 00000101 01010000", out[0], out[1])
	}
	trailerBits := uint32(out[2])<<24 | uint32(out[3])<<16 | uint32(out[4])<<8 | uint32(out[5])
	if trailerBits != 12 {
		t.Fatalf("trailer = %d, want 12", trailerBits)
	}
}

func TestDelimiterTableDropsTrailingOperandSeparator(t *testing.T) {
	instructions := []semantic.Instruction{
		{
			Opcode: semantic.InstructionField{Value: 1, BitCount: 6},
			Operands: []semantic.InstructionField{
				{Value: 1, BitCount: 2},
				{Value: 5, BitCount: 4},
			},
		},
	}
	_, delims := New().Encode(instructions)
	entries := delims.Entries()
	// opcode separator, one inter-operand separator (the trailing one is
	// dropped in favor of the end-of-instruction newline).
	if len(entries) != 3 {
		t.Fatalf("got %d delimiters, want 3: %+v", len(entries), entries)
	}
	if entries[0].Symbol != " " {
		t.Fatalf("first delimiter = %q, want a space", entries[0].Symbol)
	}
	if entries[1].Symbol != ", " {
		t.Fatalf("second delimiter = %q, want a comma-space", entries[1].Symbol)
	}
	if entries[len(entries)-1].Symbol != "\n" {
		t.Fatalf("last delimiter = %q, want newline", entries[len(entries)-1].Symbol)
	}
}
