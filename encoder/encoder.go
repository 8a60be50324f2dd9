// Package encoder packs resolved instructions into the binary format of
// spec §4.5: a sequence of MSB-first bit fields, zero-padded to a byte
// boundary, followed by a 4-byte big-endian trailer giving the number of
// significant bits before the padding. It also builds a DelimiterTable
// recording where a pretty-printer should insert spaces, commas, and
// newlines when rendering the packed bits for debugging.
package encoder

import (
	"github.com/lookbusy1344/sixbit-toolchain/semantic"
)

// Encoder accumulates a single program's bitstream and delimiter table.
// Each instance is single-use: call Encode once.
type Encoder struct {
	bits            []byte // one bit per entry, 0 or 1
	locationCounter uint32
	delimiters      DelimiterTable
}

// New returns an empty Encoder.
func New() *Encoder {
	return &Encoder{}
}

func appendBits(bits []byte, value uint32, bitCount uint8) []byte {
	for i := int(bitCount) - 1; i >= 0; i-- {
		bits = append(bits, byte((value>>uint(i))&1))
	}
	return bits
}

func (e *Encoder) encodeField(field semantic.InstructionField) {
	e.bits = appendBits(e.bits, field.Value, field.BitCount)
	e.locationCounter += uint32(field.BitCount)
}

// encodeInstruction appends one instruction's opcode and operand bits,
// recording a " " delimiter after the opcode, a ", " delimiter after each
// operand but the last, and a newline at the instruction's end. For an
// instruction with no operands the opcode's " " is dropped instead, so
// only the newline follows it.
func (e *Encoder) encodeInstruction(instr semantic.Instruction) {
	e.encodeField(instr.Opcode)
	e.delimiters.Append(" ", e.locationCounter)

	for _, operand := range instr.Operands {
		e.encodeField(operand)
		e.delimiters.Append(", ", e.locationCounter)
	}

	e.delimiters.DeleteLast()
	e.delimiters.Append("\n", e.locationCounter)
}

// packBytes packs the accumulated bit sequence MSB-first into bytes,
// zero-padding the final byte, and appends a 4-byte big-endian trailer
// recording the number of significant bits (the length before padding).
func packBytes(bits []byte) []byte {
	totalBits := uint32(len(bits))

	padded := make([]byte, len(bits))
	copy(padded, bits)
	if rem := len(padded) % 8; rem != 0 {
		padded = append(padded, make([]byte, 8-rem)...)
	}

	out := make([]byte, 0, len(padded)/8+4)
	for i := 0; i < len(padded); i += 8 {
		var b byte
		for j := 0; j < 8; j++ {
			b |= padded[i+j] << (7 - j)
		}
		out = append(out, b)
	}

	out = append(out,
		byte(totalBits>>24),
		byte(totalBits>>16),
		byte(totalBits>>8),
		byte(totalBits),
	)
	return out
}

// Encode packs every instruction in order and returns the final byte
// stream (packed bits plus trailer) alongside the delimiter table built
// while packing.
func (e *Encoder) Encode(instructions []semantic.Instruction) ([]byte, DelimiterTable) {
	for _, instr := range instructions {
		e.encodeInstruction(instr)
	}
	return packBytes(e.bits), e.delimiters
}

// Bits returns the unpacked bit sequence (one byte per bit, value 0 or 1)
// accumulated by the most recent Encode call, for tools.FormatDebug.
func (e *Encoder) Bits() []byte {
	return e.bits
}
