package vm

import (
	"fmt"

	"github.com/lookbusy1344/sixbit-toolchain/isa"
)

// DecodedInstruction is one instruction read from program memory: its
// opcode, the operation it names, its operand values, and the bit
// address immediately past it (the decoder's new PC).
type DecodedInstruction struct {
	Opcode             uint32
	Operation          *isa.Operation
	Operands           []uint32
	NextProgramCounter uint32
}

// Decode reads one instruction starting at the bit address pc, per spec
// §4.6: the opcode is the next OpcodeBits bits MSB-first, followed by
// each declared operand's bit width in turn.
func Decode(table *isa.Table, memory *Memory, pc uint32) (DecodedInstruction, error) {
	opcode, pc, err := readBits(memory, pc, isa.OpcodeBits)
	if err != nil {
		return DecodedInstruction{}, err
	}

	op, ok := table.ByOpcode(opcode)
	if !ok {
		return DecodedInstruction{}, fmt.Errorf("invalid opcode: %d", opcode)
	}

	operands := make([]uint32, len(op.Operands))
	for i, spec := range op.Operands {
		var value uint32
		value, pc, err = readBits(memory, pc, spec.Bits)
		if err != nil {
			return DecodedInstruction{}, err
		}
		operands[i] = value
	}

	return DecodedInstruction{
		Opcode:             opcode,
		Operation:          op,
		Operands:           operands,
		NextProgramCounter: pc,
	}, nil
}

// readBits reads `width` bits MSB-first starting at bit address pc,
// returning the accumulated value and the bit address just past it.
func readBits(memory *Memory, pc uint32, width uint8) (uint32, uint32, error) {
	var value uint32
	for i := uint8(0); i < width; i++ {
		bit, err := memory.Bit(pc)
		if err != nil {
			return 0, pc, err
		}
		value = (value << 1) | uint32(bit)
		pc++
	}
	return value, pc, nil
}
