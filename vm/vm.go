// Package vm implements the virtual machine of spec §4.6/§4.7: a
// bit-addressed instruction decoder, an ALU with flag-setting handlers,
// and a step/observe interface suited to a debugger front end.
package vm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lookbusy1344/sixbit-toolchain/isa"
)

const (
	programMemorySize   = 256
	dataMemorySize      = 256
	registerCount       = 4
	initialStackPointer = 256
)

// Flags is the VM's four-bit condition register.
type Flags struct {
	Zero     bool
	Sign     bool
	Carry    bool
	Overflow bool
}

// AccessType distinguishes a read from a write in a MemoryAccess.
type AccessType int

const (
	Read AccessType = iota
	Write
)

// MemoryAccess records one data-memory touch made by a handler, reported
// as part of an ExecutionStep.
type MemoryAccess struct {
	Address uint32
	Value   byte
	Type    AccessType
}

// ExecutionStep is the observable delta produced by one step(): what the
// instruction was, where it ran, what it changed, and whether the VM has
// now halted.
type ExecutionStep struct {
	Instruction      string
	Address          uint32
	ChangedRegisters []string
	ChangedFlags     []string
	MemoryAccess     *MemoryAccess
	IsHalted         bool
	StackPointer     uint32
}

// VMState is a read-only snapshot of the machine, returned by GetState
// for a debugger UI.
type VMState struct {
	ProgramCounter uint32
	Registers      *RegisterFile
	Flags          Flags
	ProgramMemory  *Memory
	DataMemory     *Memory
	StackPointer   uint32
}

// VM is the bit-addressed 6-bit-opcode virtual machine. Construct with
// New and drive it with Step or Run.
type VM struct {
	table *isa.Table

	programCounter uint32
	eof            uint32
	stackPointer   uint32

	programMemory *Memory
	dataMemory    *Memory
	registers     *RegisterFile
	flags         Flags

	in  *bufio.Reader
	out io.Writer
}

// New returns a freshly reset VM bound to the given ISA table, reading
// IN from in and writing OUT/OUT_CHAR/OUT_16 to out.
func New(table *isa.Table, in io.Reader, out io.Writer) *VM {
	v := &VM{table: table, in: bufio.NewReader(in), out: out}
	v.Reset()
	return v
}

// Reset zeroes registers and memories and rewinds the program counter,
// preserving the VM's identity (and its I/O streams and ISA table).
func (v *VM) Reset() {
	v.programCounter = 0
	v.eof = 0
	v.stackPointer = initialStackPointer
	v.programMemory = NewMemory(programMemorySize)
	v.dataMemory = NewMemory(dataMemorySize)
	v.registers = NewRegisterFile(registerCount)
	v.flags = Flags{}
}

// LoadBinary loads the packed program image produced by the encoder:
// all but the last 4 bytes go into program memory, and the last 4 bytes
// (big-endian) set the end-of-program bit address.
func (v *VM) LoadBinary(data []byte) error {
	if len(data) < 4 {
		return fmt.Errorf("binary too short: %d bytes", len(data))
	}
	v.Reset()

	payload, trailer := data[:len(data)-4], data[len(data)-4:]
	v.eof = uint32(trailer[0])<<24 | uint32(trailer[1])<<16 | uint32(trailer[2])<<8 | uint32(trailer[3])

	if len(payload) > v.programMemory.Size() {
		return fmt.Errorf("program of %d bytes exceeds program memory size %d", len(payload), v.programMemory.Size())
	}
	for i, b := range payload {
		if err := v.programMemory.Set(uint32(i), b); err != nil {
			return err
		}
	}
	v.programCounter = 0
	return nil
}

// IsHalted reports whether the program counter has reached the
// end-of-program address.
func (v *VM) IsHalted() bool {
	return v.programCounter >= v.eof
}

// GetState returns a read-only snapshot of the machine.
func (v *VM) GetState() VMState {
	return VMState{
		ProgramCounter: v.programCounter,
		Registers:      v.registers.Clone(),
		Flags:          v.flags,
		ProgramMemory:  v.programMemory.Clone(),
		DataMemory:     v.dataMemory.Clone(),
		StackPointer:   v.stackPointer,
	}
}

// Step decodes and executes exactly one instruction, returning the
// resulting ExecutionStep.
func (v *VM) Step() (ExecutionStep, error) {
	startPC := v.programCounter

	decoded, err := Decode(v.table, v.programMemory, v.programCounter)
	if err != nil {
		return ExecutionStep{}, err
	}
	v.programCounter = decoded.NextProgramCounter

	delta, err := v.dispatch(decoded)
	if err != nil {
		return ExecutionStep{}, err
	}

	return ExecutionStep{
		Instruction:      formatInstruction(decoded),
		Address:          startPC,
		ChangedRegisters: delta.registers,
		ChangedFlags:     delta.flags,
		MemoryAccess:     delta.memoryAccess,
		IsHalted:         v.IsHalted(),
		StackPointer:     v.stackPointer,
	}, nil
}

// Run steps the VM until it halts or falls off the end of program
// memory.
func (v *VM) Run() error {
	for !v.IsHalted() && v.programCounter < uint32(v.programMemory.Size())*8 {
		if _, err := v.Step(); err != nil {
			return err
		}
	}
	return nil
}

func formatInstruction(decoded DecodedInstruction) string {
	var b strings.Builder
	b.WriteString(decoded.Operation.Name)
	for i, operand := range decoded.Operands {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatUint(uint64(operand), 10))
	}
	return b.String()
}
