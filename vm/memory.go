package vm

import "fmt"

// Memory is a fixed-size byte-addressable array used for both program and
// data memory.
type Memory struct {
	cells []byte
}

// NewMemory returns a zeroed Memory of the given size.
func NewMemory(size int) *Memory {
	return &Memory{cells: make([]byte, size)}
}

// Size returns the number of addressable bytes.
func (m *Memory) Size() int {
	return len(m.cells)
}

// Get reads the byte at addr.
func (m *Memory) Get(addr uint32) (byte, error) {
	if int(addr) >= len(m.cells) {
		return 0, fmt.Errorf("memory address out of bounds: %d", addr)
	}
	return m.cells[addr], nil
}

// Set writes value at addr.
func (m *Memory) Set(addr uint32, value byte) error {
	if int(addr) >= len(m.cells) {
		return fmt.Errorf("memory address out of bounds: %d", addr)
	}
	m.cells[addr] = value
	return nil
}

// Bit reads the bit at the given bit address: byte `bitAddr/8`, bit
// `7-(bitAddr%8)` from the MSB. Used by the instruction decoder, which
// walks the program image one bit at a time.
func (m *Memory) Bit(bitAddr uint32) (byte, error) {
	b, err := m.Get(bitAddr / 8)
	if err != nil {
		return 0, err
	}
	shift := 7 - (bitAddr % 8)
	return (b >> shift) & 1, nil
}

// Clone returns an independent copy, used by GetState so callers can't
// mutate the VM's live memory through the returned snapshot.
func (m *Memory) Clone() *Memory {
	cp := make([]byte, len(m.cells))
	copy(cp, m.cells)
	return &Memory{cells: cp}
}

// Bytes exposes the raw backing array, read-only by convention.
func (m *Memory) Bytes() []byte {
	return m.cells
}
