package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lookbusy1344/sixbit-toolchain/isa"
	"github.com/lookbusy1344/sixbit-toolchain/vm"
)

func haltBinary() []byte {
	// HALT is opcode 0 with no operands: a single 6-bit zero field,
	// padded to one byte, plus a 4-byte trailer of 6.
	return []byte{0x00, 0, 0, 0, 6}
}

func TestLoadFileRejectsWrongExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "program.asm")
	if err := os.WriteFile(path, []byte("HALT\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	v := vm.New(isa.New(), strings.NewReader(""), &bytes.Buffer{})
	if err := LoadFile(v, path); err == nil {
		t.Fatal("expected LoadFile to reject a non-.bin path")
	}
}

func TestLoadFileLoadsValidBinary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "program.bin")
	if err := os.WriteFile(path, haltBinary(), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	v := vm.New(isa.New(), strings.NewReader(""), &bytes.Buffer{})
	if err := LoadFile(v, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if v.IsHalted() {
		t.Fatal("freshly loaded program should not already be halted")
	}
}

func TestWriteFileThenLoadFileRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")
	data := haltBinary()

	if err := WriteFile(path, data); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	v := vm.New(isa.New(), strings.NewReader(""), &bytes.Buffer{})
	if err := LoadFile(v, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
}
