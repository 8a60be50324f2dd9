// Package loader bridges an assembled binary image — either the
// encoder's byte output or a .bin file on disk — into a VM's program
// memory. This ISA has no multi-segment or .org concept, so unlike the
// teacher's segment-aware loader, there is only one thing to load: the
// flat packed bitstream plus its 4-byte trailer, both consumed by
// vm.LoadBinary.
package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/lookbusy1344/sixbit-toolchain/vm"
)

// LoadBytes loads an already-assembled binary image into v.
func LoadBytes(v *vm.VM, data []byte) error {
	return v.LoadBinary(data)
}

// LoadFile reads an assembled .bin file from disk and loads it into v.
func LoadFile(v *vm.VM, path string) error {
	if !strings.HasSuffix(path, ".bin") {
		return fmt.Errorf("loader: %s: expected a .bin file", path)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- CLI-specified input path
	if err != nil {
		return fmt.Errorf("loader: read %s: %w", path, err)
	}
	return LoadBytes(v, data)
}

// WriteFile writes an assembled binary image to path, creating or
// truncating it.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("loader: write %s: %w", path, err)
	}
	return nil
}
