// Package controller is the step-debugger binding named in spec §6: a
// small, mutex-guarded facade that assembles a source string, loads it
// into a VM, and exposes LoadProgram/Step/GetState/Reset for a browser
// front end to drive one step at a time. It is grounded on the
// teacher's DebuggerService (service/debugger_service.go) but scoped
// down to the four methods the step-debugger binding actually needs —
// no breakpoints, watchpoints, or TUI command surface, since those
// belong to the out-of-scope browser-binding layer, not the core.
package controller

import (
	"fmt"
	"sync"

	"github.com/lookbusy1344/sixbit-toolchain/encoder"
	"github.com/lookbusy1344/sixbit-toolchain/isa"
	"github.com/lookbusy1344/sixbit-toolchain/lexer"
	"github.com/lookbusy1344/sixbit-toolchain/preprocessor"
	"github.com/lookbusy1344/sixbit-toolchain/semantic"
	"github.com/lookbusy1344/sixbit-toolchain/sparser"
	"github.com/lookbusy1344/sixbit-toolchain/vm"
)

// Controller owns one VM and the last program assembled into it. All
// methods are safe for concurrent use, matching the teacher's
// DebuggerService lock discipline: a single mutex guards every field.
type Controller struct {
	mu sync.Mutex

	table *isa.Table
	v     *vm.VM
}

// New returns a Controller driving v. v is not reset; LoadProgram resets
// it when it loads a program.
func New(v *vm.VM) *Controller {
	return &Controller{table: isa.New(), v: v}
}

// LoadProgram assembles source through the full pipeline and loads the
// result into the controller's VM, matching the Rust wasm-wrapper's
// loadProgram(assembly_string) -> bool: any pipeline-stage error simply
// reports false, since the step-debugger binding has no caret-diagnostic
// surface of its own to render the error against.
func (c *Controller) LoadProgram(source string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stream, lines := lexer.Lex(source)
	stream, err := preprocessor.New().Process(stream, lines)
	if err != nil {
		return false, nil
	}
	statements, err := sparser.New().Parse(stream, lines)
	if err != nil {
		return false, nil
	}
	instructions, err := semantic.New(c.table).Parse(statements, lines)
	if err != nil {
		return false, nil
	}
	binary, _ := encoder.New().Encode(instructions)

	if err := c.v.LoadBinary(binary); err != nil {
		return false, fmt.Errorf("controller: load assembled binary: %w", err)
	}
	return true, nil
}

// Step executes exactly one instruction and returns its ExecutionStep.
func (c *Controller) Step() (vm.ExecutionStep, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v.Step()
}

// GetState returns a read-only snapshot of the VM.
func (c *Controller) GetState() vm.VMState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v.GetState()
}

// Reset zeroes the VM back to its power-on state.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v.Reset()
}
