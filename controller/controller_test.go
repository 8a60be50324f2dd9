package controller

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lookbusy1344/sixbit-toolchain/isa"
	"github.com/lookbusy1344/sixbit-toolchain/vm"
)

func newController() *Controller {
	return New(vm.New(isa.New(), strings.NewReader(""), &bytes.Buffer{}))
}

func TestLoadProgramThenStepMovesProgramCounter(t *testing.T) {
	c := newController()
	ok, err := c.LoadProgram("MOVER R0, 0\n")
	if err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	if !ok {
		t.Fatal("expected LoadProgram to succeed")
	}

	step, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if step.Address != 0 {
		t.Fatalf("step.Address = %d, want 0", step.Address)
	}

	state := c.GetState()
	r0, err := state.Registers.Get(0)
	if err != nil {
		t.Fatalf("Get register: %v", err)
	}
	if r0 != 0 {
		t.Fatalf("R0 = %d, want 0", r0)
	}
}

func TestLoadProgramReportsFalseOnSyntaxError(t *testing.T) {
	c := newController()
	ok, err := c.LoadProgram("MOVER R0,\n")
	if err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	if ok {
		t.Fatal("expected LoadProgram to report false for malformed source")
	}
}

func TestResetClearsProgramCounter(t *testing.T) {
	c := newController()
	if _, err := c.LoadProgram("MOVER R0, 0\n"); err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	c.Reset()
	state := c.GetState()
	if state.ProgramCounter != 0 {
		t.Fatalf("ProgramCounter after Reset = %d, want 0", state.ProgramCounter)
	}
}
