// Command vm is the VM CLI of spec §6: it loads one assembled .bin
// file and runs it to completion, optionally logging each step under
// --debug.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lookbusy1344/sixbit-toolchain/config"
	"github.com/lookbusy1344/sixbit-toolchain/isa"
	"github.com/lookbusy1344/sixbit-toolchain/loader"
	"github.com/lookbusy1344/sixbit-toolchain/logger"
	"github.com/lookbusy1344/sixbit-toolchain/vm"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("vm", flag.ContinueOnError)
	debugMode := fs.Bool("debug", false, "emit per-step logs")
	_ = fs.Bool("pretty", false, "accepted for CLI-surface parity with asm; unused by the VM")
	logTo := fs.String("log", "console", "log sink: console or file")
	logPath := fs.String("path", "./logs", "log file directory (with --log=file)")
	logFile := fs.String("filename", "vm.txt", "log file name (with --log=file)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: vm [flags] <file.bin>")
		return 1
	}
	inputPath := fs.Arg(0)
	if !strings.HasSuffix(inputPath, ".bin") {
		fmt.Fprintf(os.Stderr, "vm: %s: expected a .bin file\n", inputPath)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vm: load config: %v\n", err)
		return 1
	}

	sink := logger.Console
	if *logTo == "file" {
		sink = logger.File
	}
	log, err := logger.New(*logFile, *logPath, sink)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vm: %v\n", err)
		return 1
	}
	defer log.Close()

	machine := vm.New(isa.New(), os.Stdin, os.Stdout)
	if err := loader.LoadFile(machine, inputPath); err != nil {
		fmt.Fprintf(os.Stderr, "vm: %v\n", err)
		return 1
	}

	cycles := uint64(0)
	for !machine.IsHalted() {
		if cfg.VM.MaxCycles != 0 && cycles >= cfg.VM.MaxCycles {
			fmt.Fprintf(os.Stderr, "vm: exceeded max-cycles %d\n", cfg.VM.MaxCycles)
			return 1
		}

		step, err := machine.Step()
		if err != nil {
			fmt.Fprintf(os.Stderr, "vm: %v\n", err)
			return 1
		}
		if *debugMode {
			log.Log("%s @%d regs=%v flags=%v", step.Instruction, step.Address, step.ChangedRegisters, step.ChangedFlags)
		}
		cycles++
	}

	return 0
}
