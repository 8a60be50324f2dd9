// Command asm is the assembler CLI of spec §6: it takes one .asm file,
// runs it through lex -> preprocess -> syntactic parse -> semantic
// parse -> encode, and writes output.bin (plus debug.txt under
// --debug) into the configured output directory.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lookbusy1344/sixbit-toolchain/config"
	"github.com/lookbusy1344/sixbit-toolchain/encoder"
	"github.com/lookbusy1344/sixbit-toolchain/lexer"
	"github.com/lookbusy1344/sixbit-toolchain/loader"
	"github.com/lookbusy1344/sixbit-toolchain/logger"
	"github.com/lookbusy1344/sixbit-toolchain/preprocessor"
	"github.com/lookbusy1344/sixbit-toolchain/semantic"
	"github.com/lookbusy1344/sixbit-toolchain/sparser"
	"github.com/lookbusy1344/sixbit-toolchain/tools"

	"github.com/lookbusy1344/sixbit-toolchain/isa"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("asm", flag.ContinueOnError)
	debugMode := fs.Bool("debug", false, "emit per-step logs and a debug.txt bit dump")
	pretty := fs.Bool("pretty", false, "with --debug, insert delimiter separators into debug.txt")
	logTo := fs.String("log", "console", "log sink: console or file")
	logPath := fs.String("path", "./logs", "log file directory (with --log=file)")
	logFile := fs.String("filename", "asm.txt", "log file name (with --log=file)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: asm [flags] <file.asm>")
		return 1
	}
	inputPath := fs.Arg(0)
	if !strings.HasSuffix(inputPath, ".asm") {
		fmt.Fprintf(os.Stderr, "asm: %s: expected a .asm file\n", inputPath)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "asm: load config: %v\n", err)
		return 1
	}

	sink := logger.Console
	if *logTo == "file" {
		sink = logger.File
	}
	log, err := logger.New(*logFile, *logPath, sink)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asm: %v\n", err)
		return 1
	}
	defer log.Close()

	source, err := os.ReadFile(inputPath) // #nosec G304 -- CLI-specified input path
	if err != nil {
		fmt.Fprintf(os.Stderr, "asm: read %s: %v\n", inputPath, err)
		return 1
	}

	stream, lines := lexer.Lex(string(source))

	stream, err = preprocessor.New().Process(stream, lines)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	statements, err := sparser.New().Parse(stream, lines)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	instructions, err := semantic.New(isa.New()).Parse(statements, lines)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	enc := encoder.New()
	binary, delimiters := enc.Encode(instructions)
	if *debugMode {
		log.Log("assembled %d instructions, %d bytes", len(instructions), len(binary))
	}

	outputDir := cfg.Assembler.OutputDir
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		fmt.Fprintf(os.Stderr, "asm: create output dir: %v\n", err)
		return 1
	}
	if err := loader.WriteFile(filepath.Join(outputDir, "output.bin"), binary); err != nil {
		fmt.Fprintf(os.Stderr, "asm: %v\n", err)
		return 1
	}

	if *debugMode {
		dump := rawBitString(enc.Bits())
		if *pretty {
			dump = tools.FormatDebug(enc.Bits(), delimiters)
		}
		if err := os.WriteFile(filepath.Join(outputDir, "debug.txt"), []byte(dump), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "asm: write debug.txt: %v\n", err)
			return 1
		}
	}

	return 0
}

func rawBitString(bits []byte) string {
	var b strings.Builder
	for _, bit := range bits {
		if bit == 0 {
			b.WriteByte('0')
		} else {
			b.WriteByte('1')
		}
	}
	return b.String()
}
