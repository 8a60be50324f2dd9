// Package logger wraps the standard library's log.Logger with the
// console/file sink selection the assembler and VM CLIs expose via
// --log/--path/--filename.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// LogTo selects where a Logger writes.
type LogTo int

const (
	Console LogTo = iota
	File
)

// Logger is a thin, single-purpose wrapper: every call goes through
// Log, which forwards to an underlying *log.Logger pointed at os.Stdout,
// an opened file, or (for Discard) io.Discard.
type Logger struct {
	out *log.Logger
	f   *os.File
}

// New builds a Logger. When to is File, dir is created if needed and
// filename is opened (truncated) inside it; when to is Console, dir and
// filename are ignored and output goes to os.Stdout.
func New(filename, dir string, to LogTo) (*Logger, error) {
	if to == Console {
		return &Logger{out: log.New(os.Stdout, "", log.LstdFlags)}, nil
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("logger: create log dir %s: %w", dir, err)
	}
	f, err := os.Create(filepath.Join(dir, filename)) // #nosec G304 -- CLI-specified log path
	if err != nil {
		return nil, fmt.Errorf("logger: create log file: %w", err)
	}
	return &Logger{out: log.New(f, "", log.LstdFlags), f: f}, nil
}

// Discard returns a Logger that drops everything, for callers that want
// debug logging disabled without branching on a nil *Logger.
func Discard() *Logger {
	return &Logger{out: log.New(io.Discard, "", 0)}
}

// Log writes one formatted line.
func (l *Logger) Log(format string, args ...any) {
	l.out.Printf(format, args...)
}

// Close releases the underlying file, if any. Safe to call on a
// console-backed or discard Logger.
func (l *Logger) Close() error {
	if l.f == nil {
		return nil
	}
	return l.f.Close()
}
