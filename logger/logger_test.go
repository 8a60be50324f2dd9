package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileLoggerWritesToNamedFile(t *testing.T) {
	dir := t.TempDir()
	l, err := New("asm.txt", dir, File)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Log("assembled %d instructions", 3)
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "asm.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "assembled 3 instructions") {
		t.Fatalf("log file = %q, missing expected message", data)
	}
}

func TestConsoleLoggerDoesNotCreateFile(t *testing.T) {
	dir := t.TempDir()
	l, err := New("ignored.txt", dir, Console)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Log("hello")
	if _, err := os.Stat(filepath.Join(dir, "ignored.txt")); !os.IsNotExist(err) {
		t.Fatal("console logger should not create a log file")
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close on console logger: %v", err)
	}
}

func TestDiscardLoggerNeverErrors(t *testing.T) {
	l := Discard()
	l.Log("anything %s", "goes")
	if err := l.Close(); err != nil {
		t.Fatalf("Close on discard logger: %v", err)
	}
}
