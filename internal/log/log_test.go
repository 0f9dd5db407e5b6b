package log

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"trace", LevelTrace},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"Error", slog.LevelError},
		{"none", LevelNone},
		{"", LevelNone},
		{"nonsense", LevelNone},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestOutputAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lox.log")

	out := Open(path)
	defer out.Close()

	if _, err := out.Write([]byte("first\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := out.Write([]byte("second\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if string(data) != "first\nsecond\n" {
		t.Errorf("wrong log contents. got=%q", string(data))
	}
}

func TestOpenFallsBackToStderr(t *testing.T) {
	// A directory cannot be opened as a log file.
	out := Open(t.TempDir())
	defer out.Close()

	if out.file != nil {
		t.Errorf("expected no file handle after a failed open")
	}
	if _, err := out.Write([]byte("")); err != nil {
		t.Errorf("stderr fallback write failed: %v", err)
	}
}
