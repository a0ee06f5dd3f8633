package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug": log.DebugLevel,
		"warn":  log.WarnLevel,
		"error": log.ErrorLevel,
		"":      log.InfoLevel,
		"loud":  log.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerWithWriter(t *testing.T) {
	t.Setenv("MEMDUMP_LOG_LEVEL", "warn")
	t.Setenv("MEMDUMP_LOG_PREFIX", "test")

	var buf bytes.Buffer
	lg := NewLoggerWithWriter(&buf)
	lg.Info("hidden")
	lg.Warn("shown", "pid", 42)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "test") || !strings.Contains(out, "pid=42") {
		t.Errorf("unexpected output %q", out)
	}
	if err := lg.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestLoggerClosesFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	lg := NewLoggerWithWriter(f)
	lg.Error("boom")
	if err := lg.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := f.Write([]byte("x")); err == nil {
		t.Error("file still open after Close")
	}
}
