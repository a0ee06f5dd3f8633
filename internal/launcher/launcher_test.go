package launcher

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestStartAndClose(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script target")
	}

	script := filepath.Join(t.TempDir(), "target.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nread line\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	target, err := Start(context.Background(), script, io.Discard, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if target.Pid() <= 0 {
		t.Errorf("pid = %d", target.Pid())
	}
	if err := target.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := target.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestStartMissingProgram(t *testing.T) {
	_, err := Start(context.Background(), filepath.Join(t.TempDir(), "nope"), io.Discard, 0)
	if err == nil {
		t.Fatal("expected error for missing target program")
	}
}

func TestStartCancelled(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script target")
	}

	script := filepath.Join(t.TempDir(), "target.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nread line\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Start(ctx, script, io.Discard, time.Hour); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestStartPassesArgs(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script target")
	}

	script := filepath.Join(t.TempDir(), "target.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho \"arg=$1\"\nread line\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	target, err := Start(context.Background(), script, &out, 50*time.Millisecond, "--known")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := target.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !strings.Contains(out.String(), "arg=--known") {
		t.Errorf("target output = %q", out.String())
	}
}
