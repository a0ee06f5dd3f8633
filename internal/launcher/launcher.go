// Package launcher starts the bundled reference target so a session can
// attach to a freshly created process.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// DefaultDelay gives the target time to initialise. There is no readiness
// handshake.
const DefaultDelay = 2 * time.Second

// Target is a launched child process.
type Target struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	closed bool
}

// Start runs path with args and its output forwarded to out, then waits
// delay before returning unless ctx is cancelled first.
func Start(ctx context.Context, path string, out io.Writer, delay time.Duration, args ...string) (*Target, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("target program: %w", err)
	}

	cmd := exec.Command(path, args...)
	cmd.Stdout = out
	cmd.Stderr = out

	// The target waits on stdin; holding the pipe open keeps it alive.
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdin pipe - %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start target - %w", err)
	}

	t := &Target{cmd: cmd, stdin: stdin}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		_ = t.Close()
		return nil, ctx.Err()
	}
	return t, nil
}

func (t *Target) Pid() int {
	return t.cmd.Process.Pid
}

// Close terminates the target and reaps it. Calling it again is a no-op.
func (t *Target) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	defer t.stdin.Close()

	if err := t.cmd.Process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("terminate target: %w", err)
	}
	err := t.cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// killed by our SIGTERM
		return nil
	}
	return err
}
