//go:build linux

package attach

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// PtraceTracer attaches with PTRACE_ATTACH. Every ptrace request must come
// from the thread that attached, so the calling goroutine stays locked to
// its OS thread until Detach.
type PtraceTracer struct{}

func DefaultTracer() Tracer {
	return PtraceTracer{}
}

func (PtraceTracer) Attach(pid int) (Handle, error) {
	runtime.LockOSThread()
	if err := unix.PtraceAttach(pid); err != nil {
		runtime.UnlockOSThread()
		return Handle{}, fmt.Errorf("ptrace attach: %w", err)
	}
	return Handle{Pid: pid}, nil
}

func (PtraceTracer) WaitStop(h Handle) error {
	var ws unix.WaitStatus
	for {
		_, err := unix.Wait4(h.Pid, &ws, 0, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return fmt.Errorf("wait4: %w", err)
		}
		break
	}
	if !ws.Stopped() {
		return fmt.Errorf("unexpected wait status %#x", uint32(ws))
	}
	return nil
}

func (PtraceTracer) Detach(h Handle) error {
	defer runtime.UnlockOSThread()
	if err := unix.PtraceDetach(h.Pid); err != nil {
		return fmt.Errorf("ptrace detach: %w", err)
	}
	return nil
}
