//go:build darwin && cgo

package attach

import (
	"errors"

	"memdump/internal/mach"
)

// TaskTracer obtains the target's task port and suspends it while attached.
type TaskTracer struct{}

func DefaultTracer() Tracer {
	return TaskTracer{}
}

func (TaskTracer) Attach(pid int) (Handle, error) {
	task, err := mach.TaskForPid(pid)
	if err != nil {
		return Handle{}, err
	}
	return Handle{Pid: pid, Task: uint32(task)}, nil
}

func (TaskTracer) WaitStop(h Handle) error {
	return mach.Suspend(mach.Task(h.Task))
}

func (TaskTracer) Detach(h Handle) error {
	task := mach.Task(h.Task)
	return errors.Join(mach.Resume(task), mach.Release(task))
}
