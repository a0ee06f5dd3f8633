//go:build darwin && cgo

package regions

import (
	"errors"

	"github.com/charmbracelet/log"

	"memdump/internal/attach"
	"memdump/internal/mach"
	"memdump/internal/memory"
)

type machQuerier struct {
	task mach.Task
}

func (q machQuerier) Next(addr memory.Address) (memory.Address, memory.Size, int, error) {
	start, size, prot, err := mach.RegionAt(q.task, uint64(addr))
	if errors.Is(err, mach.ErrNoRegion) {
		return 0, 0, 0, ErrNoRegion
	}
	if err != nil {
		return 0, 0, 0, err
	}
	return memory.Address(start), memory.Size(size), prot, nil
}

// ForHandle returns the platform enumerator for an attached target.
func ForHandle(h attach.Handle, _ *log.Logger) Enumerator {
	return &NativeEnumerator{
		Querier: machQuerier{task: mach.Task(h.Task)},
		Limit:   memory.MaxRegions,
	}
}
