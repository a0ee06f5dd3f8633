//go:build darwin && cgo

package remote

import (
	"fmt"

	"memdump/internal/attach"
	"memdump/internal/mach"
	"memdump/internal/memory"
)

// MachSource copies ranges with mach_vm_read_overwrite.
type MachSource struct {
	Task mach.Task
}

func (s MachSource) ReadAt(addr memory.Address, buf []byte) (int, error) {
	return mach.Read(s.Task, uint64(addr), buf)
}

// New returns the reader for kind. Word peeks are not available on darwin.
func New(kind Kind, h attach.Handle) (Reader, error) {
	switch kind {
	case KindAuto, KindBulk:
		return &BulkReader{Source: MachSource{Task: mach.Task(h.Task)}}, nil
	case KindPeek:
		return nil, fmt.Errorf("reader %q is not supported on darwin", kind)
	default:
		return nil, fmt.Errorf("unknown reader %q", kind)
	}
}
