//go:build linux

package remote

import (
	"fmt"

	"golang.org/x/sys/unix"

	"memdump/internal/attach"
	"memdump/internal/memory"
)

// PtracePeeker reads with PTRACE_PEEKDATA. It must be used from the thread
// that attached to the target.
type PtracePeeker struct {
	Pid int
}

func (p PtracePeeker) PeekWord(addr memory.Address) ([memory.WordSize]byte, error) {
	var word [memory.WordSize]byte
	n, err := unix.PtracePeekData(p.Pid, uintptr(addr), word[:])
	if err != nil {
		return word, err
	}
	if n != len(word) {
		return [memory.WordSize]byte{}, fmt.Errorf("peek returned %d bytes", n)
	}
	return word, nil
}

// VMReadvSource copies ranges with process_vm_readv(2).
type VMReadvSource struct {
	Pid int
}

func (s VMReadvSource) ReadAt(addr memory.Address, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	local := []unix.Iovec{{Base: &buf[0]}}
	local[0].SetLen(len(buf))
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: len(buf)}}
	return unix.ProcessVMReadv(s.Pid, local, remote, 0)
}

// New returns the reader for kind. On linux auto selects word peeks.
func New(kind Kind, h attach.Handle) (Reader, error) {
	switch kind {
	case KindAuto, KindPeek:
		return &PeekReader{Peeker: PtracePeeker{Pid: h.Pid}}, nil
	case KindBulk:
		return &BulkReader{Source: VMReadvSource{Pid: h.Pid}}, nil
	default:
		return nil, fmt.Errorf("unknown reader %q", kind)
	}
}
