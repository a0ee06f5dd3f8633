// Package remote reads bytes out of another process's address space.
//
// Two strategies sit behind Reader. PeekReader fetches one word at a time and
// zero-fills words that fault, so a read always yields the requested length.
// BulkReader issues a single copy request and fails as a whole.
package remote

import (
	"errors"
	"fmt"

	"memdump/internal/memory"
)

// ErrShortRead reports that a bulk copy returned fewer bytes than requested.
var ErrShortRead = errors.New("short read")

type Status int

const (
	// Full means every byte was read from the target.
	Full Status = iota
	// ZeroFilled means some words faulted and were replaced with zeros.
	ZeroFilled
	// Failed means no data is available for this request.
	Failed
)

func (s Status) String() string {
	switch s {
	case Full:
		return "full"
	case ZeroFilled:
		return "zero-filled"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ReadResult is the outcome of one read. Data is owned by the caller and is
// nil when Status is Failed; otherwise len(Data) equals the requested length.
type ReadResult struct {
	Data   []byte
	Status Status
	Faults int   // words replaced with zeros
	Err    error // first underlying error, if any
}

func (r ReadResult) OK() bool {
	return r.Status != Failed
}

// Reader reads length bytes starting at addr in the target.
type Reader interface {
	Read(addr memory.Address, length int) ReadResult
}

// WordPeeker fetches a single machine word from the target.
type WordPeeker interface {
	PeekWord(addr memory.Address) ([memory.WordSize]byte, error)
}

// PeekReader reads word by word, tolerating faults by zero-filling.
type PeekReader struct {
	Peeker WordPeeker
}

func (r *PeekReader) Read(addr memory.Address, length int) ReadResult {
	if length <= 0 {
		return ReadResult{Data: []byte{}, Status: Full}
	}

	res := ReadResult{Data: make([]byte, length), Status: Full}
	for off := 0; off < length; off += memory.WordSize {
		word, err := r.Peeker.PeekWord(addr.Add(memory.Size(off)))
		if err != nil {
			res.Faults++
			if res.Err == nil {
				res.Err = fmt.Errorf("peek %s: %w", addr.Add(memory.Size(off)), err)
			}
			// the buffer is already zero at this offset
			continue
		}
		copy(res.Data[off:], word[:])
	}

	if res.Faults > 0 {
		res.Status = ZeroFilled
	}
	return res
}

// BulkSource copies a byte range out of the target in one request.
type BulkSource interface {
	ReadAt(addr memory.Address, buf []byte) (int, error)
}

// BulkReader reads a whole range in one request; any failure fails the read.
type BulkReader struct {
	Source BulkSource
}

func (r *BulkReader) Read(addr memory.Address, length int) ReadResult {
	if length <= 0 {
		return ReadResult{Data: []byte{}, Status: Full}
	}

	buf := make([]byte, length)
	n, err := r.Source.ReadAt(addr, buf)
	if err != nil {
		return ReadResult{Status: Failed, Err: fmt.Errorf("read %d bytes at %s: %w", length, addr, err)}
	}
	if n != length {
		return ReadResult{Status: Failed, Err: fmt.Errorf("read %d of %d bytes at %s: %w", n, length, addr, ErrShortRead)}
	}
	return ReadResult{Data: buf, Status: Full}
}
