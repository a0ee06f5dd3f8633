// Package dump persists target regions to disk as raw binary images.
package dump

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"memdump/internal/memory"
	"memdump/internal/remote"
)

// ErrPersistence reports that a dump file could not be created or written.
var ErrPersistence = errors.New("dump persistence failed")

type SkipReason int

const (
	NotSkipped SkipReason = iota
	SkipNotReadable
	SkipTooLarge
)

func (r SkipReason) String() string {
	switch r {
	case NotSkipped:
		return ""
	case SkipNotReadable:
		return "not readable"
	case SkipTooLarge:
		return "region too large for dump"
	default:
		return "unknown"
	}
}

type Result struct {
	Path         string
	Bytes        int64
	FailedChunks int
	Skipped      SkipReason
}

type Dumper struct {
	Reader remote.Reader
	Logger *log.Logger

	// Zero values select the memory package defaults.
	ChunkSize int
	Limit     memory.Size
}

// FileName returns the deterministic dump path for the region at index.
func FileName(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("dump_region_%d.bin", index))
}

// Dump writes the region's bytes to path in address order. The file is
// always exactly region.Size() bytes; chunks that cannot be read are written
// as zeros so later offsets stay aligned with their addresses.
func (d *Dumper) Dump(region *memory.Region, path string) (Result, error) {
	lg := d.Logger
	if lg == nil {
		lg = log.Default()
	}

	if !region.Readable() {
		lg.Info("Region not readable, skipping dump", "region", region)
		return Result{Skipped: SkipNotReadable}, nil
	}
	limit := d.Limit
	if limit == 0 {
		limit = memory.DumpRegionLimit
	}
	if region.Size() > limit {
		lg.Info("Region too large, skipping dump", "region", region, "size", region.Size())
		return Result{Skipped: SkipTooLarge}, nil
	}

	lg.Info("Dumping region", "region", region, "path", path, "size", region.Size())

	f, err := os.Create(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	res, err := d.writeChunks(region, f)
	res.Path = path
	if cerr := f.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("%w: %w", ErrPersistence, cerr)
	}
	if err != nil {
		return res, err
	}

	if res.FailedChunks > 0 {
		lg.Warn("Dump contains unreadable chunks", "path", path, "chunks", res.FailedChunks)
	}
	lg.Info("Dump completed", "path", path, "bytes", res.Bytes)
	return res, nil
}

func (d *Dumper) writeChunks(region *memory.Region, f *os.File) (Result, error) {
	chunkSize := d.ChunkSize
	if chunkSize <= 0 {
		chunkSize = memory.ChunkSize
	}
	if chunkSize > memory.MaxReadSize {
		chunkSize = memory.MaxReadSize
	}

	w := bufio.NewWriter(f)
	var res Result
	size := region.Size()
	for off := memory.Size(0); off < size; off += memory.Size(chunkSize) {
		n := chunkSize
		if remaining := size - off; remaining < memory.Size(n) {
			n = int(remaining)
		}

		rr := d.Reader.Read(region.Start.Add(off), n)
		chunk := rr.Data
		if !rr.OK() {
			res.FailedChunks++
			chunk = make([]byte, n)
		}

		written, err := w.Write(chunk)
		res.Bytes += int64(written)
		if err != nil {
			return res, fmt.Errorf("%w: %w", ErrPersistence, err)
		}
	}

	if err := w.Flush(); err != nil {
		return res, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return res, nil
}
