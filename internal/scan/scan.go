// Package scan searches target regions for a fixed byte pattern.
package scan

import (
	"bytes"

	"github.com/charmbracelet/log"

	"memdump/internal/memory"
	"memdump/internal/remote"
)

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
		return "region too large"
	default:
		return "unknown"
	}
}

// Reporter receives scan progress. Implementations must not retain
// Match.Context beyond the call unless they copy it.
type Reporter interface {
	Region(r *memory.Region)
	Match(m memory.Match)
}

// Result summarises one region scan.
type Result struct {
	Matches      int
	Bytes        int64 // bytes actually compared
	Chunks       int
	FailedChunks int
	Faults       int
	Skipped      SkipReason
}

type Scanner struct {
	Reader   remote.Reader
	Reporter Reporter
	Logger   *log.Logger

	// Zero values select the memory package defaults.
	ChunkSize   int
	MaxReadSize int
	Limit       memory.Size
}

func (s *Scanner) logger() *log.Logger {
	if s.Logger == nil {
		return log.Default()
	}
	return s.Logger
}

// Scan walks region in chunks and reports every occurrence of pattern.
// Occurrences straddling two chunks are not found.
func (s *Scanner) Scan(region *memory.Region, pattern memory.Pattern) Result {
	lg := s.logger()

	if !region.Readable() {
		lg.Info("Skipping region", "region", region, "reason", SkipNotReadable)
		return Result{Skipped: SkipNotReadable}
	}
	limit := s.Limit
	if limit == 0 {
		limit = memory.ScanRegionLimit
	}
	if region.Size() > limit {
		lg.Info("Skipping region", "region", region, "reason", SkipTooLarge, "size", region.Size())
		return Result{Skipped: SkipTooLarge}
	}

	if s.Reporter != nil {
		s.Reporter.Region(region)
	}

	chunkSize := s.ChunkSize
	if chunkSize <= 0 {
		chunkSize = memory.ChunkSize
	}
	maxRead := s.MaxReadSize
	if maxRead <= 0 {
		maxRead = memory.MaxReadSize
	}
	if chunkSize > maxRead {
		chunkSize = maxRead
	}

	var res Result
	size := region.Size()
	for off := memory.Size(0); off < size; off += memory.Size(chunkSize) {
		n := chunkSize
		if remaining := size - off; remaining < memory.Size(n) {
			n = int(remaining)
		}

		base := region.Start.Add(off)
		rr := s.Reader.Read(base, n)
		res.Chunks++
		res.Faults += rr.Faults
		if !rr.OK() {
			res.FailedChunks++
			lg.Debug("Skipping unreadable chunk", "addr", base, "len", n, "error", rr.Err)
			continue
		}

		chunk := rr.Data
		res.Bytes += int64(len(chunk))
		res.Matches += Search(chunk, pattern[:], func(i int) {
			if s.Reporter == nil {
				return
			}
			ctx, ctxOff := contextWindow(chunk, i, len(pattern))
			s.Reporter.Match(memory.Match{
				Address:       base.Add(memory.Size(i)),
				Region:        region,
				Context:       ctx,
				ContextOffset: ctxOff,
			})
		})
	}

	if res.Faults > 0 || res.FailedChunks > 0 {
		lg.Debug("Partial read", "region", region, "faulted_words", res.Faults, "failed_chunks", res.FailedChunks)
	}
	return res
}

// Search compares pattern at every offset of chunk and calls found for each
// match. A chunk shorter than the pattern has no candidate offsets.
func Search(chunk, pattern []byte, found func(i int)) int {
	if len(pattern) == 0 || len(chunk) < len(pattern) {
		return 0
	}

	matches := 0
	last := len(chunk) - len(pattern)
	for i := 0; i <= last; i++ {
		if bytes.Equal(chunk[i:i+len(pattern)], pattern) {
			matches++
			if found != nil {
				found(i)
			}
		}
	}
	return matches
}

// contextWindow copies up to ContextBytes on each side of the match at i,
// clipped to the chunk, and returns where the match starts in the copy.
func contextWindow(chunk []byte, i, plen int) ([]byte, int) {
	start := i - memory.ContextBytes
	if start < 0 {
		start = 0
	}
	end := i + plen + memory.ContextBytes
	if end > len(chunk) {
		end = len(chunk)
	}
	ctx := make([]byte, end-start)
	copy(ctx, chunk[start:end])
	return ctx, i - start
}
