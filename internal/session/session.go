// Package session runs one sequential pass over an attached target:
// enumerate regions, scan each for the pattern, then dump selected regions
// when anything was found.
package session

import (
	"context"
	"os"

	"github.com/charmbracelet/log"

	"memdump/internal/dump"
	"memdump/internal/memory"
	"memdump/internal/regions"
	"memdump/internal/remote"
	"memdump/internal/scan"
)

type Config struct {
	Pid        int
	Enumerator regions.Enumerator
	Reader     remote.Reader
	Pattern    memory.Pattern
	Reporter   scan.Reporter
	Logger     *log.Logger

	Dump     bool
	DumpDir  string
	Policy   dump.Policy
	MaxDumps int

	// ConfirmDump, when set, is asked before any region is dumped.
	ConfirmDump func() bool
}

// Summary describes what a run did.
type Summary struct {
	Pid          int
	Pattern      memory.Pattern
	Regions      []memory.Region
	Scanned      int
	Skipped      int
	Matches      int
	BytesScanned int64
	Dumps        []DumpRecord
	Found        []memory.Match
	Enumeration  error
}

type DumpRecord struct {
	Index   int
	Region  memory.Region
	Path    string
	Bytes   int64
	Skipped string
	Err     error
}

func (s Summary) DumpedCount() int {
	n := 0
	for _, d := range s.Dumps {
		if d.Err == nil && d.Skipped == "" {
			n++
		}
	}
	return n
}

// Run executes the pipeline. Enumeration, read and persistence failures are
// logged and tolerated; the context is only checked between regions.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	lg := cfg.Logger
	if lg == nil {
		lg = log.Default()
	}
	sum := Summary{Pid: cfg.Pid, Pattern: cfg.Pattern}

	rs, err := cfg.Enumerator.Regions()
	if err != nil {
		lg.Error("Could not enumerate regions, continuing with what was found", "error", err, "regions", len(rs))
		sum.Enumeration = err
	}
	sum.Regions = rs
	lg.Info("Found memory regions", "count", len(rs))
	lg.Info("Searching for pattern", "pattern", cfg.Pattern.String())

	collector := &scan.Collector{Next: cfg.Reporter}
	scanner := &scan.Scanner{Reader: cfg.Reader, Reporter: collector, Logger: lg}

	for i := range rs {
		if err := ctx.Err(); err != nil {
			sum.Found = collector.Matches
			return sum, err
		}
		res := scanner.Scan(&rs[i], cfg.Pattern)
		if res.Skipped != scan.NotSkipped {
			sum.Skipped++
			continue
		}
		sum.Scanned++
		sum.Matches += res.Matches
		sum.BytesScanned += res.Bytes
	}
	sum.Found = collector.Matches
	lg.Info("Search complete", "matches", sum.Matches, "scanned", sum.Scanned, "skipped", sum.Skipped)

	if !cfg.Dump || sum.Matches == 0 {
		return sum, nil
	}
	if cfg.ConfirmDump != nil && !cfg.ConfirmDump() {
		return sum, nil
	}

	if err := dumpRegions(ctx, cfg, lg, &sum); err != nil {
		return sum, err
	}
	return sum, nil
}

func dumpRegions(ctx context.Context, cfg Config, lg *log.Logger, sum *Summary) error {
	dir := cfg.DumpDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		lg.Error("Cannot create dump directory", "dir", dir, "error", err)
		return nil
	}

	policy := cfg.Policy
	if policy == nil {
		policy = dump.HeapStackAnon
	}

	dumper := &dump.Dumper{Reader: cfg.Reader, Logger: lg}
	for _, c := range dump.Select(sum.Regions, policy, cfg.MaxDumps) {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := dump.FileName(dir, c.Index)
		res, err := dumper.Dump(c.Region, path)
		rec := DumpRecord{Index: c.Index, Region: *c.Region, Path: path, Bytes: res.Bytes, Skipped: res.Skipped.String()}
		if err != nil {
			rec.Err = err
			lg.Error("Dump failed", "region", c.Region, "path", path, "error", err)
		}
		sum.Dumps = append(sum.Dumps, rec)
	}
	return nil
}
