package regions

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"memdump/internal/memory"
)

// ParseMaps reads a maps table, one region per line:
//
//	start-end perms offset dev inode [pathname]
//
// Only the range, permissions and pathname are kept. Malformed lines are
// skipped and counted. At most limit regions are returned.
func ParseMaps(r io.Reader, limit int) (regions []memory.Region, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)

	for scanner.Scan() {
		if len(regions) >= limit {
			break
		}
		region, ok := parseMapsLine(scanner.Text())
		if !ok {
			skipped++
			continue
		}
		regions = append(regions, region)
	}
	if err := scanner.Err(); err != nil {
		return regions, skipped, err
	}

	sortRegions(regions)
	return regions, skipped, nil
}

func parseMapsLine(line string) (memory.Region, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return memory.Region{}, false
	}

	lo, hi, found := strings.Cut(fields[0], "-")
	if !found {
		return memory.Region{}, false
	}
	start, err := strconv.ParseUint(lo, 16, 64)
	if err != nil {
		return memory.Region{}, false
	}
	end, err := strconv.ParseUint(hi, 16, 64)
	if err != nil || start >= end {
		return memory.Region{}, false
	}

	perms, err := memory.ParsePermissions(fields[1])
	if err != nil {
		return memory.Region{}, false
	}

	// Pathnames may contain spaces; the kernel's " (deleted)" marker is not
	// part of the name.
	var label string
	if len(fields) > 5 {
		label = strings.TrimSuffix(strings.Join(fields[5:], " "), " (deleted)")
	}

	return memory.Region{
		Start: memory.Address(start),
		End:   memory.Address(end),
		Perms: perms,
		Label: label,
	}, true
}

// MapsEnumerator enumerates regions from a maps table source.
type MapsEnumerator struct {
	Name   string
	Open   func() (io.ReadCloser, error)
	Limit  int
	Logger *log.Logger
}

// ProcMaps reads /proc/<pid>/maps.
func ProcMaps(pid int, logger *log.Logger) *MapsEnumerator {
	path := fmt.Sprintf("/proc/%d/maps", pid)
	return &MapsEnumerator{
		Name: path,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
		Limit:  memory.MaxRegions,
		Logger: logger,
	}
}

func (e *MapsEnumerator) Regions() ([]memory.Region, error) {
	f, err := e.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrEnumeration, e.Name, err)
	}
	defer f.Close()

	limit := e.Limit
	if limit <= 0 {
		limit = memory.MaxRegions
	}

	regions, skipped, err := ParseMaps(f, limit)
	if skipped > 0 && e.Logger != nil {
		e.Logger.Debug("Skipped malformed map lines", "source", e.Name, "count", skipped)
	}
	if err != nil {
		return regions, fmt.Errorf("%w: read %s: %w", ErrEnumeration, e.Name, err)
	}
	return regions, nil
}
