// Package regions enumerates the mapped regions of a target process.
//
// Two backends produce the same ascending, capped sequence of regions: a
// text-table parser for /proc/<pid>/maps style sources and a native walker
// that repeatedly asks the OS for the next region at or after an address.
// A result is a snapshot; the target's mappings may change after it is taken.
package regions

import (
	"errors"
	"sort"

	"memdump/internal/memory"
)

var (
	// ErrEnumeration reports that the map source could not be read. Regions
	// returned alongside it are still usable.
	ErrEnumeration = errors.New("region enumeration failed")

	// ErrNoRegion is returned by a Querier when nothing is mapped at or
	// above the requested address.
	ErrNoRegion = errors.New("no region at or above address")
)

// Enumerator produces a snapshot of the target's regions.
type Enumerator interface {
	Regions() ([]memory.Region, error)
}

func sortRegions(rs []memory.Region) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].Start < rs[j].Start
	})
}
