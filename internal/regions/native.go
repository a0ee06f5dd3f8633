package regions

import (
	"errors"
	"fmt"

	"memdump/internal/memory"
)

// Querier answers "which region starts at or after addr".
type Querier interface {
	Next(addr memory.Address) (start memory.Address, size memory.Size, prot int, err error)
}

// Walk queries q from address 0 upward, advancing past each returned region,
// until q reports ErrNoRegion or limit regions have been collected. Any other
// query error ends the walk and is returned with the regions found so far.
func Walk(q Querier, limit int) ([]memory.Region, error) {
	var (
		regions []memory.Region
		addr    memory.Address
	)

	for len(regions) < limit {
		start, size, prot, err := q.Next(addr)
		if errors.Is(err, ErrNoRegion) {
			break
		}
		if err != nil {
			sortRegions(regions)
			return regions, fmt.Errorf("%w: query at %s: %w", ErrEnumeration, addr, err)
		}
		if size == 0 {
			break
		}

		end := start.Add(size)
		if end <= start {
			// wrapped past the top of the address space
			break
		}

		regions = append(regions, memory.Region{
			Start: start,
			End:   end,
			Perms: memory.FromProtection(prot),
		})
		addr = end
	}

	sortRegions(regions)
	return regions, nil
}

// NativeEnumerator enumerates regions through a Querier.
type NativeEnumerator struct {
	Querier Querier
	Limit   int
}

func (e *NativeEnumerator) Regions() ([]memory.Region, error) {
	limit := e.Limit
	if limit <= 0 {
		limit = memory.MaxRegions
	}
	return Walk(e.Querier, limit)
}
