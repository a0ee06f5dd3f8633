package dump

import (
	"fmt"
	"strings"

	"memdump/internal/memory"
)

// Policy decides which regions are worth dumping after a scan.
type Policy interface {
	Select(index int, r *memory.Region) bool
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(index int, r *memory.Region) bool

func (f PolicyFunc) Select(index int, r *memory.Region) bool { return f(index, r) }

// HeapStackAnon selects heap, stack and anonymous mappings.
var HeapStackAnon = PolicyFunc(func(_ int, r *memory.Region) bool {
	return r.Anonymous() || r.LabelContains("heap", "stack")
})

// Writable selects writable mappings.
var Writable = PolicyFunc(func(_ int, r *memory.Region) bool {
	return r.Perms.Write
})

// ParsePolicy maps a policy name to a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(name) {
	case "", "anon":
		return HeapStackAnon, nil
	case "writable":
		return Writable, nil
	case "all":
		return PolicyFunc(func(int, *memory.Region) bool { return true }), nil
	default:
		return nil, fmt.Errorf("unknown dump policy %q (want anon, writable or all)", name)
	}
}

// Candidate is a region chosen for dumping with its index in the snapshot.
type Candidate struct {
	Index  int
	Region *memory.Region
}

// Select applies p to regions in order, returning at most limit candidates
// (no cap when limit <= 0).
func Select(regions []memory.Region, p Policy, limit int) []Candidate {
	var out []Candidate
	for i := range regions {
		if limit > 0 && len(out) >= limit {
			break
		}
		if p.Select(i, &regions[i]) {
			out = append(out, Candidate{Index: i, Region: &regions[i]})
		}
	}
	return out
}
