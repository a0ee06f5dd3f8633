package memory

import (
	"fmt"
	"strings"
)

// Address is a location in the target's address space.
type Address uint64

// Size is a length in the target's address space.
type Size uint64

func (a Address) String() string {
	return fmt.Sprintf("0x%x", uint64(a))
}

// Add returns the address n bytes past a.
func (a Address) Add(n Size) Address {
	return a + Address(n)
}

// VM_PROT style protection bits
const (
	ProtRead    = 0x1
	ProtWrite   = 0x2
	ProtExecute = 0x4
)

// Permissions describes the protection of a mapped region.
type Permissions struct {
	Read    bool
	Write   bool
	Execute bool
	Shared  bool
}

// ParsePermissions parses the permission column of a process map, e.g. "r-xp".
func ParsePermissions(s string) (Permissions, error) {
	if len(s) < 3 {
		return Permissions{}, fmt.Errorf("permission string %q too short", s)
	}

	var p Permissions
	flags := []struct {
		set  byte
		dst  *bool
		name string
	}{
		{'r', &p.Read, "read"},
		{'w', &p.Write, "write"},
		{'x', &p.Execute, "execute"},
	}
	for i, f := range flags {
		switch s[i] {
		case f.set:
			*f.dst = true
		case '-':
		default:
			return Permissions{}, fmt.Errorf("invalid %s flag %q in %q", f.name, s[i], s)
		}
	}

	if len(s) > 3 {
		switch s[3] {
		case 's':
			p.Shared = true
		case 'p', '-':
		default:
			return Permissions{}, fmt.Errorf("invalid sharing flag %q in %q", s[3], s)
		}
	}
	return p, nil
}

// FromProtection maps a read/write/execute protection bitmask.
func FromProtection(prot int) Permissions {
	return Permissions{
		Read:    prot&ProtRead != 0,
		Write:   prot&ProtWrite != 0,
		Execute: prot&ProtExecute != 0,
	}
}

// String renders the four character maps form ("rw-p").
func (p Permissions) String() string {
	b := []byte("---p")
	if p.Read {
		b[0] = 'r'
	}
	if p.Write {
		b[1] = 'w'
	}
	if p.Execute {
		b[2] = 'x'
	}
	if p.Shared {
		b[3] = 's'
	}
	return string(b)
}

// Region is one contiguous mapping of the target. End is exclusive.
type Region struct {
	Start Address
	End   Address
	Perms Permissions
	Label string // backing path or kind, empty for anonymous mappings
}

// Size returns the length of the region in bytes.
func (r Region) Size() Size {
	if r.End <= r.Start {
		return 0
	}
	return Size(r.End - r.Start)
}

func (r Region) Readable() bool { return r.Perms.Read }

func (r Region) Anonymous() bool { return r.Label == "" }

// Name returns the label, or "[anonymous]" for anonymous mappings.
func (r Region) Name() string {
	if r.Label == "" {
		return "[anonymous]"
	}
	return r.Label
}

// Contains reports whether addr lies within the region.
func (r Region) Contains(addr Address) bool {
	return addr >= r.Start && addr < r.End
}

// LabelContains reports whether the label contains any of the given substrings.
func (r Region) LabelContains(subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(r.Label, s) {
			return true
		}
	}
	return false
}

func (r Region) String() string {
	return fmt.Sprintf("%x-%x %s %s", uint64(r.Start), uint64(r.End), r.Perms, r.Name())
}

// Match is a single pattern occurrence found by a scan.
type Match struct {
	Address Address
	Region  *Region

	// Context holds the bytes around the match; the pattern itself
	// begins at ContextOffset.
	Context       []byte
	ContextOffset int
}
