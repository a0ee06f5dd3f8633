package scan

import (
	"fmt"
	"io"
	"strings"

	"memdump/internal/memory"
)

// FormatContext renders the bytes around a match. Matched bytes are shown as
// "[xx]" and passed through highlight when it is non-nil; surrounding bytes
// are shown as " xx ".
func FormatContext(m memory.Match, patternLen int, highlight func(string) string) string {
	var sb strings.Builder
	for j, b := range m.Context {
		if j >= m.ContextOffset && j < m.ContextOffset+patternLen {
			cell := fmt.Sprintf("[%02x]", b)
			if highlight != nil {
				cell = highlight(cell)
			}
			sb.WriteString(cell)
		} else {
			fmt.Fprintf(&sb, " %02x ", b)
		}
	}
	return sb.String()
}

// ConsoleReporter prints regions and matches as plain text.
type ConsoleReporter struct {
	Out        io.Writer
	PatternLen int
	Highlight  func(string) string
}

func (c *ConsoleReporter) Region(r *memory.Region) {
	fmt.Fprintf(c.Out, "Searching region: %x-%x %s %s\n", uint64(r.Start), uint64(r.End), r.Perms, r.Name())
}

func (c *ConsoleReporter) Match(m memory.Match) {
	plen := c.PatternLen
	if plen == 0 {
		plen = memory.PatternSize
	}
	fmt.Fprintf(c.Out, "*** FOUND PATTERN at address: %s\n", m.Address)
	if m.Region != nil {
		fmt.Fprintf(c.Out, "    Memory region: %s\n", m.Region.Name())
	}
	fmt.Fprintf(c.Out, "    Surrounding memory (hex): %s\n", FormatContext(m, plen, c.Highlight))
}

// Collector keeps every match it receives, optionally forwarding to Next.
type Collector struct {
	Next    Reporter
	Matches []memory.Match
}

func (c *Collector) Region(r *memory.Region) {
	if c.Next != nil {
		c.Next.Region(r)
	}
}

func (c *Collector) Match(m memory.Match) {
	c.Matches = append(c.Matches, m)
	if c.Next != nil {
		c.Next.Match(m)
	}
}
