package session

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Markdown renders the summary as a markdown report.
func (s Summary) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Memory scan of PID %d\n\n", s.Pid)
	fmt.Fprintf(&b, "Pattern: `%s`\n\n", s.Pattern)

	b.WriteString("## Totals\n\n")
	b.WriteString("| Regions | Scanned | Skipped | Bytes scanned | Matches | Dumped |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %s | %d | %d |\n\n",
		len(s.Regions), s.Scanned, s.Skipped, humanize.IBytes(uint64(s.BytesScanned)), s.Matches, s.DumpedCount())

	if s.Enumeration != nil {
		fmt.Fprintf(&b, "> Region enumeration was incomplete: %v\n\n", s.Enumeration)
	}

	if len(s.Found) > 0 {
		b.WriteString("## Matches\n\n")
		for _, m := range s.Found {
			name := "[anonymous]"
			if m.Region != nil {
				name = m.Region.Name()
			}
			fmt.Fprintf(&b, "- `%s` in %s\n", m.Address, name)
		}
		b.WriteString("\n")
	}

	if len(s.Dumps) > 0 {
		b.WriteString("## Dumps\n\n")
		for _, d := range s.Dumps {
			switch {
			case d.Err != nil:
				fmt.Fprintf(&b, "- region %d `%s`: failed (%v)\n", d.Index, d.Region, d.Err)
			case d.Skipped != "":
				fmt.Fprintf(&b, "- region %d `%s`: skipped, %s\n", d.Index, d.Region, d.Skipped)
			default:
				fmt.Fprintf(&b, "- region %d `%s` → `%s` (%s)\n", d.Index, d.Region, d.Path, humanize.IBytes(uint64(d.Bytes)))
			}
		}
	}

	return b.String()
}
