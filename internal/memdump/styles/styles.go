// Package styles holds the terminal styling for scan output and reports.
package styles

import (
	"os"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
)

var (
	matchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(charmtone.Cheeky.Hex())).Bold(true)
	AddressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(charmtone.Malibu.Hex()))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	TitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).MarginLeft(2)
	MenuStyle    = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
)

// ColorEnabled reports whether styled output is allowed.
func ColorEnabled() bool {
	return os.Getenv("MEMDUMP_NO_COLOR") == ""
}

// HighlightMatch styles the matched bytes of a hex context line. It returns
// nil when color is disabled so callers fall back to the bracketed form.
func HighlightMatch() func(string) string {
	if !ColorEnabled() {
		return nil
	}
	return func(s string) string {
		return matchStyle.Render(s)
	}
}
