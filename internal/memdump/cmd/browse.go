package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"memdump/internal/memdump/styles"
	"memdump/internal/memory"
	"memdump/internal/scan"
	"memdump/internal/session"
)

type viewMode int

const (
	viewSummary viewMode = iota
	viewMatches
	viewDetail
)

type matchItem struct {
	index int
	match memory.Match
}

func (i matchItem) Title() string       { return i.match.Address.String() }
func (i matchItem) Description() string { return regionName(i.match.Region) }
func (i matchItem) FilterValue() string {
	return i.match.Address.String() + " " + regionName(i.match.Region)
}

func regionName(r *memory.Region) string {
	if r == nil {
		return "[anonymous]"
	}
	return r.Name()
}

type matchDelegate struct{}

func (d matchDelegate) Height() int                               { return 1 }
func (d matchDelegate) Spacing() int                              { return 0 }
func (d matchDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d matchDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(matchItem)
	if !ok {
		return
	}

	indicator := " "
	addrStyle := styles.MutedStyle
	if index == m.Index() {
		indicator = ">"
		addrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	}

	perms := ""
	if i.match.Region != nil {
		perms = i.match.Region.Perms.String()
	}
	fmt.Fprintf(w, " %s  %4d  %s  %s  %s",
		indicator,
		i.index,
		addrStyle.Render(fmt.Sprintf("%016x", uint64(i.match.Address))),
		perms,
		regionName(i.match.Region))
}

// browser is the --tui model: a rendered summary, the list of matches and a
// detail pane for the selected match.
type browser struct {
	summary    session.Summary
	report     viewport.Model
	matches    list.Model
	detail     viewport.Model
	mode       viewMode
	patternLen int
	width      int
	height     int
}

func newBrowser(sum session.Summary) browser {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24)

	items := make([]list.Item, 0, len(sum.Found))
	for i, m := range sum.Found {
		items = append(items, matchItem{index: i, match: m})
	}
	ml := list.New(items, matchDelegate{}, 80, 24)
	ml.SetShowStatusBar(false)
	ml.SetFilteringEnabled(true)
	ml.Title = fmt.Sprintf("Matches (%d total)", len(items))
	ml.Styles.Title = styles.TitleStyle
	ml.SetShowHelp(true)

	dvp := viewport.New()
	dvp.SetWidth(80)
	dvp.SetHeight(24)

	b := browser{
		summary:    sum,
		report:     vp,
		matches:    ml,
		detail:     dvp,
		mode:       viewSummary,
		patternLen: memory.PatternSize,
		width:      80,
		height:     24,
	}
	b.renderReport()
	return b
}

func (b *browser) renderReport() {
	rendered := styles.RenderMarkdown(b.summary.Markdown(), b.width)
	b.report.SetContent(strings.TrimSuffix(rendered, "\n"))
}

func (b *browser) showDetail(item matchItem) {
	m := item.match
	var sb strings.Builder
	fmt.Fprintf(&sb, "Match %d at %s\n\n", item.index, styles.AddressStyle.Render(m.Address.String()))
	if m.Region != nil {
		r := m.Region
		fmt.Fprintf(&sb, "Region:      %s\n", r.Name())
		fmt.Fprintf(&sb, "Range:       %s-%s (%s)\n", r.Start, r.End, humanize.IBytes(uint64(r.Size())))
		fmt.Fprintf(&sb, "Permissions: %s\n", r.Perms)
		fmt.Fprintf(&sb, "Offset:      0x%x\n", uint64(m.Address-r.Start))
	}
	start := m.Address - memory.Address(m.ContextOffset)
	fmt.Fprintf(&sb, "\nSurrounding memory from %s:\n\n%s\n", start, scan.FormatContext(m, b.patternLen, styles.HighlightMatch()))
	fmt.Fprintf(&sb, "\n%s", styles.ColorizeHexdump(styles.Hexdump(start, m.Context)))

	b.detail.SetContent(sb.String())
	b.detail.GotoTop()
	b.mode = viewDetail
}

func (b browser) Init() tea.Cmd {
	return nil
}

func (b browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width != b.width || msg.Height != b.height {
			b.width = msg.Width
			b.height = msg.Height
			b.report.SetWidth(msg.Width)
			b.report.SetHeight(msg.Height - 2)
			b.matches.SetWidth(msg.Width)
			b.matches.SetHeight(msg.Height - 2)
			b.detail.SetWidth(msg.Width)
			b.detail.SetHeight(msg.Height - 2)
			b.renderReport()
		}

	case tea.KeyMsg:
		if b.mode == viewMatches && b.matches.FilterState() == list.Filtering {
			if msg.String() == "ctrl+c" {
				return b, tea.Quit
			}
			break
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return b, tea.Quit
		case "s":
			b.mode = viewSummary
			return b, nil
		case "m":
			if len(b.summary.Found) > 0 {
				b.mode = viewMatches
			}
			return b, nil
		case "esc":
			if b.mode == viewDetail {
				b.mode = viewMatches
				return b, nil
			}
		case "enter":
			if b.mode == viewMatches {
				if it, ok := b.matches.SelectedItem().(matchItem); ok {
					b.showDetail(it)
				}
				return b, nil
			}
		case "tab":
			switch b.mode {
			case viewSummary:
				if len(b.summary.Found) > 0 {
					b.mode = viewMatches
				}
			default:
				b.mode = viewSummary
			}
			return b, nil
		}
	}

	switch b.mode {
	case viewMatches:
		b.matches, cmd = b.matches.Update(msg)
	case viewDetail:
		b.detail, cmd = b.detail.Update(msg)
	default:
		b.report, cmd = b.report.Update(msg)
	}
	return b, cmd
}

func (b browser) View() string {
	var content, menu string
	switch b.mode {
	case viewMatches:
		content = b.matches.View()
		menu = " Enter: inspect • S: summary • Tab: cycle • Q: quit "
	case viewDetail:
		content = b.detail.View()
		menu = " Esc: back to matches • S: summary • Q: quit "
	default:
		content = b.report.View()
		if len(b.summary.Found) > 0 {
			menu = " M: matches • Tab: cycle • Q: quit "
		} else {
			menu = " Q: quit "
		}
	}
	return content + "\n" + styles.MenuStyle.Width(b.width).Render(menu)
}
