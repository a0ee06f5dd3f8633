package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestHighlightDisabled(t *testing.T) {
	t.Setenv("MEMDUMP_NO_COLOR", "1")
	if HighlightMatch() != nil {
		t.Error("highlight returned with color disabled")
	}
	md := "# Title\n\nbody"
	if got := RenderMarkdown(md, 80); got != md {
		t.Errorf("markdown rendered with color disabled: %q", got)
	}
}

func TestHighlightKeepsText(t *testing.T) {
	t.Setenv("MEMDUMP_NO_COLOR", "")
	h := HighlightMatch()
	if h == nil {
		t.Fatal("no highlight with color enabled")
	}
	if got := h("[41]"); !strings.Contains(got, "[41]") {
		t.Errorf("highlight lost text: %q", got)
	}
	if got := RenderMarkdown("# Memory scan\n\nPattern: `41`", 80); !strings.Contains(ansi.Strip(got), "Memory scan") {
		t.Errorf("rendered report lost heading: %q", got)
	}
}

func TestHexdump(t *testing.T) {
	data := []byte("ABCDEFGHIJKLMNOPQR\x00")
	got := Hexdump(0x7ffc0000, data)

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2:\n%s", len(lines), got)
	}
	want := "000000007ffc0000  41 42 43 44 45 46 47 48  49 4a 4b 4c 4d 4e 4f 50  |ABCDEFGHIJKLMNOP|"
	if lines[0] != want {
		t.Errorf("line 0:\n got %q\nwant %q", lines[0], want)
	}
	if !strings.HasPrefix(lines[1], "000000007ffc0010  51 52 00") || !strings.HasSuffix(lines[1], "|QR.|") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestColorizeHexdumpDisabled(t *testing.T) {
	t.Setenv("MEMDUMP_NO_COLOR", "1")
	dump := Hexdump(0, []byte("hello"))
	if got := ColorizeHexdump(dump); got != dump {
		t.Errorf("colorized with color disabled: %q", got)
	}
}
