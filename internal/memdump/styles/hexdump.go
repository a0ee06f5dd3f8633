package styles

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/exp/charmtone"

	"memdump/internal/memory"
)

// HexDark colors hexdump output to match the rest of the UI.
var HexDark = chromastyles.Register(chroma.MustNewStyle("memdump-hex", chroma.StyleEntries{
	chroma.Text:             charmtone.Smoke.Hex(),
	chroma.Background:       "bg:#1e1e1e",
	chroma.NameLabel:        charmtone.Malibu.Hex(), // offsets
	chroma.LiteralNumberHex: charmtone.Cheeky.Hex(),
	chroma.Punctuation:      "#7C9C9D",
	chroma.LiteralString:    charmtone.Guac.Hex(), // ascii column
}))

const bytesPerLine = 16

// Hexdump renders data in the canonical "hexdump -C" layout with offsets
// starting at base.
func Hexdump(base memory.Address, data []byte) string {
	var sb strings.Builder
	for off := 0; off < len(data); off += bytesPerLine {
		line := data[off:min(off+bytesPerLine, len(data))]
		fmt.Fprintf(&sb, "%016x ", uint64(base)+uint64(off))
		for i := range bytesPerLine {
			if i == 8 {
				sb.WriteByte(' ')
			}
			if i < len(line) {
				fmt.Fprintf(&sb, " %02x", line[i])
			} else {
				sb.WriteString("   ")
			}
		}
		sb.WriteString("  |")
		for _, b := range line {
			if b >= 0x20 && b < 0x7f {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("|\n")
	}
	return sb.String()
}

func getHexdumpLexer() chroma.Lexer {
	for _, name := range []string{"hexdump", "Hexdump"} {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

func getTerminalFormatter() chroma.Formatter {
	for _, name := range []string{"terminal16m", "terminal256"} {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// ColorizeHexdump highlights the output of Hexdump. It returns the input
// unchanged when color is disabled or no lexer is available.
func ColorizeHexdump(dump string) string {
	if !ColorEnabled() {
		return dump
	}
	lexer := getHexdumpLexer()
	if lexer == nil {
		return dump
	}

	iterator, err := lexer.Tokenise(nil, dump)
	if err != nil {
		return dump
	}
	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, HexDark, iterator); err != nil {
		return dump
	}
	return buf.String()
}
