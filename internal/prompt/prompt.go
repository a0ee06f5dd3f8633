// Package prompt collects the search pattern and yes/no answers from the operator.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"memdump/internal/memory"
)

// Prompter asks questions on Out and reads whitespace separated answers from In.
type Prompter struct {
	out   io.Writer
	words *bufio.Scanner
}

func New(in io.Reader, out io.Writer) *Prompter {
	words := bufio.NewScanner(in)
	words.Split(bufio.ScanWords)
	return &Prompter{out: out, words: words}
}

func (p *Prompter) next() (string, bool) {
	if !p.words.Scan() {
		return "", false
	}
	return p.words.Text(), true
}

// Confirm asks a y/n question. Anything but y or yes, including end of
// input, is a no.
func (p *Prompter) Confirm(question string) bool {
	fmt.Fprintf(p.out, "%s (y/n): ", question)
	answer, ok := p.next()
	if !ok {
		fmt.Fprintln(p.out)
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// Pattern asks whether to enter a pattern manually. On yes it reads
// PatternSize hex bytes; a byte that cannot be parsed becomes 0. On no it
// returns the default A-Z pattern.
func (p *Prompter) Pattern() memory.Pattern {
	if !p.Confirm("Do you want to manually enter the 16-byte pattern?") {
		fmt.Fprintln(p.out, "Auto-mode: using test pattern A-Z")
		return memory.DefaultPattern()
	}

	fmt.Fprint(p.out, "Enter 16 bytes to search for (hex format, space separated): ")
	var pat memory.Pattern
	for i := range pat {
		word, ok := p.next()
		if !ok {
			fmt.Fprintf(p.out, "\nError reading byte %d\n", i)
			continue
		}
		b, err := memory.ParseHexByte(word)
		if err != nil {
			fmt.Fprintf(p.out, "Error reading byte %d: %v\n", i, err)
			continue
		}
		pat[i] = b
	}
	return pat
}
