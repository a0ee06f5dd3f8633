package memory

import (
	"fmt"
	"strconv"
	"strings"
)

// Pattern is the fixed-length byte sequence searched for in the target.
type Pattern [PatternSize]byte

// DefaultPattern returns the cyclic A-Z test pattern ("ABCD...P").
func DefaultPattern() Pattern {
	var p Pattern
	for i := range p {
		p[i] = byte(0x41 + i%26)
	}
	return p
}

// ParsePattern parses PatternSize whitespace separated hex bytes, e.g. "41 42 ff ...".
func ParsePattern(s string) (Pattern, error) {
	var p Pattern
	fields := strings.Fields(s)
	if len(fields) != PatternSize {
		return p, fmt.Errorf("expected %d hex bytes, got %d", PatternSize, len(fields))
	}
	for i, f := range fields {
		b, err := ParseHexByte(f)
		if err != nil {
			return p, fmt.Errorf("byte %d: %w", i, err)
		}
		p[i] = b
	}
	return p, nil
}

// ParseHexByte parses one or two hex digits, with an optional 0x prefix.
func ParseHexByte(s string) (byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) == 0 || len(s) > 2 {
		return 0, fmt.Errorf("invalid hex byte %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid hex byte %q", s)
	}
	return byte(v), nil
}

func (p Pattern) Bytes() []byte {
	return p[:]
}

func (p Pattern) String() string {
	var sb strings.Builder
	for i, b := range p {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", b)
	}
	return sb.String()
}
