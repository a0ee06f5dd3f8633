// Package memory defines the address-space model shared by the enumerator,
// reader, scanner, and dumper: addresses, regions, permissions, and patterns.
package memory

// Limits applied across a session
const (
	// MaxRegions caps how many regions a single enumeration returns
	MaxRegions = 1000

	// ScanRegionLimit is the largest region the scanner will walk
	ScanRegionLimit Size = 100 * 1024 * 1024

	// DumpRegionLimit is the largest region the dumper will persist
	DumpRegionLimit Size = 10 * 1024 * 1024

	// ChunkSize is the stride used when walking a region
	ChunkSize = 4 * 1024

	// MaxReadSize bounds any single read request
	MaxReadSize = 64 * 1024

	// ContextBytes is how many bytes are shown on each side of a match
	ContextBytes = 8

	// PatternSize is the fixed pattern length in bytes
	PatternSize = 16

	// WordSize is the width of a single peek on the target
	WordSize = 8
)
