//go:build !darwin

package cmd

const (
	defaultDumpPolicy = "anon"
	defaultMaxDumps   = 0
)
