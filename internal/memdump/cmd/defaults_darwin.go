package cmd

// Mach region queries carry no pathnames, so every region looks anonymous.
// Dump writable regions only and stop after ten of them.
const (
	defaultDumpPolicy = "writable"
	defaultMaxDumps   = 10
)
