//go:build !linux && !(darwin && cgo)

package regions

import (
	"github.com/charmbracelet/log"

	"memdump/internal/attach"
)

// ForHandle falls back to a /proc style maps table, which some BSDs provide.
func ForHandle(h attach.Handle, logger *log.Logger) Enumerator {
	return ProcMaps(h.Pid, logger)
}
