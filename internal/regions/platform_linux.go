//go:build linux

package regions

import (
	"github.com/charmbracelet/log"

	"memdump/internal/attach"
)

// ForHandle returns the platform enumerator for an attached target.
func ForHandle(h attach.Handle, logger *log.Logger) Enumerator {
	return ProcMaps(h.Pid, logger)
}
