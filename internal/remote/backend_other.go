//go:build !linux && !(darwin && cgo)

package remote

import (
	"fmt"
	"runtime"

	"memdump/internal/attach"
)

func New(kind Kind, _ attach.Handle) (Reader, error) {
	return nil, fmt.Errorf("reader %q is not supported on %s", kind, runtime.GOOS)
}
