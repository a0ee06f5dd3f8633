//go:build !linux && !(darwin && cgo)

package attach

import (
	"errors"
	"runtime"
)

var errUnsupported = errors.New("process attach is not supported on " + runtime.GOOS)

type unsupportedTracer struct{}

func DefaultTracer() Tracer {
	return unsupportedTracer{}
}

func (unsupportedTracer) Attach(int) (Handle, error) { return Handle{}, errUnsupported }
func (unsupportedTracer) WaitStop(Handle) error      { return errUnsupported }
func (unsupportedTracer) Detach(Handle) error        { return errUnsupported }
