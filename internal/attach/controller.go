// Package attach owns the debug attachment to a target process. A Controller
// moves through Idle → Attaching → Attached → Detaching → Idle, and every
// successful attach is paired with a detach through Session.Close.
package attach

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// ErrAttach reports that the target is missing or inspection was refused.
var ErrAttach = errors.New("attach failed")

type State int

const (
	Idle State = iota
	Attaching
	Attached
	Detaching
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Attaching:
		return "attaching"
	case Attached:
		return "attached"
	case Detaching:
		return "detaching"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Handle identifies an attached target. Task is only set on darwin.
type Handle struct {
	Pid  int
	Task uint32
}

// Tracer is the platform attach mechanism.
type Tracer interface {
	// Attach gains inspection rights over pid.
	Attach(pid int) (Handle, error)

	// WaitStop blocks until the target is stopped. There is no timeout.
	WaitStop(h Handle) error

	// Detach releases the inspection rights and lets the target run.
	Detach(h Handle) error
}

type Controller struct {
	tracer Tracer
	logger *log.Logger
	state  State
}

func NewController(tracer Tracer, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{tracer: tracer, logger: logger}
}

func (c *Controller) State() State {
	return c.state
}

// Attach attaches to pid and waits for it to stop. On failure the controller
// is back in Idle and nothing is left attached.
func (c *Controller) Attach(pid int) (*Session, error) {
	if c.state != Idle {
		return nil, fmt.Errorf("%w: controller is %s", ErrAttach, c.state)
	}
	if pid <= 0 {
		return nil, fmt.Errorf("%w: invalid pid %d", ErrAttach, pid)
	}

	c.state = Attaching
	c.logger.Debug("Attaching", "pid", pid)

	h, err := c.tracer.Attach(pid)
	if err != nil {
		c.state = Idle
		return nil, fmt.Errorf("%w: pid %d: %w", ErrAttach, pid, err)
	}

	if err := c.tracer.WaitStop(h); err != nil {
		if derr := c.detach(h); derr != nil {
			c.logger.Warn("Detach after failed stop", "pid", pid, "error", derr)
		}
		return nil, fmt.Errorf("%w: pid %d did not stop: %w", ErrAttach, pid, err)
	}

	c.state = Attached
	c.logger.Info("Attached to target", "pid", pid)
	return &Session{controller: c, handle: h}, nil
}

func (c *Controller) detach(h Handle) error {
	c.state = Detaching
	err := c.tracer.Detach(h)
	c.state = Idle
	return err
}

// Session is a live attachment. Close must be called on every path.
type Session struct {
	controller *Controller
	handle     Handle
	closed     bool
}

func (s *Session) Handle() Handle {
	return s.handle
}

func (s *Session) Pid() int {
	return s.handle.Pid
}

// Close detaches from the target. Calling it more than once is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.controller.detach(s.handle)
	if err != nil {
		return fmt.Errorf("detach pid %d: %w", s.handle.Pid, err)
	}
	s.controller.logger.Info("Detached from target", "pid", s.handle.Pid)
	return nil
}
