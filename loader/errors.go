package loader

import (
	"errors"
	"fmt"
	"time"

	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/resilience"
)

// Sentinel errors.
var (
	// ErrInvalidArgument reports an empty name, a nil producer, or a
	// non-positive timeout or attempt count.
	ErrInvalidArgument = errors.New("loader: invalid argument")

	// ErrUnknownModule is returned by LoadNamed for unregistered names.
	ErrUnknownModule = errors.New("loader: unknown module")
)

// TimeoutError reports a single attempt that did not settle within its
// timeout. It matches resilience.ErrTimeout under errors.Is.
type TimeoutError struct {
	Name    string
	Attempt int
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("loader: %s attempt %d timed out after %v", e.Name, e.Attempt, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return resilience.ErrTimeout }

// ProducerError reports a single attempt whose producer returned an error
// or panicked.
type ProducerError struct {
	Name    string
	Attempt int
	Err     error
}

func (e *ProducerError) Error() string {
	return fmt.Sprintf("loader: %s attempt %d failed: %v", e.Name, e.Attempt, e.Err)
}

func (e *ProducerError) Unwrap() error { return e.Err }

// ModuleLoadError is returned once every attempt for a module has failed.
// Err is the last *TimeoutError or *ProducerError, or
// resilience.ErrCircuitOpen when no attempt was made.
type ModuleLoadError struct {
	Name     string
	Attempts int
	Err      error
}

func (e *ModuleLoadError) Error() string {
	return fmt.Sprintf("loader: module %s failed to load after %d attempt(s): %v", e.Name, e.Attempts, e.Err)
}

func (e *ModuleLoadError) Unwrap() error { return e.Err }

func invalidArgf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}
