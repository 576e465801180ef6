package perf

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrInvalidArgument reports a non-positive delay, ttl or size, an empty
	// key, or a nil function.
	ErrInvalidArgument = errors.New("perf: invalid argument")

	// ErrStopped is returned by Push on a stopped Batcher.
	ErrStopped = errors.New("perf: batcher stopped")
)

func invalidArgf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}
