package health

import "errors"

var (
	// ErrCheckTimeout is set on results of checks that outran the
	// aggregator timeout.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckPanicked is wrapped by results of checks that panicked.
	ErrCheckPanicked = errors.New("health: check panicked")

	// ErrCheckerNotFound is returned by Check for unknown names.
	ErrCheckerNotFound = errors.New("health: checker not found")
)
