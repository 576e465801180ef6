package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sourcegraph/conc/panics"
)

// TimeoutConfig configures the timeout wrapper.
type TimeoutConfig struct {
	// Timeout bounds a single attempt.
	// Default: 10 seconds
	Timeout time.Duration
}

// Timeout races operations against a deadline.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a new timeout wrapper.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &Timeout{config: config}
}

// Execute runs op with the configured timeout.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	_, err := RunWithTimeout(ctx, t.config.Timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}

// ExecuteWithTimeout runs op with the given timeout.
func ExecuteWithTimeout(ctx context.Context, timeout time.Duration, op func(context.Context) error) error {
	return NewTimeout(TimeoutConfig{Timeout: timeout}).Execute(ctx, op)
}

// RunWithTimeout races fn against d and returns whichever settles first.
//
// On expiry it returns ErrTimeout at once. fn keeps running in its own
// goroutine until it returns on its own; its context is cancelled so that
// cooperative work can stop early, and its late result is dropped.
// A panic in fn is recovered and returned as a *panics.ErrRecovered.
//
// Callers that must tell expiry apart from an ErrTimeout returned by fn
// itself use Race.
func RunWithTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	v, expired, err := Race(ctx, d, fn)
	if expired {
		return v, ErrTimeout
	}
	return v, err
}

// Race is RunWithTimeout with expiry reported separately. expired is true
// only when d elapsed before fn settled; err is then nil. Otherwise err is
// fn's own error or the parent context's.
func Race[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (value T, expired bool, err error) {
	type outcome struct {
		value T
		err   error
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		var out outcome
		var c panics.Catcher
		c.Try(func() {
			out.value, out.err = fn(ctx)
		})
		if r := c.Recovered(); r != nil {
			out.err = r.AsError()
		}
		done <- out
	}()

	select {
	case out := <-done:
		return out.value, false, out.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, true, nil
		}
		return zero, false, ctx.Err()
	}
}
