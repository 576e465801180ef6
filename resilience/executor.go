package resilience

import (
	"context"
	"time"
)

// Executor composes a circuit breaker, a retry policy and a per-attempt
// timeout around one operation.
type Executor struct {
	circuitBreaker *CircuitBreaker
	retry          *Retry
	timeout        *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithCircuitBreaker adds a circuit breaker to the executor.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) {
		e.circuitBreaker = cb
	}
}

// WithRetry adds retry logic to the executor.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) {
		e.retry = r
	}
}

// WithTimeout bounds every attempt by timeout.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
	}
}

// WithTimeoutConfig adds timeout with custom config to the executor.
func WithTimeoutConfig(t *Timeout) ExecutorOption {
	return func(e *Executor) {
		e.timeout = t
	}
}

// Execute runs op through the configured patterns, outermost first:
// circuit breaker, retry, timeout. op receives the 1-based attempt number.
//
// The breaker sees one outcome per Execute call, not one per attempt.
func (e *Executor) Execute(ctx context.Context, op func(ctx context.Context, attempt int) error) error {
	attemptFn := op

	if e.timeout != nil {
		inner := attemptFn
		attemptFn = func(ctx context.Context, attempt int) error {
			return e.timeout.Execute(ctx, func(ctx context.Context) error {
				return inner(ctx, attempt)
			})
		}
	}

	execute := func(ctx context.Context) error {
		return attemptFn(ctx, 1)
	}

	if e.retry != nil {
		execute = func(ctx context.Context) error {
			return e.retry.Execute(ctx, attemptFn)
		}
	}

	if e.circuitBreaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.circuitBreaker.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}
