package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// Policy is the retry schedule shared by the loader and any code that calls
// out to remote analysis services.
//
// Contract:
//   - MaxAttempts returns the total number of attempts, never less than 1.
//   - Backoff returns the wait after failed attempt n (1-based) and must be
//     safe for concurrent use.
type Policy interface {
	MaxAttempts() int
	Backoff(attempt int) time.Duration
}

// BackoffStrategy defines how delays increase between attempts.
type BackoffStrategy int

const (
	// BackoffExponential multiplies the delay each attempt.
	BackoffExponential BackoffStrategy = iota
	// BackoffLinear increases delay linearly.
	BackoffLinear
	// BackoffConstant uses the same delay for all attempts.
	BackoffConstant
)

// String returns the strategy name.
func (s BackoffStrategy) String() string {
	switch s {
	case BackoffExponential:
		return "exponential"
	case BackoffLinear:
		return "linear"
	case BackoffConstant:
		return "constant"
	default:
		return "unknown"
	}
}

// RetryConfig configures the retry behavior.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts (including the first).
	// Default: 3
	MaxAttempts int

	// InitialDelay is the delay after the first failed attempt.
	// Default: 1s
	InitialDelay time.Duration

	// MaxDelay caps the delay between attempts.
	// Default: 5s
	MaxDelay time.Duration

	// Multiplier is the growth factor for exponential backoff.
	// Default: 2.0
	Multiplier float64

	// Strategy is the backoff strategy.
	// Default: BackoffExponential
	Strategy BackoffStrategy

	// Jitter adds up to 25% random delay on top of each backoff.
	Jitter bool

	// RetryIf reports whether err should trigger another attempt.
	// Default: all non-nil errors.
	RetryIf func(err error) bool

	// OnRetry is called after a failed attempt, before waiting delay.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultLoadRetryConfig returns the schedule used for capability loads:
// three attempts waiting min(1s * 2^(n-1), 5s) after failed attempt n.
func DefaultLoadRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		Strategy:     BackoffExponential,
	}
}

// Retry runs an operation until it succeeds or the attempt budget is spent.
// A Retry is immutable and safe for concurrent use.
type Retry struct {
	config RetryConfig
}

var _ Policy = (*Retry)(nil)

// NewRetry creates a retry policy, filling zero fields from
// DefaultLoadRetryConfig.
func NewRetry(config RetryConfig) *Retry {
	def := DefaultLoadRetryConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = def.MaxAttempts
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = def.InitialDelay
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = def.MaxDelay
	}
	if config.Multiplier <= 0 {
		config.Multiplier = def.Multiplier
	}
	if config.RetryIf == nil {
		config.RetryIf = func(err error) bool { return err != nil }
	}

	return &Retry{config: config}
}

// WithMaxAttempts returns a copy of r with a different attempt budget.
// Values below 1 leave the budget unchanged.
func (r *Retry) WithMaxAttempts(n int) *Retry {
	if n < 1 || n == r.config.MaxAttempts {
		return r
	}
	cfg := r.config
	cfg.MaxAttempts = n
	return &Retry{config: cfg}
}

// WithOnRetry returns a copy of r that reports failed attempts to fn.
func (r *Retry) WithOnRetry(fn func(attempt int, err error, delay time.Duration)) *Retry {
	cfg := r.config
	cfg.OnRetry = fn
	return &Retry{config: cfg}
}

// MaxAttempts returns the total attempt budget.
func (r *Retry) MaxAttempts() int {
	return r.config.MaxAttempts
}

// Execute runs op up to MaxAttempts times. op receives the 1-based attempt
// number. The last error is returned unchanged once the budget is spent;
// cancelling ctx while waiting between attempts returns ctx.Err().
func (r *Retry) Execute(ctx context.Context, op func(ctx context.Context, attempt int) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		err := op(ctx, attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if !r.config.RetryIf(err) {
			return err
		}
		if attempt >= r.config.MaxAttempts {
			break
		}

		delay := r.Backoff(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

// Backoff returns the delay after failed attempt n (1-based).
func (r *Retry) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	var delay time.Duration
	switch r.config.Strategy {
	case BackoffConstant:
		delay = r.config.InitialDelay
	case BackoffLinear:
		delay = r.config.InitialDelay * time.Duration(attempt)
	default:
		multiplier := math.Pow(r.config.Multiplier, float64(attempt-1))
		// float overflow on large attempts lands on MaxDelay below
		f := float64(r.config.InitialDelay) * multiplier
		if f > float64(r.config.MaxDelay) {
			delay = r.config.MaxDelay
		} else {
			delay = time.Duration(f)
		}
	}

	if delay > r.config.MaxDelay {
		delay = r.config.MaxDelay
	}

	if r.config.Jitter && delay >= 4 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay += time.Duration(rand.Int64N(int64(delay / 4)))
	}

	return delay
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}
