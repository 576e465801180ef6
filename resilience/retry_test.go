package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewRetry_Defaults(t *testing.T) {
	r := NewRetry(RetryConfig{})

	if r.config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", r.config.MaxAttempts)
	}
	if r.config.InitialDelay != time.Second {
		t.Errorf("InitialDelay = %v, want 1s", r.config.InitialDelay)
	}
	if r.config.MaxDelay != 5*time.Second {
		t.Errorf("MaxDelay = %v, want 5s", r.config.MaxDelay)
	}
	if r.config.Multiplier != 2.0 {
		t.Errorf("Multiplier = %f, want 2.0", r.config.Multiplier)
	}
}

func TestRetry_LoadSchedule(t *testing.T) {
	r := NewRetry(DefaultLoadRetryConfig())

	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		5 * time.Second,
		5 * time.Second,
	}
	for i, w := range want {
		if got := r.Backoff(i + 1); got != w {
			t.Errorf("Backoff(%d) = %v, want %v", i+1, got, w)
		}
	}
}

func TestRetry_BackoffStrategies(t *testing.T) {
	tests := []struct {
		name     string
		strategy BackoffStrategy
		attempt  int
		want     time.Duration
	}{
		{"constant first", BackoffConstant, 1, 100 * time.Millisecond},
		{"constant later", BackoffConstant, 4, 100 * time.Millisecond},
		{"linear", BackoffLinear, 3, 300 * time.Millisecond},
		{"linear capped", BackoffLinear, 50, time.Second},
		{"exponential", BackoffExponential, 3, 400 * time.Millisecond},
		{"exponential capped", BackoffExponential, 5000, time.Second},
		{"attempt below one", BackoffExponential, 0, 100 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRetry(RetryConfig{
				InitialDelay: 100 * time.Millisecond,
				MaxDelay:     time.Second,
				Strategy:     tt.strategy,
			})
			if got := r.Backoff(tt.attempt); got != tt.want {
				t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

func TestRetry_Jitter(t *testing.T) {
	r := NewRetry(RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Jitter:       true,
	})

	for i := 0; i < 50; i++ {
		d := r.Backoff(1)
		if d < 100*time.Millisecond || d >= 125*time.Millisecond {
			t.Fatalf("Backoff(1) = %v, want [100ms, 125ms)", d)
		}
	}
}

func TestRetry_SuccessOnFirstAttempt(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 3})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context, attempt int) error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_SuccessOnRetry(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
	})

	var seen []int
	testErr := errors.New("test error")

	err := r.Execute(context.Background(), func(ctx context.Context, attempt int) error {
		seen = append(seen, attempt)
		if attempt < 3 {
			return testErr
		}
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Errorf("attempts = %v, want [1 2 3]", seen)
	}
}

func TestRetry_ExhaustedAttempts(t *testing.T) {
	var delays []time.Duration
	r := NewRetry(RetryConfig{
		MaxAttempts:  4,
		InitialDelay: time.Millisecond,
		MaxDelay:     3 * time.Millisecond,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			delays = append(delays, delay)
		},
	})

	attempts := 0
	testErr := errors.New("persistent error")

	err := r.Execute(context.Background(), func(ctx context.Context, attempt int) error {
		attempts++
		return testErr
	})

	if err != testErr {
		t.Errorf("Execute() error = %v, want %v", err, testErr)
	}
	if attempts != 4 {
		t.Errorf("attempts = %d, want 4", attempts)
	}
	want := []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("OnRetry called %d times, want %d", len(delays), len(want))
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts:  10,
		InitialDelay: 100 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := r.Execute(ctx, func(ctx context.Context, attempt int) error {
		return errors.New("test error")
	})

	if err != context.Canceled {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestRetry_RetryIf(t *testing.T) {
	permanent := errors.New("permanent")
	r := NewRetry(RetryConfig{
		MaxAttempts:  5,
		InitialDelay: time.Millisecond,
		RetryIf:      func(err error) bool { return !errors.Is(err, permanent) },
	})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context, attempt int) error {
		attempts++
		return permanent
	})

	if err != permanent {
		t.Errorf("Execute() error = %v, want %v", err, permanent)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_WithMaxAttempts(t *testing.T) {
	base := NewRetry(RetryConfig{MaxAttempts: 3})

	if got := base.WithMaxAttempts(5).MaxAttempts(); got != 5 {
		t.Errorf("WithMaxAttempts(5).MaxAttempts() = %d, want 5", got)
	}
	if got := base.WithMaxAttempts(0); got != base {
		t.Error("WithMaxAttempts(0) should return the receiver")
	}
	if base.MaxAttempts() != 3 {
		t.Errorf("receiver MaxAttempts = %d, want 3", base.MaxAttempts())
	}
}

func TestBackoffStrategy_String(t *testing.T) {
	tests := []struct {
		s    BackoffStrategy
		want string
	}{
		{BackoffExponential, "exponential"},
		{BackoffLinear, "linear"},
		{BackoffConstant, "constant"},
		{BackoffStrategy(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
