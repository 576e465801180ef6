package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecutor_NoPatterns(t *testing.T) {
	e := NewExecutor()

	var gotAttempt int
	err := e.Execute(context.Background(), func(ctx context.Context, attempt int) error {
		gotAttempt = attempt
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if gotAttempt != 1 {
		t.Errorf("attempt = %d, want 1", gotAttempt)
	}
}

func TestExecutor_TimeoutPerAttempt(t *testing.T) {
	e := NewExecutor(
		WithRetry(NewRetry(RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond})),
		WithTimeout(20*time.Millisecond),
	)

	err := e.Execute(context.Background(), func(ctx context.Context, attempt int) error {
		if attempt < 3 {
			<-ctx.Done()
			time.Sleep(5 * time.Millisecond)
			return nil
		}
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v, want success on attempt 3", err)
	}
}

func TestExecutor_TimeoutExhausted(t *testing.T) {
	e := NewExecutor(
		WithRetry(NewRetry(RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond})),
		WithTimeoutConfig(NewTimeout(TimeoutConfig{Timeout: 10 * time.Millisecond})),
	)

	err := e.Execute(context.Background(), func(ctx context.Context, attempt int) error {
		time.Sleep(50 * time.Millisecond)
		return nil
	})

	if err != ErrTimeout {
		t.Errorf("Execute() error = %v, want ErrTimeout", err)
	}
}

func TestExecutor_BreakerCountsWholeChain(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 2, ResetTimeout: time.Hour})
	e := NewExecutor(
		WithCircuitBreaker(cb),
		WithRetry(NewRetry(RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond})),
	)

	testErr := errors.New("model unavailable")
	attempts := 0
	_ = e.Execute(context.Background(), func(ctx context.Context, attempt int) error {
		attempts++
		return testErr
	})

	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if cb.State() != StateClosed {
		t.Errorf("State after one exhausted chain = %v, want closed", cb.State())
	}

	_ = e.Execute(context.Background(), func(ctx context.Context, attempt int) error {
		return testErr
	})
	err := e.Execute(context.Background(), func(ctx context.Context, attempt int) error {
		t.Error("op called while circuit is open")
		return nil
	})
	if err != ErrCircuitOpen {
		t.Errorf("Execute() error = %v, want ErrCircuitOpen", err)
	}
}
