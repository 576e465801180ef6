package perf

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/panics"

	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/observe"
)

// Debounce returns a function that delays fn until delay has passed without
// another call for key. Each call replaces the pending arguments; fn runs
// once, on its own goroutine, with the arguments of the last call.
func Debounce[A any](t *Toolkit, key string, delay time.Duration, fn func(A)) (func(A), error) {
	if err := checkKeyed(key, delay, fn == nil); err != nil {
		return nil, err
	}

	return func(args A) {
		t.mu.Lock()
		defer t.mu.Unlock()

		if prev, ok := t.debounces[key]; ok {
			prev.Stop()
		}
		var timer *time.Timer
		timer = time.AfterFunc(delay, func() {
			t.mu.Lock()
			if t.debounces[key] == timer {
				delete(t.debounces, key)
			}
			t.mu.Unlock()

			t.try("debounce", key, func() { fn(args) })
		})
		t.debounces[key] = timer
	}, nil
}

// Throttle returns a function that runs fn at most once per delay for key.
// The first call runs at once; calls during the cooldown are dropped and
// report false. Dropped calls do not extend the cooldown.
func Throttle[A any](t *Toolkit, key string, delay time.Duration, fn func(A)) (func(A) bool, error) {
	if err := checkKeyed(key, delay, fn == nil); err != nil {
		return nil, err
	}

	return func(args A) bool {
		if !t.limiter(key, delay).Allow() {
			return false
		}
		fn(args)
		return true
	}, nil
}

func checkKeyed(key string, delay time.Duration, nilFn bool) error {
	switch {
	case strings.TrimSpace(key) == "":
		return invalidArgf("key is empty")
	case delay <= 0:
		return invalidArgf("delay must be positive, got %v", delay)
	case nilFn:
		return invalidArgf("function for %q is nil", key)
	}
	return nil
}

// try runs fn and logs a recovered panic instead of crashing a timer
// goroutine.
func (t *Toolkit) try(kind, key string, fn func()) {
	var c panics.Catcher
	c.Try(fn)
	if r := c.Recovered(); r != nil {
		t.logger.Error(context.Background(), "deferred call panicked",
			observe.Field{Key: "kind", Value: kind},
			observe.Field{Key: "key", Value: key},
			observe.Field{Key: "panic", Value: fmt.Sprint(r.Value)},
		)
	}
}
