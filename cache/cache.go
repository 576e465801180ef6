package cache

import (
	"errors"
	"strings"
	"time"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Cache stores memoized results keyed by string.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Get never fails; it returns (zero, false) on miss or expiry.
// - Delete is idempotent.
type Cache[V any] interface {
	// Get retrieves a cached value.
	Get(key string) (V, bool)

	// Set stores a value, replacing any previous entry for key.
	Set(key string, value V)

	// Delete removes a cached value.
	Delete(key string)

	// Len reports the number of stored entries, expired ones included until
	// they are observed or swept.
	Len() int

	// Clear drops every entry.
	Clear()
}

// Clock supplies the current time. Tests substitute a fake.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
