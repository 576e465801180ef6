package perf

import (
	"context"
	"time"

	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/cache"
)

// Memoize returns a function that caches fn's results in the toolkit's
// shared LRU. keyFn derives the cache key from the argument; nil uses the
// argument's canonical JSON. Arguments that cannot be encoded bypass the
// cache.
func Memoize[A, R any](t *Toolkit, fn func(A) R, keyFn func(A) string) (func(A) R, error) {
	if fn == nil {
		return nil, invalidArgf("memoized function is nil")
	}
	ns := t.namespace("memo")

	return func(arg A) R {
		var key string
		if keyFn != nil {
			key = ns + ":" + keyFn(arg)
		} else {
			k, err := defaultKey(ns, arg)
			if err != nil {
				return fn(arg)
			}
			key = k
		}

		if v, ok := t.memo.Get(key); ok {
			r, _ := v.(R)
			return r
		}

		r := fn(arg)
		t.memo.Set(key, r)
		t.recordMemoSize(key, sizeOf(key)+sizeOf(r))
		return r
	}, nil
}

// AsyncMemo caches the results of a fallible function for a fixed TTL.
// Errors are never cached. It satisfies loader.Clearer.
type AsyncMemo[A, R any] struct {
	fn    func(context.Context, A) (R, error)
	keyFn func(A) string
	ttl   time.Duration
	store *cache.MemoryCache[R]
}

// AsyncMemoOption configures an AsyncMemo.
type AsyncMemoOption func(*asyncMemoOptions)

type asyncMemoOptions struct {
	clock cache.Clock
}

// WithClock overrides the clock used to age entries.
func WithClock(c cache.Clock) AsyncMemoOption {
	return func(o *asyncMemoOptions) { o.clock = c }
}

// NewAsyncMemo wraps fn with a cache whose entries live for ttl. keyFn
// derives the key from the argument; nil uses the argument's canonical
// JSON.
func NewAsyncMemo[A, R any](fn func(context.Context, A) (R, error), ttl time.Duration, keyFn func(A) string, opts ...AsyncMemoOption) (*AsyncMemo[A, R], error) {
	if fn == nil {
		return nil, invalidArgf("memoized function is nil")
	}
	if ttl <= 0 {
		return nil, invalidArgf("ttl must be positive, got %v", ttl)
	}
	o := asyncMemoOptions{clock: cache.SystemClock}
	for _, opt := range opts {
		opt(&o)
	}

	return &AsyncMemo[A, R]{
		fn:    fn,
		keyFn: keyFn,
		ttl:   ttl,
		store: cache.NewMemoryCache[R](cache.Policy{DefaultTTL: ttl}, o.clock),
	}, nil
}

// Call returns the cached result for arg if it is younger than the TTL,
// and otherwise calls the wrapped function.
func (m *AsyncMemo[A, R]) Call(ctx context.Context, arg A) (R, error) {
	key, err := m.key(arg)
	if err != nil {
		return m.fn(ctx, arg)
	}
	if v, ok := m.store.Get(key); ok {
		return v, nil
	}

	v, err := m.fn(ctx, arg)
	if err != nil {
		return v, err
	}
	m.store.Set(key, v)
	return v, nil
}

func (m *AsyncMemo[A, R]) key(arg A) (string, error) {
	if m.keyFn != nil {
		return m.keyFn(arg), nil
	}
	return defaultKey("", arg)
}

// TTL returns the entry lifetime.
func (m *AsyncMemo[A, R]) TTL() time.Duration { return m.ttl }

// Len reports stored entries, expired ones included until swept.
func (m *AsyncMemo[A, R]) Len() int { return m.store.Len() }

// Sweep drops expired entries and reports how many were removed.
func (m *AsyncMemo[A, R]) Sweep() int { return m.store.Sweep() }

// Clear drops every entry.
func (m *AsyncMemo[A, R]) Clear() { m.store.Clear() }
