package cache

import (
	"sync"
	"time"
)

// Entry is a stored value with its insertion time.
type Entry[V any] struct {
	Value      V
	InsertedAt time.Time
	ExpiresAt  time.Time
}

func (e *Entry[V]) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// MemoryCache is an in-memory TTL cache. Expired entries are removed lazily
// on Get or in bulk by Sweep.
type MemoryCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]*Entry[V]
	policy  Policy
	clock   Clock
}

// NewMemoryCache creates a cache whose Set uses policy.DefaultTTL.
// A nil clock means SystemClock.
func NewMemoryCache[V any](policy Policy, clock Clock) *MemoryCache[V] {
	if clock == nil {
		clock = SystemClock
	}
	return &MemoryCache[V]{
		entries: make(map[string]*Entry[V]),
		policy:  policy,
		clock:   clock,
	}
}

// Get retrieves a value. Returns (zero, false) on miss or expiry.
func (c *MemoryCache[V]) Get(key string) (V, bool) {
	e, ok := c.Lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	return e.Value, true
}

// Lookup returns the live entry for key.
func (c *MemoryCache[V]) Lookup(key string) (Entry[V], bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return Entry[V]{}, false
	}

	if e.expired(c.clock.Now()) {
		c.mu.Lock()
		// another writer may have replaced it meanwhile
		if cur, ok := c.entries[key]; ok && cur == e {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return Entry[V]{}, false
	}

	return *e, true
}

// Set stores value with the policy's default TTL.
func (c *MemoryCache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, 0)
}

// SetWithTTL stores value for ttl, clamped by the policy. A zero ttl falls
// back to the policy default; if that is also zero the entry never expires.
func (c *MemoryCache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	now := c.clock.Now()
	e := &Entry[V]{Value: value, InsertedAt: now}
	if ttl = c.policy.EffectiveTTL(ttl); ttl > 0 {
		e.ExpiresAt = now.Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

// Delete removes a value from the cache.
func (c *MemoryCache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len reports the number of stored entries.
func (c *MemoryCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *MemoryCache[V]) Clear() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}

// Keys returns the stored keys in no particular order.
func (c *MemoryCache[V]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

// Sweep removes expired entries and returns how many were dropped.
func (c *MemoryCache[V]) Sweep() int {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

var _ Cache[any] = (*MemoryCache[any])(nil)
