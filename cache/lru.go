package cache

import (
	"sync"

	"tailscale.com/util/lru"
)

// DefaultLRUCapacity bounds an LRU created with a non-positive capacity.
const DefaultLRUCapacity = 100

// LRU is a fixed-capacity cache that evicts the least recently used entry.
// A Get hit refreshes recency.
type LRU[V any] struct {
	capacity int

	mu    sync.Mutex
	items lru.Cache[string, V]
}

// NewLRU creates an LRU holding at most capacity entries.
func NewLRU[V any](capacity int) *LRU[V] {
	if capacity <= 0 {
		capacity = DefaultLRUCapacity
	}
	return &LRU[V]{
		capacity: capacity,
		items:    lru.Cache[string, V]{MaxEntries: capacity},
	}
}

// Get retrieves a value and marks it most recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.GetOk(key)
}

// Contains reports whether key is present without touching recency.
func (c *LRU[V]) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Contains(key)
}

// Set stores value, evicting the least recently used entry when full.
func (c *LRU[V]) Set(key string, value V) {
	c.mu.Lock()
	c.items.Set(key, value)
	c.mu.Unlock()
}

// Delete removes key.
func (c *LRU[V]) Delete(key string) {
	c.mu.Lock()
	c.items.Delete(key)
	c.mu.Unlock()
}

// Len reports the number of entries.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Len()
}

// Capacity returns the maximum number of entries.
func (c *LRU[V]) Capacity() int {
	return c.capacity
}

// Clear drops every entry.
func (c *LRU[V]) Clear() {
	c.mu.Lock()
	c.items = lru.Cache[string, V]{MaxEntries: c.capacity}
	c.mu.Unlock()
}

var _ Cache[any] = (*LRU[any])(nil)
