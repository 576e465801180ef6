package cache

import (
	"strconv"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryCache_GetSetDelete(t *testing.T) {
	c := NewMemoryCache[string](DefaultPolicy(), nil)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache should return ok=false")
	}

	c.Set("video:1", "transcript")
	got, ok := c.Get("video:1")
	if !ok || got != "transcript" {
		t.Errorf("Get() = %q, %v, want %q, true", got, ok, "transcript")
	}

	c.Delete("video:1")
	c.Delete("video:1")
	if _, ok := c.Get("video:1"); ok {
		t.Error("Get after Delete should return ok=false")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	clock := newFakeClock()
	c := NewMemoryCache[int](Policy{DefaultTTL: 50 * time.Millisecond}, clock)

	c.Set("k", 1)

	clock.Advance(40 * time.Millisecond)
	if v, ok := c.Get("k"); !ok || v != 1 {
		t.Fatalf("Get at t=40ms = %d, %v, want 1, true", v, ok)
	}

	clock.Advance(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("Get at t=60ms should miss")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after lazy expiry", c.Len())
	}
}

func TestMemoryCache_LookupInsertedAt(t *testing.T) {
	clock := newFakeClock()
	c := NewMemoryCache[string](PersistentPolicy(), clock)

	start := clock.Now()
	c.Set("k", "v")
	clock.Advance(time.Hour)

	e, ok := c.Lookup("k")
	if !ok {
		t.Fatal("Lookup() should hit under persistent policy")
	}
	if !e.InsertedAt.Equal(start) {
		t.Errorf("InsertedAt = %v, want %v", e.InsertedAt, start)
	}
	if !e.ExpiresAt.IsZero() {
		t.Errorf("ExpiresAt = %v, want zero", e.ExpiresAt)
	}
}

func TestMemoryCache_SetWithTTLClamped(t *testing.T) {
	clock := newFakeClock()
	c := NewMemoryCache[int](Policy{DefaultTTL: time.Minute, MaxTTL: 2 * time.Minute}, clock)

	c.SetWithTTL("k", 1, time.Hour)
	e, _ := c.Lookup("k")
	if want := clock.Now().Add(2 * time.Minute); !e.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", e.ExpiresAt, want)
	}
}

func TestMemoryCache_SweepAndClear(t *testing.T) {
	clock := newFakeClock()
	c := NewMemoryCache[int](Policy{DefaultTTL: time.Second}, clock)

	c.Set("a", 1)
	c.Set("b", 2)
	clock.Advance(2 * time.Second)
	c.Set("c", 3)

	if n := c.Sweep(); n != 2 {
		t.Errorf("Sweep() = %d, want 2", n)
	}
	if keys := c.Keys(); len(keys) != 1 || keys[0] != "c" {
		t.Errorf("Keys() = %v, want [c]", keys)
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := NewMemoryCache[int](DefaultPolicy(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := strconv.Itoa(i % 10)
			c.Set(key, i)
			c.Get(key)
			if i%7 == 0 {
				c.Delete(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 10 {
		t.Errorf("Len() = %d, want <= 10", c.Len())
	}
}
