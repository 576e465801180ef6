package cache

import "testing"

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[string](2)

	c.Set("A", "a")
	c.Set("B", "b")
	if _, ok := c.Get("A"); !ok {
		t.Fatal("Get(A) should hit")
	}
	c.Set("C", "c")

	if c.Contains("B") {
		t.Error("B should have been evicted")
	}
	if !c.Contains("A") || !c.Contains("C") {
		t.Error("A and C should remain")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestLRU_ContainsDoesNotRefresh(t *testing.T) {
	c := NewLRU[int](2)

	c.Set("A", 1)
	c.Set("B", 2)
	c.Contains("A")
	c.Set("C", 3)

	if c.Contains("A") {
		t.Error("A should have been evicted; Contains must not refresh recency")
	}
}

func TestLRU_DefaultCapacity(t *testing.T) {
	c := NewLRU[int](0)
	if c.Capacity() != DefaultLRUCapacity {
		t.Errorf("Capacity() = %d, want %d", c.Capacity(), DefaultLRUCapacity)
	}
}

func TestLRU_DeleteAndClear(t *testing.T) {
	c := NewLRU[int](3)
	c.Set("A", 1)
	c.Set("B", 2)

	c.Delete("A")
	if c.Contains("A") {
		t.Error("A should be deleted")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	c.Set("D", 4)
	if v, ok := c.Get("D"); !ok || v != 4 {
		t.Errorf("Get(D) after Clear = %d, %v, want 4, true", v, ok)
	}
}
