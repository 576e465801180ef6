package cache_test

import (
	"fmt"
	"time"

	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/cache"
)

func ExampleNewLRU() {
	c := cache.NewLRU[string](2)
	c.Set("A", "first")
	c.Set("B", "second")
	c.Get("A")
	c.Set("C", "third")

	fmt.Println(c.Contains("A"), c.Contains("B"), c.Contains("C"))
	// Output:
	// true false true
}

func ExampleStructuralKeyer_Key() {
	key, _ := cache.StructuralKeyer{}.Key("", map[string]any{"lang": "en", "id": "v1"})
	fmt.Println(key)
	// Output:
	// {"id":"v1","lang":"en"}
}

func ExamplePolicy_EffectiveTTL() {
	p := cache.DefaultPolicy()
	fmt.Println(p.EffectiveTTL(0))
	fmt.Println(p.EffectiveTTL(30 * time.Second))
	fmt.Println(p.EffectiveTTL(24 * time.Hour))
	// Output:
	// 5m0s
	// 30s
	// 1h0m0s
}
