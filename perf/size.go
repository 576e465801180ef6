package perf

import (
	"unicode/utf16"

	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/cache"
)

// sizeOf roughly estimates the bytes v occupies: two bytes per UTF-16 unit
// for text, eight per number, four per bool, and two per character of the
// canonical JSON for anything else.
func sizeOf(v any) int {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		return 2 * len(utf16.Encode([]rune(x)))
	case bool:
		return 4
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return 8
	}
	b, err := cache.Canonical(v)
	if err != nil {
		return 100
	}
	return 2 * len(b)
}

// defaultKey returns the canonical JSON of arg under ns, or a hash of it
// when that would exceed cache.MaxKeyLength.
func defaultKey(ns string, arg any) (string, error) {
	key, err := cache.StructuralKeyer{}.Key(ns, arg)
	if err != nil {
		return "", err
	}
	if len(key) <= cache.MaxKeyLength {
		return key, nil
	}
	return cache.NewHashKeyer().Key(ns, arg)
}
