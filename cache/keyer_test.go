package cache

import (
	"errors"
	"strings"
	"testing"
)

func TestHashKeyer_DeterministicForMaps(t *testing.T) {
	keyer := NewHashKeyer()

	inputs := []map[string]any{
		{"b": 2, "a": 1, "c": map[string]any{"y": 1, "x": 2}},
		{"a": 1, "c": map[string]any{"x": 2, "y": 1}, "b": 2},
	}

	var keys []string
	for _, in := range inputs {
		k, err := keyer.Key("memo", in)
		if err != nil {
			t.Fatalf("Key() error = %v", err)
		}
		keys = append(keys, k)
	}

	if keys[0] != keys[1] {
		t.Errorf("keys differ for equal content: %s vs %s", keys[0], keys[1])
	}
	if !strings.HasPrefix(keys[0], "memo:") || len(keys[0]) != len("memo:")+16 {
		t.Errorf("Key() = %q, want memo:<16 hex>", keys[0])
	}
}

func TestHashKeyer_SliceOrderPreserved(t *testing.T) {
	keyer := NewHashKeyer()

	k1, _ := keyer.Key("memo", []any{1, 2, 3})
	k2, _ := keyer.Key("memo", []any{3, 2, 1})

	if k1 == k2 {
		t.Error("different slice order should produce different keys")
	}
}

func TestStructuralKeyer(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		args      any
		want      string
	}{
		{"nil", "", nil, "null"},
		{"string", "", "abc", `"abc"`},
		{"sorted map", "", map[string]any{"b": 1, "a": []any{"x", nil}}, `{"a":["x",null],"b":1}`},
		{"struct", "ns", struct {
			ID   string `json:"id"`
			Lang string `json:"lang"`
		}{"v1", "en"}, `ns:{"id":"v1","lang":"en"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StructuralKeyer{}.Key(tt.namespace, tt.args)
			if err != nil {
				t.Fatalf("Key() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Key() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCanonical_Unencodable(t *testing.T) {
	_, err := Canonical(map[string]any{"fn": func() {}})
	if err == nil {
		t.Fatal("Canonical() should fail for a func value")
	}
	if !strings.HasPrefix(err.Error(), "cache: ") {
		t.Errorf("error = %q, want cache: prefix", err.Error())
	}
	if errors.Unwrap(err) == nil {
		t.Error("error should wrap the encoder failure")
	}
}
