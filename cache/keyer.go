package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Keyer derives cache keys from call arguments.
//
// Contract:
// - Determinism: equal arguments produce equal keys regardless of map order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key derives a key for args within namespace.
	Key(namespace string, args any) (string, error)
}

// HashKeyer produces short SHA-256 based keys of the form
// <namespace>:<16 hex chars>.
type HashKeyer struct{}

// NewHashKeyer creates a new hash keyer.
func NewHashKeyer() *HashKeyer {
	return &HashKeyer{}
}

// Key generates a deterministic hashed key.
func (k *HashKeyer) Key(namespace string, args any) (string, error) {
	canonical, err := Canonical(args)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return namespace + ":" + hex.EncodeToString(sum[:8]), nil
}

// StructuralKeyer uses the canonical JSON text of the arguments as the key,
// so structurally equal arguments share an entry.
type StructuralKeyer struct{}

// Key returns the canonical JSON of args, prefixed by namespace if set.
func (StructuralKeyer) Key(namespace string, args any) (string, error) {
	canonical, err := Canonical(args)
	if err != nil {
		return "", err
	}
	if namespace == "" {
		return string(canonical), nil
	}
	return namespace + ":" + string(canonical), nil
}

// Canonical returns a deterministic JSON encoding of v. Nested map[string]any
// keys are sorted; slice order is preserved.
func Canonical(v any) ([]byte, error) {
	b, err := canonicalize(v)
	if err != nil {
		return nil, fmt.Errorf("cache: canonicalize arguments: %w", err)
	}
	return b, nil
}

func canonicalize(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return []byte("null"), nil
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := []byte{'{'}
	for i, k := range keys {
		if i > 0 {
			out = append(out, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		out = append(out, kb...)
		out = append(out, ':')

		vb, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		out = append(out, vb...)
	}
	return append(out, '}'), nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	out := []byte{'['}
	for i, v := range s {
		if i > 0 {
			out = append(out, ',')
		}
		vb, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		out = append(out, vb...)
	}
	return append(out, ']'), nil
}

var (
	_ Keyer = (*HashKeyer)(nil)
	_ Keyer = StructuralKeyer{}
)
