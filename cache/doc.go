// Package cache provides the in-memory stores behind memoization: a TTL
// cache with an injectable clock, a fixed-capacity LRU, and deterministic
// key derivation from call arguments.
package cache
