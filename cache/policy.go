package cache

import "time"

// Policy configures entry lifetimes.
type Policy struct {
	// DefaultTTL applies when no TTL is given. Zero means entries never
	// expire.
	DefaultTTL time.Duration

	// MaxTTL clamps every TTL. Zero means no maximum.
	MaxTTL time.Duration
}

// DefaultPolicy returns the policy for async memoization: entries live for
// 5 minutes and never longer than an hour.
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL: 5 * time.Minute,
		MaxTTL:     time.Hour,
	}
}

// PersistentPolicy keeps entries until they are deleted.
func PersistentPolicy() Policy {
	return Policy{}
}

// Expires reports whether entries stored under this policy expire by default.
func (p Policy) Expires() bool {
	return p.DefaultTTL > 0
}

// EffectiveTTL returns the TTL to use, applying defaults and clamping.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}
	return ttl
}
