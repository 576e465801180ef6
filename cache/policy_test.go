package cache

import (
	"testing"
	"time"
)

func TestPolicy_EffectiveTTL(t *testing.T) {
	tests := []struct {
		name     string
		policy   Policy
		override time.Duration
		want     time.Duration
	}{
		{"default applies", DefaultPolicy(), 0, 5 * time.Minute},
		{"override wins", DefaultPolicy(), 50 * time.Millisecond, 50 * time.Millisecond},
		{"negative uses default", DefaultPolicy(), -time.Second, 5 * time.Minute},
		{"clamped", DefaultPolicy(), 2 * time.Hour, time.Hour},
		{"persistent no override", PersistentPolicy(), 0, 0},
		{"persistent with override", PersistentPolicy(), time.Minute, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.EffectiveTTL(tt.override); got != tt.want {
				t.Errorf("EffectiveTTL(%v) = %v, want %v", tt.override, got, tt.want)
			}
		})
	}
}

func TestPolicy_Expires(t *testing.T) {
	if !DefaultPolicy().Expires() {
		t.Error("DefaultPolicy().Expires() = false, want true")
	}
	if PersistentPolicy().Expires() {
		t.Error("PersistentPolicy().Expires() = true, want false")
	}
}
