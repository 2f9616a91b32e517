package config

import (
	"testing"
	"time"
)

func TestParseMethods(t *testing.T) {
	m := parseMethods("get, head ,POST")
	for _, want := range []string{"GET", "HEAD", "POST"} {
		if !m[want] {
			t.Fatalf("missing method %s in %v", want, m)
		}
	}
	if len(m) != 3 {
		t.Fatalf("methods = %v", m)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "yes")
	t.Setenv("X_INT", "42")
	t.Setenv("X_DUR", "90s")
	t.Setenv("X_BAD", "not-a-number")

	if !envBool("X_BOOL", false) {
		t.Fatalf("envBool should parse yes")
	}
	if envBool("X_MISSING", true) != true {
		t.Fatalf("envBool default")
	}
	if envInt("X_INT", 0) != 42 {
		t.Fatalf("envInt parse")
	}
	if envInt("X_BAD", 7) != 7 {
		t.Fatalf("envInt should fall back on junk")
	}
	if envDur("X_DUR", time.Second) != 90*time.Second {
		t.Fatalf("envDur parse")
	}
	if envDur("X_BAD", 3*time.Second) != 3*time.Second {
		t.Fatalf("envDur should fall back on junk")
	}
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 {
		t.Fatalf("capacity = %d, want clamp to 1", cfg.Capacity)
	}
	if cfg.RefillTokens != 1 {
		t.Fatalf("refill tokens = %d, want clamp to 1", cfg.RefillTokens)
	}
	if cfg.TTL < 5*cfg.RefillInterval {
		t.Fatalf("ttl = %v, want at least %v", cfg.TTL, 5*cfg.RefillInterval)
	}
}
