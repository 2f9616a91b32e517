package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/expofair/stall-reservation/internal/config"
)

func TestRateKeyStrategies(t *testing.T) {
	t.Parallel()

	newCtx := func(userID interface{}) echo.Context {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/v1/reservations", nil)
		req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/reservations")
		if userID != nil {
			c.Set("user_id", userID)
		}
		return c
	}

	cfg := config.RateLimitConfig{Prefix: "stallrl", KeyStrategy: "user"}
	if key := rateKey(cfg, newCtx(uint64(42))); key != "stallrl:user:42" {
		t.Fatalf("key = %q", key)
	}
	if key := rateKey(cfg, newCtx(nil)); key != "stallrl:user:anon" {
		t.Fatalf("anonymous key = %q", key)
	}

	cfg.KeyStrategy = "ip_route"
	key := rateKey(cfg, newCtx(uint64(42)))
	if !strings.Contains(key, "10.0.0.7") || !strings.Contains(key, "POST /v1/reservations") {
		t.Fatalf("ip_route key = %q", key)
	}
}

func TestAsInt64(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   interface{}
		want int64
	}{
		{int64(7), 7},
		{int(3), 3},
		{float64(2), 2},
		{"11", 11},
		{"nope", 0},
		{nil, 0},
	}
	for _, tc := range cases {
		if got := asInt64(tc.in); got != tc.want {
			t.Fatalf("asInt64(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
