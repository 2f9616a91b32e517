package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/expofair/stall-reservation/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	hdr := http.Header{"Content-Type": {"application/json"}, "X-Custom": {"a", "b"}}
	body := []byte(`{"stalls":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(payload)
	if !ok {
		t.Fatalf("decode rejected a valid payload")
	}
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if got := gotHdr.Get("Content-Type"); got != "application/json" {
		t.Fatalf("Content-Type = %q", got)
	}
	if len(gotHdr["X-Custom"]) != 2 {
		t.Fatalf("expected both X-Custom values, got %v", gotHdr["X-Custom"])
	}
	if !bytes.Equal(gotBody, body) {
		t.Fatalf("body = %q, want %q", gotBody, body)
	}
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, bs := range [][]byte{nil, []byte("short"), []byte("\x00\x00\x00\xc8\xff\xff\xff\xff")} {
		if _, _, _, ok := decodePayload(bs); ok {
			t.Fatalf("decode accepted invalid payload %q", bs)
		}
	}
}

func TestCacheKeyStrategies(t *testing.T) {
	t.Parallel()

	newCtx := func(target string) echo.Context {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/events/:id/availability")
		return c
	}
	cfg := config.CacheConfig{Prefix: "stallcache", KeyStrategy: "route_query"}

	a := cacheKey(cfg, newCtx("/v1/events/1/availability?x=1"))
	b := cacheKey(cfg, newCtx("/v1/events/1/availability?x=2"))
	if a == b {
		t.Fatalf("different queries must produce different keys")
	}
	if a != cacheKey(cfg, newCtx("/v1/events/1/availability?x=1")) {
		t.Fatalf("same request must produce a stable key")
	}

	cfg.KeyStrategy = "route"
	if cacheKey(cfg, newCtx("/v1/events/1/availability?x=1")) != cacheKey(cfg, newCtx("/v1/events/1/availability?x=2")) {
		t.Fatalf("route strategy must ignore the query string")
	}
}

func TestBodyRecorderLimit(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	br := &bodyRecorder{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	if _, err := br.Write([]byte("abcdef")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	// The client still gets the full body.
	if rec.Body.String() != "abcdef" {
		t.Fatalf("client body = %q", rec.Body.String())
	}
	if !br.overflowed() {
		t.Fatalf("recorder should report overflow")
	}
}
