package client

import (
	"bytes"
	"testing"
	"time"
)

func TestResponseCache_FreshAndExpired(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := t0
	rc := NewResponseCache()
	rc.now = func() time.Time { return now }

	rc.Put("/api/alerts", []byte(`[1]`))

	now = t0.Add(CacheTTL - time.Second)
	payload, ok := rc.Get("/api/alerts")
	if !ok || !bytes.Equal(payload, []byte(`[1]`)) {
		t.Fatalf("expected fresh payload, got %q ok=%v", payload, ok)
	}

	// Exactly at the TTL boundary the entry is stale.
	now = t0.Add(CacheTTL)
	if _, ok := rc.Get("/api/alerts"); ok {
		t.Error("expected entry at TTL boundary to be stale")
	}
}

func TestResponseCache_MissAndOverwrite(t *testing.T) {
	rc := NewResponseCache()

	if _, ok := rc.Get("/api/dashboard"); ok {
		t.Error("expected miss for unknown key")
	}

	rc.Put("/api/dashboard", []byte(`{"a":1}`))
	rc.Put("/api/dashboard", []byte(`{"a":2}`))

	payload, ok := rc.Get("/api/dashboard")
	if !ok || !bytes.Equal(payload, []byte(`{"a":2}`)) {
		t.Errorf("expected latest write, got %q", payload)
	}
}
