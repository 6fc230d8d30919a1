package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestWriteHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	WriteHeaders(w, Result{
		Allowed:   true,
		Limit:     120,
		Remaining: 45,
		ResetAt:   time.Unix(1774012345, 0),
	})

	if got := w.Header().Get("X-RateLimit-Limit"); got != "120" {
		t.Errorf("X-RateLimit-Limit = %s", got)
	}
	if got := w.Header().Get("X-RateLimit-Remaining"); got != "45" {
		t.Errorf("X-RateLimit-Remaining = %s", got)
	}
	if got := w.Header().Get("X-RateLimit-Reset"); got != "1774012345" {
		t.Errorf("X-RateLimit-Reset = %s", got)
	}
	if got := w.Header().Get("Retry-After"); got != "" {
		t.Errorf("Retry-After set on allowed request: %s", got)
	}
}

func TestWriteHeadersRateLimited(t *testing.T) {
	w := httptest.NewRecorder()
	WriteHeaders(w, Result{
		Allowed:    false,
		Limit:      120,
		ResetAt:    time.Unix(1774012345, 0),
		RetryAfter: 30 * time.Second,
	})

	if got := w.Header().Get("Retry-After"); got != "30" {
		t.Errorf("Retry-After = %s, want 30", got)
	}
}

func TestResponseWriterInjectsHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec, Result{Allowed: true, Limit: 120, Remaining: 10})

	if _, err := rw.Write([]byte("ok")); err != nil {
		t.Fatal(err)
	}
	if got := rec.Header().Get("X-RateLimit-Limit"); got != "120" {
		t.Errorf("headers not injected before body: X-RateLimit-Limit = %s", got)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
