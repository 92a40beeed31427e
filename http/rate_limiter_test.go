package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(capacity int, window time.Duration, now *time.Time) *RateLimiter {
	rl := NewRateLimiter(capacity, window)
	rl.now = func() time.Time { return *now }
	return rl
}

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newTestLimiter(2, time.Minute, &now)
	defer rl.Stop()

	for i := 0; i < 2; i++ {
		if ok, _ := rl.Allow("a"); !ok {
			t.Fatalf("request %d denied", i+1)
		}
	}

	now = now.Add(15 * time.Second)
	ok, retryAfter := rl.Allow("a")
	if ok {
		t.Fatal("third request allowed")
	}
	if retryAfter != 45*time.Second {
		t.Errorf("expected 45s retry-after, got %v", retryAfter)
	}

	if ok, _ := rl.Allow("b"); !ok {
		t.Error("clients must not share buckets")
	}

	now = now.Add(45 * time.Second)
	if ok, _ := rl.Allow("a"); !ok {
		t.Error("bucket did not refill")
	}
}

func TestRateLimiter_DisabledWithZeroCapacity(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	defer rl.Stop()

	for i := 0; i < 100; i++ {
		if ok, _ := rl.Allow("a"); !ok {
			t.Fatal("disabled limiter denied a request")
		}
	}
}

func TestRateLimiter_CleanupDropsIdleBuckets(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newTestLimiter(1, time.Minute, &now)
	defer rl.Stop()

	rl.Allow("a")
	now = now.Add(2 * time.Hour)
	rl.Allow("b")
	rl.cleanup()

	if _, ok := rl.clients["a"]; ok {
		t.Error("idle bucket kept")
	}
	if _, ok := rl.clients["b"]; !ok {
		t.Error("active bucket dropped")
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Stop()
	rl.Stop()
}

func TestRateLimitMiddleware(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newTestLimiter(1, time.Minute, &now)
	defer rl.Stop()

	calls := 0
	handler := RateLimitMiddleware(rl, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/loan/calculate", nil)
		req.RemoteAddr = "198.51.100.7:5555"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	if w := send(); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w := send()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "60" {
		t.Errorf("expected Retry-After 60, got %q", got)
	}
	if calls != 1 {
		t.Errorf("expected handler to run once, got %d", calls)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	if got := clientIP(req); got != "203.0.113.9" {
		t.Errorf("expected host part, got %q", got)
	}
	req.RemoteAddr = "unix-socket"
	if got := clientIP(req); got != "unix-socket" {
		t.Errorf("expected raw address, got %q", got)
	}
}
