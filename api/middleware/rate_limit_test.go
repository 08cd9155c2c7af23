package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIPRateLimiterBurstThenBlocks(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2, time.Minute)
	fixed := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }

	if !limiter.Allow("1.1.1.1") || !limiter.Allow("1.1.1.1") {
		t.Fatal("expected burst of two to pass")
	}
	if limiter.Allow("1.1.1.1") {
		t.Fatal("expected third request to be limited")
	}
	if !limiter.Allow("2.2.2.2") {
		t.Fatal("expected other ip to have its own bucket")
	}

	fixed = fixed.Add(time.Second)
	if !limiter.Allow("1.1.1.1") {
		t.Fatal("expected bucket to refill after one second")
	}
}

func TestIPRateLimiterSweepsIdleBuckets(t *testing.T) {
	limiter := NewIPRateLimiter(5, 5, time.Minute)
	fixed := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }

	limiter.Allow("1.1.1.1")
	limiter.Allow("2.2.2.2")
	if limiter.size() != 2 {
		t.Fatalf("expected two buckets got %d", limiter.size())
	}

	fixed = fixed.Add(2 * time.Minute)
	limiter.Allow("3.3.3.3")
	if limiter.size() != 1 {
		t.Fatalf("expected idle buckets swept got %d", limiter.size())
	}
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1, time.Minute)
	handler := RateLimit(limiter, nil)(okHandler(nil))

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/public/offers", nil)
	req.RemoteAddr = "9.9.9.9:1234"
	handler.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}
