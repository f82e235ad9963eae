package kit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIPRateLimiter_PerAddress(t *testing.T) {
	l := NewIPRateLimiter(2)
	now := time.Now()

	if !l.Allow("10.0.0.1", now) || !l.Allow("10.0.0.1", now) {
		t.Fatalf("first two requests should pass")
	}
	if l.Allow("10.0.0.1", now) {
		t.Fatalf("third request within the minute should be limited")
	}
	if !l.Allow("10.0.0.2", now) {
		t.Fatalf("other addresses have their own bucket")
	}
	if !l.Allow("10.0.0.1", now.Add(31*time.Second)) {
		t.Fatalf("a token should refill after half a minute")
	}
}

func TestIPRateLimiter_DropsIdleVisitors(t *testing.T) {
	l := NewIPRateLimiter(5)
	now := time.Now()

	l.Allow("10.0.0.1", now)
	l.Allow("10.0.0.2", now)
	if got := l.tracked(); got != 2 {
		t.Fatalf("tracked=%d want=2", got)
	}

	l.Allow("10.0.0.3", now.Add(10*time.Minute))
	if got := l.tracked(); got != 1 {
		t.Fatalf("tracked=%d want=1 after sweep", got)
	}
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	l := NewIPRateLimiter(1)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	if got := do(""); got != http.StatusNoContent {
		t.Fatalf("status=%d want=204", got)
	}
	if got := do(""); got != http.StatusTooManyRequests {
		t.Fatalf("status=%d want=429", got)
	}
	if got := do("203.0.113.7, 10.0.0.1"); got != http.StatusNoContent {
		t.Fatalf("forwarded client should have its own bucket, status=%d", got)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	if got := clientIP(req); got != "192.0.2.1" {
		t.Fatalf("clientIP=%q", got)
	}

	req.Header.Set("X-Forwarded-For", " 203.0.113.7 ,10.0.0.1")
	if got := clientIP(req); got != "203.0.113.7" {
		t.Fatalf("clientIP=%q", got)
	}
}
