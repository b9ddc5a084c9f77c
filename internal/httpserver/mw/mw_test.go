package mw

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/lombahub/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestRateLimit(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	h := RateLimit(RateLimitConfig{
		Name:              "test",
		Burst:             2,
		RefillPerIPPerMin: 60,
		Logger:            logger.New("error", false),
		Now:               func() time.Time { return now },
	})(okHandler)

	do := func(remote string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/submissions", nil)
		r.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := do("192.0.2.1:1000"); rec.Code != http.StatusNoContent {
			t.Fatalf("request %d status = %d, want 204", i, rec.Code)
		}
	}

	rec := do("192.0.2.1:1001")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "1" {
		t.Errorf("Retry-After = %q, want 1", got)
	}

	if rec := do("192.0.2.2:1000"); rec.Code != http.StatusNoContent {
		t.Errorf("other client status = %d, want 204", rec.Code)
	}

	now = now.Add(time.Second)
	if rec := do("192.0.2.1:1000"); rec.Code != http.StatusNoContent {
		t.Errorf("status after refill = %d, want 204", rec.Code)
	}
}

func TestAllowOnlyCIDRS(t *testing.T) {
	log := logger.New("error", false)

	tests := []struct {
		name    string
		allowed []string
		remote  string
		want    int
	}{
		{name: "passthrough", allowed: nil, remote: "203.0.113.1:1", want: http.StatusNoContent},
		{name: "allowed", allowed: []string{"10.0.0.0/8"}, remote: "10.1.2.3:1", want: http.StatusNoContent},
		{name: "rejected", allowed: []string{"10.0.0.0/8"}, remote: "203.0.113.1:1", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/infra", nil)
			r.RemoteAddr = tt.remote
			rec := httptest.NewRecorder()
			AllowOnlyCIDRS(tt.allowed, false, log)(okHandler).ServeHTTP(rec, r)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host    string
		pattern string
		want    bool
	}{
		{host: "lomba.id", pattern: "lomba.id", want: true},
		{host: "ops.lomba.id", pattern: "*.lomba.id", want: true},
		{host: "lomba.id", pattern: "*.lomba.id", want: false},
		{host: "evil-lomba.id", pattern: "*.lomba.id", want: false},
		{host: "lomba.id", pattern: "*", want: false},
	}
	for _, tt := range tests {
		if got := matchHost(tt.host, tt.pattern); got != tt.want {
			t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
		}
	}
}

func TestEnforceHostIgnoresPortAndCase(t *testing.T) {
	h := EnforceHost([]string{"Ops.Lomba.id"}, logger.New("error", false))(okHandler)

	r := httptest.NewRequest(http.MethodPost, "/reload", nil)
	r.Host = "ops.lomba.ID:8080"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}

	r.Host = "lomba.id"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRateLimitSweepConcurrentWithTraffic(t *testing.T) {
	l := newLimiter(RateLimitConfig{
		Burst:             100,
		RefillPerIPPerMin: 600,
		MaxEntries:        4,
		SweepInterval:     time.Nanosecond,
		IdleTTL:           time.Nanosecond,
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				now := time.Now()
				l.allow(fmt.Sprintf("198.51.100.%d", (i+j)%6), now)
				l.sweepMaybe(now)
			}
		}(i)
	}
	wg.Wait()

	l.mu.Lock()
	n := len(l.buckets)
	l.mu.Unlock()
	if n > 6 {
		t.Errorf("limiter holds %d buckets, want at most 6", n)
	}
}
