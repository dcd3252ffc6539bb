package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestRateLimiter_RefillsAfterWindow(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)}
	rl := newRateLimiter(2, time.Minute, clock.now)

	ok, _ := rl.Allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = rl.Allow("10.0.0.1")
	assert.True(t, ok)

	clock.t = clock.t.Add(20 * time.Second)
	ok, retry := rl.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, retry)

	ok, _ = rl.Allow("10.0.0.2")
	assert.True(t, ok, "clients have separate buckets")

	clock.t = clock.t.Add(40 * time.Second)
	ok, _ = rl.Allow("10.0.0.1")
	assert.True(t, ok)
}

func TestRateLimiter_CleanupDropsIdleClients(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)}
	rl := newRateLimiter(5, time.Minute, clock.now)

	rl.Allow("a")
	clock.t = clock.t.Add(30 * time.Minute)
	rl.Allow("b")
	clock.t = clock.t.Add(31 * time.Minute)

	rl.cleanup()
	assert.Equal(t, 1, rl.clientCount())
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := newRateLimiter(1, time.Minute, time.Now)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RateLimitMiddleware(rl, next)

	req := httptest.NewRequest(http.MethodPost, "/tax/calculate", nil)
	req.RemoteAddr = "192.0.2.10:4321"

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
