package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterThrottlesRepeatedAnonymousPosts(t *testing.T) {
	rl := NewRateLimiter(time.Minute)

	var handled int
	wrapped := rl.Middleware(func(w http.ResponseWriter, r *http.Request) {
		handled++
		w.WriteHeader(http.StatusSeeOther)
	})

	req := httptest.NewRequest(http.MethodPost, "/registration", nil)
	req.RemoteAddr = "203.0.113.7:55001"

	rec := httptest.NewRecorder()
	wrapped(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	// Second post from the same address inside the window is rejected
	// before it reaches the handler.
	rec = httptest.NewRecorder()
	wrapped(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 1, handled)
}

func TestRateLimiterIsPerClientAddress(t *testing.T) {
	rl := NewRateLimiter(time.Minute)

	wrapped := rl.Middleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusSeeOther)
	})

	first := httptest.NewRequest(http.MethodPost, "/login", nil)
	first.RemoteAddr = "203.0.113.7:55001"
	rec := httptest.NewRecorder()
	wrapped(rec, first)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	other := httptest.NewRequest(http.MethodPost, "/login", nil)
	other.RemoteAddr = "198.51.100.9:44002"
	rec = httptest.NewRecorder()
	wrapped(rec, other)
	assert.Equal(t, http.StatusSeeOther, rec.Code, "a different client is not throttled by the first one")
}
