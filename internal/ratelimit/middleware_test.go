package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(ts time.Time) Clock {
	return func() time.Time { return ts }
}

func TestHeaders_ReportCapacity(t *testing.T) {
	g := NewGate(8, time.Minute)
	clock := fixedClock(at(0))

	handler := Headers(g, clock)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/api/v1/translate", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "8", rr.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "8", rr.Header().Get("X-RateLimit-Remaining"))
	assert.Empty(t, rr.Header().Get("Retry-After"))
}

func TestHeaders_ReflectAdmissionMadeByHandler(t *testing.T) {
	g := NewGate(8, time.Minute)
	clock := fixedClock(at(0))

	handler := Headers(g, clock)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.Check(clock())
		w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/api/v1/translate", nil))

	assert.Equal(t, "7", rr.Header().Get("X-RateLimit-Remaining"))
}

func TestHeaders_RetryAfterAtCapacity(t *testing.T) {
	g := NewGate(2, time.Minute)
	require.True(t, g.Check(at(0)).Allowed)
	require.True(t, g.Check(at(0)).Allowed)

	handler := Headers(g, fixedClock(at(500)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/api/v1/translate", nil))

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
}

func TestHeaders_KeepsHandlerRetryAfter(t *testing.T) {
	g := NewGate(1, time.Minute)
	require.True(t, g.Check(at(0)).Allowed)

	handler := Headers(g, fixedClock(at(0)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "42")
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/api/v1/translate", nil))

	assert.Equal(t, "42", rr.Header().Get("Retry-After"))
}

func TestHeaders_DoNotConsumeCapacity(t *testing.T) {
	g := NewGate(1, time.Minute)

	handler := Headers(g, fixedClock(at(0)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	}

	assert.True(t, g.Check(at(0)).Allowed)
}
