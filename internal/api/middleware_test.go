package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"translator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("generates id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))
	})

	t.Run("propagates id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "req-123", seen)
		assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
	})
}

func TestCORSMiddleware(t *testing.T) {
	cors := models.CORSConfig{
		Enabled:        true,
		AllowedOrigins: []string{"chrome-extension://abc"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         600,
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := corsMiddleware(cors)(next)

	tests := []struct {
		name           string
		method         string
		origin         string
		expectedStatus int
		expectedOrigin string
	}{
		{"allowed origin", http.MethodGet, "chrome-extension://abc", http.StatusOK, "chrome-extension://abc"},
		{"foreign origin", http.MethodGet, "https://evil.example", http.StatusOK, ""},
		{"preflight", http.MethodOptions, "chrome-extension://abc", http.StatusNoContent, "chrome-extension://abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/translate", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, POST", rr.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "600", rr.Header().Get("Access-Control-Max-Age"))
			assert.Contains(t, rr.Header().Get("Access-Control-Expose-Headers"), "Retry-After")
		})
	}
}

func TestCORSMiddleware_Wildcard(t *testing.T) {
	handler := corsMiddleware(models.CORSConfig{AllowedOrigins: []string{"*"}})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "moz-extension://xyz")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "moz-extension://xyz", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), models.ErrorCodeInternalError)
}

func TestLoggingMiddleware_RecordsStatus(t *testing.T) {
	var recorded *statusRecorder
	handler := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorded = w.(*statusRecorder)
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, recorded)
	assert.Equal(t, http.StatusTeapot, recorded.status)
}

func TestStatusRecorder_HijackUnsupported(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	_, _, err := rec.Hijack()
	assert.Error(t, err)
}

func TestContains(t *testing.T) {
	assert.True(t, contains([]string{"a", "b"}, "b"))
	assert.False(t, contains([]string{"a"}, "c"))
	assert.False(t, contains(nil, "a"))
}
