package ratelimit

import (
	"net/http"
	"strconv"
	"time"
)

// Headers returns HTTP middleware that reports admission capacity on every
// response of the wrapped routes. It never admits requests itself; the
// headers are computed when the handler writes its status line, so they
// reflect any admission the handler just made.
func Headers(limiter Limiter, clock Clock) func(http.Handler) http.Handler {
	if clock == nil {
		clock = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hw := &headerWriter{ResponseWriter: w, limiter: limiter, clock: clock}
			next.ServeHTTP(hw, r)
		})
	}
}

// headerWriter stamps rate limit headers right before the status line.
type headerWriter struct {
	http.ResponseWriter
	limiter Limiter
	clock   Clock
	written bool
}

func (hw *headerWriter) WriteHeader(statusCode int) {
	hw.stamp()
	hw.ResponseWriter.WriteHeader(statusCode)
}

func (hw *headerWriter) Write(b []byte) (int, error) {
	hw.stamp()
	return hw.ResponseWriter.Write(b)
}

func (hw *headerWriter) stamp() {
	if hw.written {
		return
	}
	hw.written = true

	snap := hw.limiter.Status(hw.clock())
	h := hw.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(hw.limiter.Quota()))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(snap.RemainingRequests))
	if snap.WaitSeconds != nil && h.Get("Retry-After") == "" {
		h.Set("Retry-After", strconv.Itoa(*snap.WaitSeconds))
	}
}
