// Package ratelimit admits requests through a sliding-log window. A request is
// admitted when fewer than quota requests were admitted during the trailing
// window; otherwise the caller learns how many whole seconds remain until the
// oldest admission leaves the window. It also provides HTTP middleware that
// reports the current capacity in standard rate limit response headers.
package ratelimit

import "time"

// Clock returns the current instant. Tests inject fixed or stepped clocks.
type Clock func() time.Time

// Limiter defines the admission contract. Implementations must be safe for
// concurrent use.
type Limiter interface {
	// Check prunes stale entries and either admits the request, recording
	// now, or rejects it without recording anything.
	Check(now time.Time) Decision

	// Status prunes stale entries and reports remaining capacity. It never
	// admits a request.
	Status(now time.Time) Snapshot

	// Quota is the maximum number of admissions within one window.
	Quota() int

	// Window is the length of the trailing admission window.
	Window() time.Duration
}

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed     bool
	WaitSeconds int // Positive when rejected, zero when allowed
}

// Snapshot is a point-in-time view of admission capacity.
type Snapshot struct {
	RemainingRequests int  `json:"remainingRequests"`
	WaitSeconds       *int `json:"waitSeconds,omitempty"` // Set only at capacity
}
