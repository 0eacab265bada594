package ratelimit

import (
	"sync"
	"time"
)

// Gate is an in-memory sliding-log admission gate. It keeps the timestamps of
// admitted requests that are still inside the window, oldest first. The log
// starts empty on every process start.
type Gate struct {
	quota  int
	window time.Duration

	mu     sync.Mutex
	events []time.Time
}

// NewGate creates a gate admitting at most quota requests per window.
func NewGate(quota int, window time.Duration) *Gate {
	return &Gate{
		quota:  quota,
		window: window,
		events: make([]time.Time, 0, quota),
	}
}

// Check prunes the log and admits the request when capacity remains. The
// prune, the capacity test and the append happen under one lock, so two
// concurrent checks can never both take the last slot.
func (g *Gate) Check(now time.Time) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prune(now)

	if len(g.events) < g.quota {
		g.events = append(g.events, now)
		return Decision{Allowed: true}
	}

	return Decision{Allowed: false, WaitSeconds: g.waitSeconds(now)}
}

// Status prunes the log and reports remaining capacity.
func (g *Gate) Status(now time.Time) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prune(now)

	snap := Snapshot{RemainingRequests: g.quota - len(g.events)}
	if snap.RemainingRequests <= 0 {
		snap.RemainingRequests = 0
		wait := g.waitSeconds(now)
		snap.WaitSeconds = &wait
	}
	return snap
}

// Prune drops entries whose age has reached the window.
func (g *Gate) Prune(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prune(now)
}

func (g *Gate) Quota() int {
	return g.quota
}

func (g *Gate) Window() time.Duration {
	return g.window
}

// prune keeps entries younger than the window. An entry exactly one window
// old is stale. Callers must hold g.mu.
func (g *Gate) prune(now time.Time) {
	kept := g.events[:0]
	for _, ts := range g.events {
		if now.Sub(ts) < g.window {
			kept = append(kept, ts)
		}
	}
	g.events = kept
}

// waitSeconds rounds the time until the oldest entry expires up to whole
// seconds. Callers must hold g.mu.
func (g *Gate) waitSeconds(now time.Time) int {
	remaining := g.window
	if len(g.events) > 0 {
		remaining -= now.Sub(g.events[0])
	}
	if remaining <= 0 {
		return 1
	}
	return int((remaining + time.Second - 1) / time.Second)
}
