// Package broadcast periodically pushes the admission gate's status to every
// observer so extension surfaces can show remaining capacity without asking.
package broadcast

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"translator/internal/models"
	"translator/internal/notify"
	"translator/internal/ratelimit"
)

// Broadcaster emits a rateLimitUpdate event once per period. Delivery
// failures never stop it.
type Broadcaster struct {
	limiter   ratelimit.Limiter
	publisher notify.Publisher
	period    time.Duration
	clock     ratelimit.Clock

	mu      sync.Mutex
	started bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Broadcaster.
type Option func(*Broadcaster)

// WithClock overrides the time source used for status snapshots.
func WithClock(clock ratelimit.Clock) Option {
	return func(b *Broadcaster) {
		b.clock = clock
	}
}

// New creates a broadcaster. It does nothing until Start is called.
func New(limiter ratelimit.Limiter, publisher notify.Publisher, period time.Duration, opts ...Option) *Broadcaster {
	b := &Broadcaster{
		limiter:   limiter,
		publisher: publisher,
		period:    period,
		clock:     time.Now,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start launches the ticker goroutine. Calling it more than once has no effect.
func (b *Broadcaster) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return
	}
	b.started = true

	b.wg.Add(1)
	go b.run()
	slog.Info("Status broadcaster started", "period", b.period)
}

// Stop halts the ticker and waits for an in-flight tick to finish. It is
// safe to call more than once.
func (b *Broadcaster) Stop() {
	b.mu.Lock()
	select {
	case <-b.done:
	default:
		close(b.done)
	}
	b.mu.Unlock()

	b.wg.Wait()
}

func (b *Broadcaster) run() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.period)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			slog.Info("Status broadcaster stopped")
			return
		case <-ticker.C:
			b.Tick(context.Background())
		}
	}
}

// Tick computes one status snapshot and publishes it.
func (b *Broadcaster) Tick(ctx context.Context) {
	snap := b.limiter.Status(b.clock())
	notify.Send(ctx, b.publisher, models.NewRateLimitUpdate(snap.RemainingRequests, snap.WaitSeconds))
}
