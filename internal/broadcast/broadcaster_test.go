package broadcast

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"translator/internal/models"
	"translator/internal/notify"
	"translator/internal/ratelimit"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type capturePublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (c *capturePublisher) Publish(_ context.Context, event models.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *capturePublisher) last() models.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events[len(c.events)-1]
}

type failingPublisher struct {
	calls atomic.Int32
}

func (f *failingPublisher) Publish(_ context.Context, _ models.Event) error {
	f.calls.Add(1)
	return errors.New("observer unreachable")
}

func TestBroadcaster_TickPublishesStatus(t *testing.T) {
	gate := ratelimit.NewGate(8, time.Minute)
	pub := &capturePublisher{}
	b := New(gate, pub, time.Second, WithClock(func() time.Time { return epoch }))

	b.Tick(context.Background())

	event := pub.last()
	assert.Equal(t, models.EventRateLimitUpdate, event.Action)
	require.NotNil(t, event.RemainingRequests)
	assert.Equal(t, 8, *event.RemainingRequests)
	assert.Nil(t, event.WaitSeconds)
}

func TestBroadcaster_TickAtCapacityIncludesWait(t *testing.T) {
	gate := ratelimit.NewGate(2, time.Minute)
	gate.Check(epoch)
	gate.Check(epoch)

	pub := &capturePublisher{}
	now := epoch.Add(15 * time.Second)
	b := New(gate, pub, time.Second, WithClock(func() time.Time { return now }))

	b.Tick(context.Background())

	event := pub.last()
	require.NotNil(t, event.RemainingRequests)
	assert.Equal(t, 0, *event.RemainingRequests)
	require.NotNil(t, event.WaitSeconds)
	assert.Equal(t, 45, *event.WaitSeconds)
}

func TestBroadcaster_TickPrunesExpiredEntries(t *testing.T) {
	gate := ratelimit.NewGate(2, time.Minute)
	gate.Check(epoch)
	gate.Check(epoch)

	pub := &capturePublisher{}
	b := New(gate, pub, time.Second, WithClock(func() time.Time { return epoch.Add(time.Minute) }))

	b.Tick(context.Background())

	assert.Equal(t, 2, *pub.last().RemainingRequests)
	assert.True(t, gate.Check(epoch.Add(time.Minute)).Allowed)
}

func TestBroadcaster_SurvivesFailingPublisher(t *testing.T) {
	gate := ratelimit.NewGate(8, time.Minute)
	pub := &failingPublisher{}
	b := New(gate, pub, 10*time.Millisecond)

	b.Start()
	defer b.Stop()

	assert.Eventually(t, func() bool { return pub.calls.Load() >= 6 }, 5*time.Second, 5*time.Millisecond)
}

func TestBroadcaster_SurvivesPanickingObserver(t *testing.T) {
	gate := ratelimit.NewGate(8, time.Minute)
	hub := notify.NewHub()
	var calls atomic.Int64
	hub.Subscribe(notify.ObserverFunc(func(context.Context, models.Event) error {
		calls.Add(1)
		panic("observer exploded")
	}))
	b := New(gate, hub, 10*time.Millisecond)

	b.Start()
	defer b.Stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, 5*time.Second, 5*time.Millisecond)
}

func TestBroadcaster_NoObserversIsSilent(t *testing.T) {
	gate := ratelimit.NewGate(8, time.Minute)
	hub := notify.NewHub()
	b := New(gate, hub, time.Second)

	assert.NotPanics(t, func() { b.Tick(context.Background()) })
}

func TestBroadcaster_StartStopIdempotent(t *testing.T) {
	gate := ratelimit.NewGate(8, time.Minute)
	pub := &capturePublisher{}
	b := New(gate, pub, 5*time.Millisecond)

	b.Start()
	b.Start()
	require.Eventually(t, func() bool {
		pub.mu.Lock()
		defer pub.mu.Unlock()
		return len(pub.events) > 0
	}, 2*time.Second, 5*time.Millisecond)

	b.Stop()
	b.Stop()

	pub.mu.Lock()
	count := len(pub.events)
	pub.mu.Unlock()

	time.Sleep(30 * time.Millisecond)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Equal(t, count, len(pub.events), "no ticks after Stop")
}

func TestBroadcaster_StopWithoutStart(t *testing.T) {
	b := New(ratelimit.NewGate(1, time.Minute), &capturePublisher{}, time.Second)
	assert.NotPanics(t, b.Stop)
}
