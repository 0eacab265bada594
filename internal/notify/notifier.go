// Package notify fans relay events out to observers. Delivery is best-effort:
// publishing never waits on a slow observer, and a failed delivery is logged
// by the caller instead of changing the outcome of the operation that
// produced the event.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"translator/internal/models"
)

var (
	// ErrNoObservers is returned by Hub.Publish when nobody is subscribed.
	ErrNoObservers = errors.New("no observers registered")

	// ErrObserverBusy is returned when an observer's queue is full.
	ErrObserverBusy = errors.New("observer queue full")

	// ErrObserverClosed is returned when delivering to a closed observer.
	ErrObserverClosed = errors.New("observer closed")
)

// Observer receives events. Notify must not block on network I/O.
type Observer interface {
	Notify(ctx context.Context, event models.Event) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, event models.Event) error

func (f ObserverFunc) Notify(ctx context.Context, event models.Event) error {
	return f(ctx, event)
}

// Publisher is the single capability the dispatcher and the broadcaster need.
type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// Hub is a registry of observers. It is safe for concurrent use.
type Hub struct {
	mu        sync.RWMutex
	observers map[string]Observer
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		observers: make(map[string]Observer),
	}
}

// Subscribe registers an observer and returns its subscription ID.
func (h *Hub) Subscribe(o Observer) string {
	id := uuid.NewString()
	h.mu.Lock()
	h.observers[id] = o
	h.mu.Unlock()
	slog.Debug("Observer subscribed", "subscription_id", id)
	return id
}

// Unsubscribe removes an observer. It reports whether the ID was known.
func (h *Hub) Unsubscribe(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.observers[id]; !ok {
		return false
	}
	delete(h.observers, id)
	slog.Debug("Observer unsubscribed", "subscription_id", id)
	return true
}

// Len returns the number of registered observers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.observers)
}

// Publish delivers event to every observer. It returns ErrNoObservers when
// the registry is empty, otherwise the joined errors of failed deliveries.
func (h *Hub) Publish(ctx context.Context, event models.Event) error {
	h.mu.RLock()
	targets := make(map[string]Observer, len(h.observers))
	for id, o := range h.observers {
		targets[id] = o
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return ErrNoObservers
	}

	var errs []error
	for id, o := range targets {
		if err := notifyObserver(ctx, o, event); err != nil {
			errs = append(errs, fmt.Errorf("observer %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// notifyObserver turns a panicking observer into a delivery error so the
// remaining observers still receive the event.
func notifyObserver(ctx context.Context, o Observer, event models.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panicked: %v", r)
		}
	}()
	return o.Notify(ctx, event)
}

// Close unsubscribes every observer and closes those that hold resources.
func (h *Hub) Close() error {
	h.mu.Lock()
	observers := h.observers
	h.observers = make(map[string]Observer)
	h.mu.Unlock()

	var errs []error
	for _, o := range observers {
		if c, ok := o.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Send publishes event and swallows any failure, panics included. An empty
// registry is skipped silently; delivery errors are logged as warnings.
func Send(ctx context.Context, p Publisher, event models.Event) {
	if p == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Failed to deliver event", "action", event.Action, "error", fmt.Errorf("publisher panicked: %v", r))
		}
	}()

	err := p.Publish(ctx, event)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoObservers):
		slog.Debug("No observers for event", "action", event.Action)
	default:
		slog.Warn("Failed to deliver event", "action", event.Action, "error", err)
	}
}
