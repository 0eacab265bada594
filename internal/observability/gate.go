package observability

import (
	"context"
	"time"

	"translator/internal/ratelimit"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentedLimiter counts admission decisions and exposes the remaining
// capacity as an observable gauge.
type InstrumentedLimiter struct {
	inner     ratelimit.Limiter
	decisions metric.Int64Counter
	reg       metric.Registration
}

// NewInstrumentedLimiter wraps inner. clock drives the gauge callback so it
// agrees with the time source the dispatcher uses.
func NewInstrumentedLimiter(inner ratelimit.Limiter, clock ratelimit.Clock) (*InstrumentedLimiter, error) {
	meter := otel.Meter("translator/gate")

	decisions, err := meter.Int64Counter(
		"gate.decisions",
		metric.WithDescription("Admission decisions by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	remaining, err := meter.Int64ObservableGauge(
		"gate.remaining",
		metric.WithDescription("Admissions left in the current window"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(remaining, int64(inner.Status(clock()).RemainingRequests))
		return nil
	}, remaining)
	if err != nil {
		return nil, err
	}

	return &InstrumentedLimiter{inner: inner, decisions: decisions, reg: reg}, nil
}

func (l *InstrumentedLimiter) Check(now time.Time) ratelimit.Decision {
	d := l.inner.Check(now)
	result := "admitted"
	if !d.Allowed {
		result = "rejected"
	}
	l.decisions.Add(context.Background(), 1, metric.WithAttributes(attribute.String("result", result)))
	return d
}

func (l *InstrumentedLimiter) Status(now time.Time) ratelimit.Snapshot {
	return l.inner.Status(now)
}

func (l *InstrumentedLimiter) Quota() int {
	return l.inner.Quota()
}

func (l *InstrumentedLimiter) Window() time.Duration {
	return l.inner.Window()
}

// Close unregisters the gauge callback.
func (l *InstrumentedLimiter) Close() error {
	return l.reg.Unregister()
}
