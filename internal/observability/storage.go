package observability

import (
	"context"
	"time"

	"translator/internal/models"
	"translator/internal/storage"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// opMetrics is the latency histogram and error counter pair recorded by
// every instrumented decorator.
type opMetrics struct {
	duration metric.Float64Histogram
	errors   metric.Int64Counter
}

// newOpMetrics registers "<name>.duration" and "<name>.errors" on meter.
func newOpMetrics(meter metric.Meter, name, subject string) (opMetrics, error) {
	duration, err := meter.Float64Histogram(
		name+".duration",
		metric.WithDescription("Duration of "+subject+" in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return opMetrics{}, err
	}

	errCounter, err := meter.Int64Counter(
		name+".errors",
		metric.WithDescription("Number of failed "+subject),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return opMetrics{}, err
	}

	return opMetrics{duration: duration, errors: errCounter}, nil
}

// finish records latency since start, counts err and ends span.
func (m opMetrics) finish(ctx context.Context, span trace.Span, start time.Time, attrs metric.MeasurementOption, err error) {
	m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.errors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// InstrumentedStorage traces and measures every settings store call. The
// API key is never put on a span.
type InstrumentedStorage struct {
	inner   storage.Storage
	tracer  trace.Tracer
	metrics opMetrics
}

func NewInstrumentedStorage(inner storage.Storage) (*InstrumentedStorage, error) {
	metrics, err := newOpMetrics(otel.Meter("translator/storage"), "storage.operation", "settings store operations")
	if err != nil {
		return nil, err
	}

	return &InstrumentedStorage{
		inner:   inner,
		tracer:  otel.Tracer("translator/storage"),
		metrics: metrics,
	}, nil
}

func (s *InstrumentedStorage) observe(ctx context.Context, operation string, fn func(context.Context) error, attrs ...attribute.KeyValue) error {
	attrs = append([]attribute.KeyValue{attribute.String("storage.operation", operation)}, attrs...)
	ctx, span := s.tracer.Start(ctx, "storage."+operation, trace.WithAttributes(attrs...))

	start := time.Now()
	err := fn(ctx)
	s.metrics.finish(ctx, span, start, metric.WithAttributes(attribute.String("operation", operation)), err)
	return err
}

func (s *InstrumentedStorage) GetSettings(ctx context.Context) (*models.Settings, error) {
	var settings *models.Settings
	err := s.observe(ctx, "GetSettings", func(ctx context.Context) error {
		var err error
		settings, err = s.inner.GetSettings(ctx)
		return err
	})
	return settings, err
}

func (s *InstrumentedStorage) SaveSettings(ctx context.Context, settings *models.Settings) error {
	return s.observe(ctx, "SaveSettings", func(ctx context.Context) error {
		return s.inner.SaveSettings(ctx, settings)
	},
		attribute.String("target_language", settings.TargetLanguage),
		attribute.Bool("plugin_active", settings.IsPluginActive),
	)
}

func (s *InstrumentedStorage) Ping(ctx context.Context) error {
	return s.observe(ctx, "Ping", s.inner.Ping)
}

func (s *InstrumentedStorage) Close() error {
	return s.inner.Close()
}
