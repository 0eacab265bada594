package observability

import (
	"context"
	"errors"
	"time"

	"translator/internal/translation"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedTranslator wraps a translation.Translator with a span and
// latency and error metrics per provider call. The API key is never
// recorded.
type InstrumentedTranslator struct {
	inner   translation.Translator
	tracer  trace.Tracer
	metrics opMetrics
}

func NewInstrumentedTranslator(inner translation.Translator) (*InstrumentedTranslator, error) {
	metrics, err := newOpMetrics(otel.Meter("translator/translation"), "translation.request", "translation provider calls")
	if err != nil {
		return nil, err
	}

	return &InstrumentedTranslator{
		inner:   inner,
		tracer:  otel.Tracer("translator/translation"),
		metrics: metrics,
	}, nil
}

func (t *InstrumentedTranslator) Translate(ctx context.Context, req translation.Request) (string, error) {
	ctx, span := t.tracer.Start(ctx, "translation.Translate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("translation.target_language", req.TargetLanguage),
			attribute.Int("translation.text_length", len(req.Text)),
		),
	)
	start := time.Now()
	result, err := t.inner.Translate(ctx, req)

	attrs := metric.WithAttributes(
		attribute.String("target_language", req.TargetLanguage),
		attribute.String("outcome", outcome(err)),
	)
	t.metrics.finish(ctx, span, start, attrs, err)
	return result, err
}

func outcome(err error) string {
	var apiErr *translation.APIError
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, translation.ErrMalformedResponse):
		return "malformed"
	case errors.As(err, &apiErr):
		return "api_error"
	default:
		return "transport"
	}
}
