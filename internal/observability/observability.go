// Package observability wires OpenTelemetry into the relay. Metrics are
// exported through a Prometheus registry owned by the Provider; traces go to
// stdout or an OTLP collector. The gate, the provider client and the
// settings store are wrapped by instrumented decorators defined alongside.
package observability

import (
	"context"
	"errors"
	"fmt"
	"os"

	"translator/internal/models"
	"translator/internal/version"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// environmentKeys are consulted in order for the deployment environment.
var environmentKeys = []string{"TRANSLATOR_ENVIRONMENT", "ENVIRONMENT", "DEPLOYMENT_ENV"}

// Provider owns the tracer and meter providers and the metrics registry.
type Provider struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	registry       *promclient.Registry
}

// Registry returns the Prometheus registry metrics are exported to, or nil
// when metrics are disabled.
func (p *Provider) Registry() *promclient.Registry {
	return p.registry
}

// Shutdown flushes pending spans and stops both providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error

	if p.tracerProvider != nil {
		if err := p.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("observability shutdown errors: %w", errors.Join(errs...))
	}
	return nil
}

// Setup installs the global tracer and meter providers selected by
// configuration. The returned Provider must be shut down on exit.
func Setup(metrics models.MetricsConfig, obs models.ObservabilityConfig, ver version.Info) (*Provider, error) {
	res, err := newResource(obs.ServiceName, ver)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	p := &Provider{}

	if obs.Tracing.Enabled {
		tp, err := setupTracing(res, obs.Tracing)
		if err != nil {
			return nil, fmt.Errorf("failed to setup tracing: %w", err)
		}
		p.tracerProvider = tp
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	}

	if metrics.Enabled {
		mp, registry, err := setupMetrics(res)
		if err != nil {
			return nil, err
		}
		p.meterProvider = mp
		p.registry = registry
		otel.SetMeterProvider(mp)
	}

	return p, nil
}

func newResource(serviceName string, ver version.Info) (*resource.Resource, error) {
	return resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ver.Version),
			attribute.String("service.instance.id", ver.InstanceID),
			attribute.String("host.name", ver.Hostname),
			attribute.String("git.commit", ver.GitCommit),
			attribute.String("deployment.environment", getEnvironment()),
		),
	)
}

// setupMetrics builds a meter provider reading into a fresh registry that
// also carries the Go runtime and process collectors.
func setupMetrics(res *resource.Resource) (*sdkmetric.MeterProvider, *promclient.Registry, error) {
	registry := promclient.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	return mp, registry, nil
}

func setupTracing(res *resource.Resource, cfg models.TracingConfig) (*sdktrace.TracerProvider, error) {
	exporter, err := newSpanExporter(cfg)
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(newSampler(cfg.SampleRate)),
	), nil
}

func newSpanExporter(cfg models.TracingConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		return exporter, nil
	case "otlp":
		if cfg.OTLPEndpoint == "" {
			return nil, errors.New("otlp exporter requires an endpoint")
		}
		exporter, err := otlptracegrpc.New(context.Background(),
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
		}
		return exporter, nil
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.Exporter)
	}
}

// newSampler honours the caller's sampling decision when a parent span
// arrives with the request, and samples root spans at rate.
func newSampler(rate float64) sdktrace.Sampler {
	var root sdktrace.Sampler
	switch {
	case rate >= 1.0:
		root = sdktrace.AlwaysSample()
	case rate <= 0:
		root = sdktrace.NeverSample()
	default:
		root = sdktrace.TraceIDRatioBased(rate)
	}
	return sdktrace.ParentBased(root)
}

func getEnvironment() string {
	for _, key := range environmentKeys {
		if env := os.Getenv(key); env != "" {
			return env
		}
	}
	return "development"
}
