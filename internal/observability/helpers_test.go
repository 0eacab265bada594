package observability

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/stretchr/testify/require"
)

// useManualReader installs a global meter provider backed by a manual reader.
func useManualReader(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

// int64Value sums the data points of a counter or gauge carrying attr.
func int64Value(rm metricdata.ResourceMetrics, name string, attr *attribute.KeyValue) int64 {
	m, ok := findMetric(rm, name)
	if !ok {
		return 0
	}

	var points []metricdata.DataPoint[int64]
	switch data := m.Data.(type) {
	case metricdata.Sum[int64]:
		points = data.DataPoints
	case metricdata.Gauge[int64]:
		points = data.DataPoints
	}

	var total int64
	for _, dp := range points {
		if attr != nil {
			v, found := dp.Attributes.Value(attr.Key)
			if !found || v != attr.Value {
				continue
			}
		}
		total += dp.Value
	}
	return total
}

// histogramCount returns the number of recordings in a float64 histogram.
func histogramCount(rm metricdata.ResourceMetrics, name string) uint64 {
	m, ok := findMetric(rm, name)
	if !ok {
		return 0
	}
	data, ok := m.Data.(metricdata.Histogram[float64])
	if !ok {
		return 0
	}
	var count uint64
	for _, dp := range data.DataPoints {
		count += dp.Count
	}
	return count
}

func attr(key, value string) *attribute.KeyValue {
	kv := attribute.String(key, value)
	return &kv
}
