package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func testMeter(t *testing.T) *sdkmetric.MeterProvider {
	t.Helper()
	mp := sdkmetric.NewMeterProvider()
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
	})
	return mp
}

func TestDefaultOTelConfig(t *testing.T) {
	cfg := DefaultOTelConfig()

	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.Equal(t, "prometheus", cfg.MetricExporter)
	assert.True(t, cfg.EnableTracing)
	assert.True(t, cfg.EnableMetrics)
	assert.Equal(t, 1.0, cfg.SampleRatio)
}

func TestInitializeOTel(t *testing.T) {
	logger := slog.Default()

	t.Run("disabled exporters", func(t *testing.T) {
		providers, err := InitializeOTel(&OTelConfig{
			ServiceName:    "test",
			ServiceVersion: "0.0.1",
			Environment:    "test",
			TraceExporter:  "none",
			MetricExporter: "none",
			EnableTracing:  true,
			EnableMetrics:  true,
			SampleRatio:    1.0,
		}, logger)
		require.NoError(t, err)
		assert.Nil(t, providers.TracerProvider)
		assert.Nil(t, providers.MeterProvider)

		assert.NoError(t, providers.Shutdown(context.Background()))
	})

	t.Run("unsupported trace exporter", func(t *testing.T) {
		_, err := InitializeOTel(&OTelConfig{
			TraceExporter: "jaeger",
			EnableTracing: true,
		}, logger)
		assert.Error(t, err)
	})

	t.Run("unsupported metric exporter", func(t *testing.T) {
		_, err := InitializeOTel(&OTelConfig{
			TraceExporter:  "none",
			MetricExporter: "statsd",
			EnableTracing:  true,
			EnableMetrics:  true,
		}, logger)
		assert.Error(t, err)
	})
}

func TestCreateBusinessMetrics(t *testing.T) {
	meter := testMeter(t).Meter("test")

	bm, err := CreateBusinessMetrics(meter)
	require.NoError(t, err)

	assert.NotNil(t, bm.HTTPRequestsTotal)
	assert.NotNil(t, bm.FilesAnalyzedTotal)
	assert.NotNil(t, bm.FilesFailedTotal)
	assert.NotNil(t, bm.AnalysisDuration)
	assert.NotNil(t, bm.BatchesTotal)
	assert.NotNil(t, bm.ReportsExportedTotal)
}

func TestRecordAnalysisMetrics(t *testing.T) {
	meter := testMeter(t).Meter("test")
	bm, err := CreateBusinessMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()

	// Success and failure paths, plus a nil receiver, must not panic.
	RecordAnalysisMetrics(ctx, bm, "AAPL", 50*time.Millisecond, nil)
	RecordAnalysisMetrics(ctx, bm, "MSFT", 10*time.Millisecond, errors.New("bad file"))
	RecordAnalysisMetrics(ctx, nil, "NOOP", 0, nil)

	RecordBatchMetrics(ctx, bm, 3, 200*time.Millisecond)
	RecordBatchMetrics(ctx, nil, 0, 0)
}

func TestNewRuntimeMetrics(t *testing.T) {
	meter := testMeter(t).Meter("test")

	rm, err := NewRuntimeMetrics(meter)
	require.NoError(t, err)

	// One direct sample should not panic and should advance GC counters
	// monotonically.
	rm.collect(context.Background())
	rm.collect(context.Background())
}
