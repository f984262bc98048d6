package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records templating engine metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordTemplateProcessed records one template pipeline with its
	// duration and error status.
	RecordTemplateProcessed(ctx context.Context, template string, duration time.Duration, err error)

	// RecordTokens records the found/missing token counts for a template.
	RecordTokens(ctx context.Context, template string, found, missing int64)

	// RecordBatchRun records a batch completion.
	RecordBatchRun(ctx context.Context, success bool, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	templatesProcessed metric.Int64Counter
	templateLatency    metric.Float64Histogram
	templateErrors     metric.Int64Counter
	tokensFound        metric.Int64Counter
	tokensMissing      metric.Int64Counter
	batchRuns          metric.Int64Counter
	batchLatency       metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("tokenpress")

	templatesProcessed, err := meter.Int64Counter("tokenpress.template.processed",
		metric.WithDescription("Number of templates processed"),
	)
	if err != nil {
		return nil, err
	}

	templateLatency, err := meter.Float64Histogram("tokenpress.template.latency_ms",
		metric.WithDescription("Template pipeline latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	templateErrors, err := meter.Int64Counter("tokenpress.template.errors",
		metric.WithDescription("Number of template processing errors"),
	)
	if err != nil {
		return nil, err
	}

	tokensFound, err := meter.Int64Counter("tokenpress.tokens.found",
		metric.WithDescription("Number of tokens that resolved"),
	)
	if err != nil {
		return nil, err
	}

	tokensMissing, err := meter.Int64Counter("tokenpress.tokens.missing",
		metric.WithDescription("Number of tokens that did not resolve"),
	)
	if err != nil {
		return nil, err
	}

	batchRuns, err := meter.Int64Counter("tokenpress.batch.runs",
		metric.WithDescription("Number of batch runs"),
	)
	if err != nil {
		return nil, err
	}

	batchLatency, err := meter.Float64Histogram("tokenpress.batch.latency_ms",
		metric.WithDescription("Batch run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		templatesProcessed: templatesProcessed,
		templateLatency:    templateLatency,
		templateErrors:     templateErrors,
		tokensFound:        tokensFound,
		tokensMissing:      tokensMissing,
		batchRuns:          batchRuns,
		batchLatency:       batchLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordTemplateProcessed records one template pipeline.
func (m *otelMetrics) RecordTemplateProcessed(ctx context.Context, template string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("template", template),
	}

	m.templatesProcessed.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.templateLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.templateErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordTokens records token resolution counts.
func (m *otelMetrics) RecordTokens(ctx context.Context, template string, found, missing int64) {
	attrs := []attribute.KeyValue{
		attribute.String("template", template),
	}
	m.tokensFound.Add(ctx, found, metric.WithAttributes(attrs...))
	m.tokensMissing.Add(ctx, missing, metric.WithAttributes(attrs...))
}

// RecordBatchRun records a batch run.
func (m *otelMetrics) RecordBatchRun(ctx context.Context, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}
	m.batchRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.batchLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}
