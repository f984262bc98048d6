package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a test tracer provider with an in-memory span recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	// Rebind the package-level tracer to the test provider
	tracer = otel.Tracer("tokenpress")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		tracer = otel.Tracer("tokenpress")
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func TestStartBatchSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("creates span with correct name and attributes", func(t *testing.T) {
		ctx := context.Background()
		_, span := sm.StartBatchSpan(ctx, "batch-123", 4)
		require.NotNil(t, span)

		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		s := spans[0]
		assert.Equal(t, "tokenpress.batch", s.Name)

		var batchID string
		var files int64
		for _, attr := range s.Attributes {
			switch attr.Key {
			case "batch.id":
				batchID = attr.Value.AsString()
			case "batch.files":
				files = attr.Value.AsInt64()
			}
		}
		assert.Equal(t, "batch-123", batchID)
		assert.Equal(t, int64(4), files)
	})

	t.Run("template span is child of batch span", func(t *testing.T) {
		exporter.Reset()

		ctx := context.Background()
		ctx, batchSpan := sm.StartBatchSpan(ctx, "batch-456", 1)
		_, tmplSpan := sm.StartTemplateSpan(ctx, "intro.html")

		tmplSpan.End()
		batchSpan.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 2)

		// Exported in end order: template first
		assert.Equal(t, "tokenpress.template", spans[0].Name)
		assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	})
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("records error status", func(t *testing.T) {
		_, span := sm.StartTemplateSpan(context.Background(), "broken.html")
		sm.EndSpanWithError(span, errors.New("token resolution failed"))

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		s := spans[0]
		assert.Equal(t, codes.Error, s.Status.Code)
		assert.Equal(t, "token resolution failed", s.Status.Description)
		require.Len(t, s.Events, 1)
		assert.Equal(t, "exception", s.Events[0].Name)
	})

	t.Run("sets ok status without error", func(t *testing.T) {
		exporter.Reset()

		_, span := sm.StartTemplateSpan(context.Background(), "clean.html")
		sm.EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
	})

	t.Run("handles nil span", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(nil, errors.New("x"))
		})
	})
}

func TestAddSpanEvent(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("adds event to active span", func(t *testing.T) {
		ctx, span := sm.StartTemplateSpan(context.Background(), "intro.html")
		sm.AddSpanEvent(ctx, "tokens.extracted", attribute.Int("count", 5))
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		require.Len(t, spans[0].Events, 1)
		assert.Equal(t, "tokens.extracted", spans[0].Events[0].Name)
	})

	t.Run("no-op without active span", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.AddSpanEvent(context.Background(), "no.span")
		})
	})
}
