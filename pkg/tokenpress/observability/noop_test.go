package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoopMetrics_RecordTemplateProcessed(t *testing.T) {
	m := NoopMetrics{}

	t.Run("does not panic with valid args", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordTemplateProcessed(context.Background(), "intro.html", 100*time.Millisecond, nil)
		})
	})

	t.Run("does not panic with error", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordTemplateProcessed(context.Background(), "intro.html", 100*time.Millisecond, errors.New("test"))
		})
	})

	t.Run("does not panic with nil context", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordTemplateProcessed(nil, "intro.html", 0, nil)
		})
	})
}

func TestNoopMetrics_RecordTokens(t *testing.T) {
	m := NoopMetrics{}

	t.Run("does not panic with valid args", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordTokens(context.Background(), "intro.html", 5, 2)
		})
	})

	t.Run("does not panic with zero counts", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordTokens(context.Background(), "", 0, 0)
		})
	})
}

func TestNoopMetrics_RecordBatchRun(t *testing.T) {
	m := NoopMetrics{}

	t.Run("does not panic with success=true", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordBatchRun(context.Background(), true, 500*time.Millisecond)
		})
	})

	t.Run("does not panic with success=false", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordBatchRun(context.Background(), false, 100*time.Millisecond)
		})
	})
}

func TestNoopSpanManager_StartBatchSpan(t *testing.T) {
	sm := NoopSpanManager{}

	t.Run("returns same context", func(t *testing.T) {
		ctx := context.Background()
		newCtx, span := sm.StartBatchSpan(ctx, "batch-1", 3)

		assert.Equal(t, ctx, newCtx, "Context should be unchanged")
		assert.NotNil(t, span, "Span should not be nil")
	})

	t.Run("span is valid noop span", func(t *testing.T) {
		_, span := sm.StartBatchSpan(context.Background(), "batch-1", 3)
		assert.False(t, span.IsRecording())
	})
}

func TestNoopSpanManager_StartTemplateSpan(t *testing.T) {
	sm := NoopSpanManager{}

	t.Run("returns same context", func(t *testing.T) {
		ctx := context.Background()
		newCtx, span := sm.StartTemplateSpan(ctx, "intro.html")

		assert.Equal(t, ctx, newCtx, "Context should be unchanged")
		assert.NotNil(t, span, "Span should not be nil")
	})

	t.Run("does not panic with empty template", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.StartTemplateSpan(context.Background(), "")
		})
	})
}

func TestNoopSpanManager_EndSpanWithError(t *testing.T) {
	sm := NoopSpanManager{}

	t.Run("does not panic with nil span", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(nil, nil)
		})
	})

	t.Run("does not panic with error", func(t *testing.T) {
		_, span := sm.StartBatchSpan(context.Background(), "b", 1)
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(span, errors.New("test error"))
		})
	})
}

func TestNoopSpanManager_AddSpanEvent(t *testing.T) {
	sm := NoopSpanManager{}

	t.Run("does not panic with valid args", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.AddSpanEvent(context.Background(), "test_event", attribute.String("key", "value"))
		})
	})

	t.Run("does not panic with nil context", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.AddSpanEvent(nil, "test_event")
		})
	})
}

func TestNoopImplementations_NoSideEffects(t *testing.T) {
	// Verifies the noop implementations can back a realistic batch run
	// without any side effects.

	metrics := NoopMetrics{}
	spans := NoopSpanManager{}

	ctx := context.Background()
	ctx, batchSpan := spans.StartBatchSpan(ctx, "batch-123", 3)

	for i, template := range []string{"intro.html", "pricing.html", "closing.html"} {
		ctx, tmplSpan := spans.StartTemplateSpan(ctx, template)

		start := time.Now()
		time.Sleep(1 * time.Millisecond)
		duration := time.Since(start)

		var err error
		if i == 1 {
			err = errors.New("simulated error")
		}

		metrics.RecordTemplateProcessed(ctx, template, duration, err)
		metrics.RecordTokens(ctx, template, 4, int64(i))

		if i == 2 {
			spans.AddSpanEvent(ctx, "tokens_extracted", attribute.Int64("count", 4))
		}

		spans.EndSpanWithError(tmplSpan, err)
	}

	metrics.RecordBatchRun(ctx, true, 100*time.Millisecond)
	spans.EndSpanWithError(batchSpan, nil)
}
