// Package observability provides structured logging, metrics, and tracing
// helpers for the templating engine.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds engine context to a logger.
// Returns a new logger with batch_id and template fields.
func EnrichLogger(logger *slog.Logger, batchID, template string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("batch_id", batchID),
		slog.String("template", template),
	)
}

// LogBatchStart logs the start of a batch run.
func LogBatchStart(logger *slog.Logger, batchID string, files int) {
	if logger == nil {
		return
	}
	logger.Info("batch starting",
		slog.String("batch_id", batchID),
		slog.Int("files", files),
	)
}

// LogBatchComplete logs batch completion, successful or not.
func LogBatchComplete(logger *slog.Logger, batchID string, durationMs float64, successful, failed int) {
	if logger == nil {
		return
	}
	logger.Info("batch completed",
		slog.String("batch_id", batchID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("successful", successful),
		slog.Int("failed", failed),
	)
}

// LogTemplateStart logs the start of one template's pipeline.
func LogTemplateStart(logger *slog.Logger, template string) {
	if logger == nil {
		return
	}
	logger.Debug("template processing",
		slog.String("template", template),
	)
}

// LogTemplateComplete logs successful template processing.
func LogTemplateComplete(logger *slog.Logger, template string, durationMs float64, found, missing int) {
	if logger == nil {
		return
	}
	logger.Debug("template processed",
		slog.String("template", template),
		slog.Float64("duration_ms", durationMs),
		slog.Int("tokens_found", found),
		slog.Int("tokens_missing", missing),
	)
}

// LogTemplateError logs template processing failure.
func LogTemplateError(logger *slog.Logger, template string, err error) {
	if logger == nil {
		return
	}
	logger.Error("template failed",
		slog.String("template", template),
		slog.String("error", err.Error()),
	)
}

// LogMissingToken logs one unresolved token (warn policy).
func LogMissingToken(logger *slog.Logger, template, token, reason string) {
	if logger == nil {
		return
	}
	logger.Warn("token missing",
		slog.String("template", template),
		slog.String("token", token),
		slog.String("reason", reason),
	)
}

// LogCacheInvalidated logs an extraction cache invalidation.
func LogCacheInvalidated(logger *slog.Logger, path string) {
	if logger == nil {
		return
	}
	logger.Debug("extraction cache invalidated",
		slog.String("path", path),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
/// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
