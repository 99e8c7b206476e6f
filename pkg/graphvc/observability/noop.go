package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordVersionCreated does nothing.
func (NoopMetrics) RecordVersionCreated(_ context.Context, _ string, _, _ int) {}

// RecordDiff does nothing.
func (NoopMetrics) RecordDiff(_ context.Context, _ time.Duration, _ int) {}

// RecordMerge does nothing.
func (NoopMetrics) RecordMerge(_ context.Context, _ bool, _ int, _ time.Duration) {}

// RecordRollback does nothing.
func (NoopMetrics) RecordRollback(_ context.Context) {}

// NoopSpanManager is a SpanManager that does nothing.
// Use when tracing is disabled to avoid overhead.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartOperationSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartOperationSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
