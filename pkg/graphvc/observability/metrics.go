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

// MetricsRecorder records engine metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordVersionCreated records a committed version.
	RecordVersionCreated(ctx context.Context, branch string, nodeCount, edgeCount int)

	// RecordDiff records a version comparison with its duration and change count.
	RecordDiff(ctx context.Context, duration time.Duration, changeCount int)

	// RecordMerge records a merge attempt, its outcome, and conflict count.
	RecordMerge(ctx context.Context, success bool, conflictCount int, duration time.Duration)

	// RecordRollback records a rollback append.
	RecordRollback(ctx context.Context)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	versionsCreated metric.Int64Counter
	graphNodes      metric.Int64Histogram
	diffs           metric.Int64Counter
	diffLatency     metric.Float64Histogram
	diffChanges     metric.Int64Histogram
	merges          metric.Int64Counter
	mergeLatency    metric.Float64Histogram
	mergeConflicts  metric.Int64Histogram
	rollbacks       metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("graphvc")

	versionsCreated, err := meter.Int64Counter("graphvc.versions.created",
		metric.WithDescription("Number of versions committed"),
	)
	if err != nil {
		return nil, err
	}

	graphNodes, err := meter.Int64Histogram("graphvc.graph.nodes",
		metric.WithDescription("Node count of committed graphs"),
	)
	if err != nil {
		return nil, err
	}

	diffs, err := meter.Int64Counter("graphvc.diffs",
		metric.WithDescription("Number of version comparisons"),
	)
	if err != nil {
		return nil, err
	}

	diffLatency, err := meter.Float64Histogram("graphvc.diff.latency_ms",
		metric.WithDescription("Diff computation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	diffChanges, err := meter.Int64Histogram("graphvc.diff.changes",
		metric.WithDescription("Change count per diff"),
	)
	if err != nil {
		return nil, err
	}

	merges, err := meter.Int64Counter("graphvc.merges",
		metric.WithDescription("Number of merge attempts"),
	)
	if err != nil {
		return nil, err
	}

	mergeLatency, err := meter.Float64Histogram("graphvc.merge.latency_ms",
		metric.WithDescription("Merge latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	mergeConflicts, err := meter.Int64Histogram("graphvc.merge.conflicts",
		metric.WithDescription("Conflict count per merge attempt"),
	)
	if err != nil {
		return nil, err
	}

	rollbacks, err := meter.Int64Counter("graphvc.rollbacks",
		metric.WithDescription("Number of rollback appends"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		versionsCreated: versionsCreated,
		graphNodes:      graphNodes,
		diffs:           diffs,
		diffLatency:     diffLatency,
		diffChanges:     diffChanges,
		merges:          merges,
		mergeLatency:    mergeLatency,
		mergeConflicts:  mergeConflicts,
		rollbacks:       rollbacks,
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

// RecordVersionCreated records a committed version.
func (m *otelMetrics) RecordVersionCreated(ctx context.Context, branch string, nodeCount, edgeCount int) {
	attrs := []attribute.KeyValue{
		attribute.String("branch", branch),
	}
	m.versionsCreated.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.graphNodes.Record(ctx, int64(nodeCount), metric.WithAttributes(attrs...))
}

// RecordDiff records a version comparison.
func (m *otelMetrics) RecordDiff(ctx context.Context, duration time.Duration, changeCount int) {
	m.diffs.Add(ctx, 1)
	m.diffLatency.Record(ctx, float64(duration.Milliseconds()))
	m.diffChanges.Record(ctx, int64(changeCount))
}

// RecordMerge records a merge attempt.
func (m *otelMetrics) RecordMerge(ctx context.Context, success bool, conflictCount int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}
	m.merges.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.mergeLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	m.mergeConflicts.Record(ctx, int64(conflictCount), metric.WithAttributes(attrs...))
}

// RecordRollback records a rollback append.
func (m *otelMetrics) RecordRollback(ctx context.Context) {
	m.rollbacks.Add(ctx, 1)
}
