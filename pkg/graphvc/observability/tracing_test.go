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

	// Update the package-level tracer
	tracer = otel.Tracer("graphvc")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func TestStartOperationSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("creates span with operation name and workflow attribute", func(t *testing.T) {
		ctx := context.Background()
		_, span := sm.StartOperationSpan(ctx, "create_version", "wf-123")
		require.NotNil(t, span)

		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		s := spans[0]
		assert.Equal(t, "graphvc.create_version", s.Name)

		var workflowID string
		for _, attr := range s.Attributes {
			if attr.Key == "workflow.id" {
				workflowID = attr.Value.AsString()
			}
		}
		assert.Equal(t, "wf-123", workflowID)
	})

	t.Run("returns context with span", func(t *testing.T) {
		exporter.Reset()

		ctx := context.Background()
		newCtx, span := sm.StartOperationSpan(ctx, "merge_branches", "wf-1")
		assert.NotEqual(t, ctx, newCtx)

		span.End()
		require.Len(t, exporter.GetSpans(), 1)
	})

	t.Run("child spans have correct parent", func(t *testing.T) {
		exporter.Reset()

		ctx := context.Background()
		ctx, outer := sm.StartOperationSpan(ctx, "merge_branches", "wf-1")
		_, inner := sm.StartOperationSpan(ctx, "compare_versions", "wf-1")
		inner.End()
		outer.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 2)

		var innerData *tracetest.SpanStub
		for i := range spans {
			if spans[i].Name == "graphvc.compare_versions" {
				innerData = &spans[i]
				break
			}
		}
		require.NotNil(t, innerData)
		assert.True(t, innerData.Parent.IsValid())
	})
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("sets OK status for nil error", func(t *testing.T) {
		ctx := context.Background()
		_, span := sm.StartOperationSpan(ctx, "rollback", "wf-1")

		sm.EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
		assert.Equal(t, "", spans[0].Status.Description)
	})

	t.Run("sets Error status and records error", func(t *testing.T) {
		exporter.Reset()

		ctx := context.Background()
		_, span := sm.StartOperationSpan(ctx, "merge_branches", "wf-1")
		testErr := errors.New("source branch not found")

		sm.EndSpanWithError(span, testErr)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		s := spans[0]
		assert.Equal(t, codes.Error, s.Status.Code)
		assert.Equal(t, "source branch not found", s.Status.Description)

		require.NotEmpty(t, s.Events)
		found := false
		for _, event := range s.Events {
			if event.Name == "exception" {
				found = true
			}
		}
		assert.True(t, found, "Expected exception event")
	})
}

func TestAddSpanEvent(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("adds event to current span", func(t *testing.T) {
		ctx := context.Background()
		ctx, span := sm.StartOperationSpan(ctx, "merge_branches", "wf-1")

		sm.AddSpanEvent(ctx, "conflicts_detected",
			attribute.String("source_branch", "feature"),
			attribute.Int64("conflicts", 3),
		)

		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		require.NotEmpty(t, spans[0].Events)

		var found bool
		for _, event := range spans[0].Events {
			if event.Name == "conflicts_detected" {
				found = true
				var source string
				var conflicts int64
				for _, attr := range event.Attributes {
					switch attr.Key {
					case "source_branch":
						source = attr.Value.AsString()
					case "conflicts":
						conflicts = attr.Value.AsInt64()
					}
				}
				assert.Equal(t, "feature", source)
				assert.Equal(t, int64(3), conflicts)
			}
		}
		assert.True(t, found, "Expected to find conflicts_detected event")
	})

	t.Run("no panic with no current span", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.AddSpanEvent(context.Background(), "orphan_event")
		})
	})
}
