package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/randalmurphal/graphvc/pkg/graphvc"
)

// buildGraph creates a linear pipeline with n nodes.
func buildGraph(n int) *graphvc.Graph {
	g := &graphvc.Graph{
		Nodes: make([]graphvc.Node, 0, n),
		Edges: make([]graphvc.Edge, 0, n-1),
	}
	for i := 0; i < n; i++ {
		g.Nodes = append(g.Nodes, graphvc.Node{
			ID:     nodeID(i),
			Type:   "transform",
			Config: map[string]any{"step": i},
		})
		if i > 0 {
			g.Edges = append(g.Edges, graphvc.Edge{
				ID:     fmt.Sprintf("e%d", i),
				Source: nodeID(i - 1),
				Target: nodeID(i),
				Type:   "data",
			})
		}
	}
	return g
}

func nodeID(i int) string {
	return fmt.Sprintf("n%d", i)
}

func benchmarkCreateVersion(b *testing.B, size int) {
	ctx := context.Background()
	e := graphvc.New()
	g := buildGraph(size)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.CreateVersion(ctx, "bench", g, "bench", "snapshot")
	}
}

func BenchmarkCreateVersion_5(b *testing.B)   { benchmarkCreateVersion(b, 5) }
func BenchmarkCreateVersion_50(b *testing.B)  { benchmarkCreateVersion(b, 50) }
func BenchmarkCreateVersion_500(b *testing.B) { benchmarkCreateVersion(b, 500) }

func BenchmarkChecksum_50(b *testing.B) {
	g := buildGraph(50)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		graphvc.Checksum(g)
	}
}

func BenchmarkClone_50(b *testing.B) {
	g := buildGraph(50)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Clone()
	}
}

func benchmarkCompareVersions(b *testing.B, size int) {
	ctx := context.Background()
	e := graphvc.New()

	va := e.CreateVersion(ctx, "bench", buildGraph(size), "bench", "a")
	edited := buildGraph(size)
	edited.Nodes[0].Config["step"] = -1
	edited.Nodes = append(edited.Nodes, graphvc.Node{ID: "extra", Type: "data", Config: map[string]any{}})
	vb := e.CreateVersion(ctx, "bench", edited, "bench", "b")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.CompareVersions(ctx, va.ID, vb.ID)
	}
}

func BenchmarkCompareVersions_5(b *testing.B)   { benchmarkCompareVersions(b, 5) }
func BenchmarkCompareVersions_50(b *testing.B)  { benchmarkCompareVersions(b, 50) }
func BenchmarkCompareVersions_500(b *testing.B) { benchmarkCompareVersions(b, 500) }

// BenchmarkCompareVersions_Identical measures the checksum fast path.
func BenchmarkCompareVersions_Identical(b *testing.B) {
	ctx := context.Background()
	e := graphvc.New()
	g := buildGraph(50)
	va := e.CreateVersion(ctx, "bench", g, "bench", "a")
	vb := e.CreateVersion(ctx, "bench", g, "bench", "b")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.CompareVersions(ctx, va.ID, vb.ID)
	}
}

func BenchmarkMergeBranches_Clean(b *testing.B) {
	ctx := context.Background()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		e := graphvc.New()
		base := e.CreateVersion(ctx, "bench", buildGraph(20), "bench", "base")
		main := e.CreateBranch(ctx, "bench", "main", base.ID, "bench")
		feature := e.CreateBranch(ctx, "bench", "feature", base.ID, "bench")

		extended := buildGraph(20)
		extended.Nodes = append(extended.Nodes, graphvc.Node{ID: "extra", Type: "data", Config: map[string]any{}})
		head := e.CreateVersion(ctx, "bench", extended, "bench", "extend", graphvc.WithBranch("feature"))
		e.UpdateBranchHead(ctx, feature.ID, head.ID)
		b.StartTimer()

		e.MergeBranches(ctx, feature.ID, main.ID, "bench", graphvc.MergeSourceWins)
	}
}
