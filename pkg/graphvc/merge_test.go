package graphvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forkedWorkflow builds the common fixture: a base version on main
// with one node, plus main and feature branches pointing at it.
func forkedWorkflow(t *testing.T, engine *Engine) (base *Version, main, feature *Branch) {
	t.Helper()
	ctx := context.Background()

	base = engine.CreateVersion(ctx, "wf-1", &Graph{
		Nodes: []Node{{ID: "n1", Type: "data", Config: map[string]any{"label": "base"}}},
	}, "ana", "base")
	require.NotNil(t, base)

	main = engine.CreateBranch(ctx, "wf-1", "main", base.ID, "ana")
	require.NotNil(t, main)
	feature = engine.CreateBranch(ctx, "wf-1", "feature", base.ID, "ana")
	require.NotNil(t, feature)
	return base, main, feature
}

// commitTo commits a graph on a branch and advances its head.
func commitTo(t *testing.T, engine *Engine, b *Branch, g *Graph, name string) *Version {
	t.Helper()
	ctx := context.Background()

	v := engine.CreateVersion(ctx, b.WorkflowID, g, "ana", name,
		WithBranch(b.Name), WithParentVersion(b.HeadVersionID))
	require.NotNil(t, v)
	require.True(t, engine.UpdateBranchHead(ctx, b.ID, v.ID))
	return v
}

// TestMergeBranches_CleanMerge follows the fork-and-extend scenario:
// feature adds n2, main stays put, merging feature into main succeeds
// and the merged graph holds both nodes.
func TestMergeBranches_CleanMerge(t *testing.T) {
	engine := New()
	ctx := context.Background()
	base, main, feature := forkedWorkflow(t, engine)

	commitTo(t, engine, feature, &Graph{
		Nodes: []Node{
			{ID: "n1", Type: "data", Config: map[string]any{"label": "base"}},
			{ID: "n2", Type: "ai"},
		},
	}, "add n2")

	res := engine.MergeBranches(ctx, feature.ID, main.ID, "ana", MergeSourceWins)
	require.NotNil(t, res)
	require.True(t, res.Success, "unexpected merge failure: %s", res.Error)
	assert.Empty(t, res.Conflicts)
	require.NotEmpty(t, res.MergedVersionID)

	merged := engine.GetVersion(res.MergedVersionID)
	require.NotNil(t, merged)
	assert.NotNil(t, merged.Graph.Node("n1"))
	assert.NotNil(t, merged.Graph.Node("n2"))
	assert.Equal(t, "main", merged.Branch)
	assert.Equal(t, base.ID, merged.ParentID)

	// Target branch head advanced to the merged version.
	assert.Equal(t, res.MergedVersionID, engine.GetBranch("wf-1", "main").HeadVersionID)
	// Source branch untouched.
	assert.NotEqual(t, res.MergedVersionID, engine.GetBranch("wf-1", "feature").HeadVersionID)
}

// TestMergeBranches_ConflictCompleteness verifies the conflict
// property: n1 modified differently on each side conflicts, n2
// modified identically on both sides does not.
func TestMergeBranches_ConflictCompleteness(t *testing.T) {
	engine := New()
	ctx := context.Background()

	base := engine.CreateVersion(ctx, "wf-1", &Graph{
		Nodes: []Node{
			{ID: "n1", Type: "data", Config: map[string]any{"label": "base"}},
			{ID: "n2", Type: "data", Config: map[string]any{"label": "base"}},
		},
	}, "ana", "base")
	main := engine.CreateBranch(ctx, "wf-1", "main", base.ID, "ana")
	feature := engine.CreateBranch(ctx, "wf-1", "feature", base.ID, "ana")

	// Both sides rewrite n2 the same way; n1 diverges.
	mainEdit := commitTo(t, engine, main, &Graph{
		Nodes: []Node{
			{ID: "n1", Type: "data", Config: map[string]any{"label": "main-edit"}},
			{ID: "n2", Type: "transform", Config: map[string]any{"label": "agreed"}},
		},
	}, "main edit")
	commitTo(t, engine, feature, &Graph{
		Nodes: []Node{
			{ID: "n1", Type: "data", Config: map[string]any{"label": "feature-edit"}},
			{ID: "n2", Type: "transform", Config: map[string]any{"label": "agreed"}},
		},
	}, "feature edit")

	res := engine.MergeBranches(ctx, feature.ID, main.ID, "ana", MergeSourceWins)
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Empty(t, res.Error)
	require.Len(t, res.Conflicts, 1)

	c := res.Conflicts[0]
	assert.Equal(t, ConflictNode, c.Type)
	assert.Equal(t, "n1", c.NodeID)
	assert.Equal(t, Node{ID: "n1", Type: "data", Config: map[string]any{"label": "main-edit"}}, c.VersionAValue)
	assert.Equal(t, Node{ID: "n1", Type: "data", Config: map[string]any{"label": "feature-edit"}}, c.VersionBValue)

	// A conflicted merge mutates nothing.
	assert.Equal(t, mainEdit.ID, engine.GetBranch("wf-1", "main").HeadVersionID)
}

// TestMergeBranches_TypeConflict covers the divergent-type scenario:
// both branches change n1's type to different values after forking.
func TestMergeBranches_TypeConflict(t *testing.T) {
	engine := New()
	ctx := context.Background()
	_, main, feature := forkedWorkflow(t, engine)

	commitTo(t, engine, main, &Graph{
		Nodes: []Node{{ID: "n1", Type: "transform", Config: map[string]any{"label": "base"}}},
	}, "main retype")
	commitTo(t, engine, feature, &Graph{
		Nodes: []Node{{ID: "n1", Type: "ai", Config: map[string]any{"label": "base"}}},
	}, "feature retype")

	res := engine.MergeBranches(ctx, feature.ID, main.ID, "ana", MergeSourceWins)
	assert.False(t, res.Success)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, "n1", res.Conflicts[0].NodeID)
}

// TestMergeBranches_SourceWins verifies overlapping config fields take
// the source's value while target-only fields survive.
func TestMergeBranches_SourceWins(t *testing.T) {
	engine := New()
	ctx := context.Background()
	_, main, feature := forkedWorkflow(t, engine)

	// Only the source touches n1, so no conflict; the merged node
	// carries the source's label and the target's untouched fields.
	commitTo(t, engine, feature, &Graph{
		Nodes: []Node{{ID: "n1", Type: "data", Config: map[string]any{"label": "renamed", "retries": 3}}},
	}, "feature rename")

	res := engine.MergeBranches(ctx, feature.ID, main.ID, "ana", MergeSourceWins)
	assert.False(t, res.Success, "one-sided modification still reports a head disagreement")
	require.Len(t, res.Conflicts, 1)

	// Resolve and rebuild: callers apply the decision and re-merge.
	require.True(t, engine.ResolveConflict(ctx, res.Conflicts[0].ID, ResolutionSource, nil, "ana"))

	commitTo(t, engine, main, &Graph{
		Nodes: []Node{{ID: "n1", Type: "data", Config: map[string]any{"label": "renamed", "retries": 3}}},
	}, "apply resolution")

	res = engine.MergeBranches(ctx, feature.ID, main.ID, "ana", MergeSourceWins)
	require.True(t, res.Success, "unexpected merge failure: %s", res.Error)
}

// TestSynthesizeMerge exercises the source-wins policy directly.
func TestSynthesizeMerge(t *testing.T) {
	target := &Graph{
		Nodes: []Node{
			{ID: "n1", Type: "data", Config: map[string]any{"label": "target", "timeout": 30}},
			{ID: "n2", Type: "data"},
		},
		Edges: []Edge{{ID: "e1", Source: "n1", Target: "n2"}},
	}
	source := &Graph{
		Nodes: []Node{
			{ID: "n1", Type: "transform", Config: map[string]any{"label": "source"}},
			{ID: "n3", Type: "ai"},
		},
		Edges: []Edge{{ID: "e2", Source: "n1", Target: "n3"}},
	}

	merged := synthesizeMerge(target, source)

	// Union of nodes and edges.
	assert.Len(t, merged.Nodes, 3)
	assert.Len(t, merged.Edges, 2)

	// Source wins on type and overlapping config keys; target-only
	// keys survive.
	n1 := merged.Node("n1")
	require.NotNil(t, n1)
	assert.Equal(t, "transform", n1.Type)
	assert.Equal(t, "source", n1.Config["label"])
	assert.EqualValues(t, 30, n1.Config["timeout"])

	// Inputs untouched.
	assert.Equal(t, "data", target.Nodes[0].Type)
	assert.Len(t, source.Nodes, 2)
}

// TestMergeBranches_StructuralErrors verifies failed results with a
// human-readable error, not panics or conflicts.
func TestMergeBranches_StructuralErrors(t *testing.T) {
	engine := New()
	ctx := context.Background()
	_, main, _ := forkedWorkflow(t, engine)

	otherBase := engine.CreateVersion(ctx, "wf-2", testGraph(), "ana", "other base")
	otherBranch := engine.CreateBranch(ctx, "wf-2", "main", otherBase.ID, "ana")

	testCases := []struct {
		name             string
		sourceID, target string
		wantErr          string
	}{
		{"unknown source", "missing", main.ID, "source branch not found"},
		{"unknown target", main.ID, "missing", "target branch not found"},
		{"cross workflow", otherBranch.ID, main.ID, "branches belong to different workflows"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := engine.MergeBranches(ctx, tc.sourceID, tc.target, "ana", MergeSourceWins)
			require.NotNil(t, res)
			assert.False(t, res.Success)
			assert.Equal(t, tc.wantErr, res.Error)
			assert.Empty(t, res.Conflicts)
		})
	}
}

// TestResolveConflict verifies resolution bookkeeping.
func TestResolveConflict(t *testing.T) {
	engine := New()
	ctx := context.Background()
	_, main, feature := forkedWorkflow(t, engine)

	commitTo(t, engine, main, &Graph{
		Nodes: []Node{{ID: "n1", Type: "transform", Config: map[string]any{"label": "base"}}},
	}, "main edit")
	commitTo(t, engine, feature, &Graph{
		Nodes: []Node{{ID: "n1", Type: "ai", Config: map[string]any{"label": "base"}}},
	}, "feature edit")

	res := engine.MergeBranches(ctx, feature.ID, main.ID, "ana", MergeSourceWins)
	require.False(t, res.Success)
	require.Len(t, res.Conflicts, 1)
	conflictID := res.Conflicts[0].ID

	require.True(t, engine.ResolveConflict(ctx, conflictID, ResolutionCustom, map[string]any{"type": "loop"}, "root"))

	resolved := engine.GetConflict(conflictID)
	require.NotNil(t, resolved)
	assert.Equal(t, ResolutionCustom, resolved.Resolution)
	assert.Equal(t, map[string]any{"type": "loop"}, resolved.CustomValue)
	assert.Equal(t, "root", resolved.ResolvedBy)
	require.NotNil(t, resolved.ResolvedAt)

	// Resolution records a decision; it does not retry the merge.
	assert.Equal(t, res.Conflicts[0].VersionAValue, resolved.VersionAValue)

	assert.False(t, engine.ResolveConflict(ctx, "missing", ResolutionSource, nil, "root"))
	assert.Nil(t, engine.GetConflict("missing"))
}

// TestMergeConfigs covers the map overlay helper.
func TestMergeConfigs(t *testing.T) {
	target := map[string]any{"a": 1, "b": map[string]any{"x": 1, "y": 2}}
	source := map[string]any{"b": map[string]any{"x": 9}, "c": 3}

	out := mergeConfigs(target, source)
	assert.EqualValues(t, 1, out["a"])
	assert.EqualValues(t, 3, out["c"])
	nested, ok := out["b"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 9, nested["x"])
	assert.EqualValues(t, 2, nested["y"])

	assert.Equal(t, source, mergeConfigs(nil, source))
	assert.Equal(t, target, mergeConfigs(target, nil))
}
