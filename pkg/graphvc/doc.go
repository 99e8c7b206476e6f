/*
Package graphvc is a version-control engine for workflow graphs.

# Overview

graphvc snapshots directed graphs of typed nodes and edges as
immutable versions, tracks named branches over that history, computes
structural diffs between any two versions, detects merge conflicts,
and performs branch merges and rollbacks. It is a single-process,
in-memory history engine: persistence, HTTP, and rendering belong to
the caller. An optional archive gives write-through durability.

# Basic Usage

Create an engine, commit a graph, edit, and compare:

	engine := graphvc.New()

	g := &graphvc.Graph{
	    Nodes: []graphvc.Node{{ID: "fetch", Type: "data"}},
	}
	v1 := engine.CreateVersion(ctx, "wf-1", g, "ana", "initial")

	g.Nodes = append(g.Nodes, graphvc.Node{ID: "score", Type: "ai"})
	v2 := engine.CreateVersion(ctx, "wf-1", g, "ana", "add scoring",
	    graphvc.WithParentVersion(v1.ID))

	diff := engine.CompareVersions(ctx, v1.ID, v2.ID)
	// diff.AddedNodes == ["score"]

# Branching and Merging

Branches are named pointers into one workflow's history. Merging takes
the source branch's head into the target branch; overlapping edits
surface as conflicts on a failed result rather than errors:

	feature := engine.CreateBranch(ctx, "wf-1", "feature", v2.ID, "ana")
	// ... commit to the feature branch, then:
	res := engine.MergeBranches(ctx, feature.ID, main.ID, "ana", graphvc.MergeSourceWins)
	if !res.Success {
	    // res.Conflicts holds one entry per overlapping edit.
	    // Resolve each, commit the resolution, and merge again.
	}

# History Invariants

Versions are immutable and never deleted. Rollback appends a new
version holding the old graph; nothing is rewritten. At most one
version per workflow is active at a time.
*/
package graphvc
