package graphvc

import (
	"dario.cat/mergo"

	"github.com/google/uuid"
)

// MergeStrategy names the policy used to synthesize a merged graph.
// Only source-wins is implemented; the parameter exists so callers can
// record intent and future strategies keep the same contract.
type MergeStrategy string

const (
	// MergeSourceWins takes the source branch's value wherever both
	// sides carry the same node or edge, and unions everything else.
	MergeSourceWins MergeStrategy = "source_wins"
)

// MergeResult is the outcome of a merge attempt.
//
// Conflicts are not errors: a failed result with a populated Conflicts
// list is a normal terminal state awaiting caller-driven resolution.
// Error is set only for structural problems (unknown branch, branches
// from different workflows, missing head version).
type MergeResult struct {
	Success         bool           `json:"success"`
	MergedVersionID string         `json:"mergedVersionId,omitempty"`
	Conflicts       []ConflictInfo `json:"conflicts,omitempty"`
	Changes         []Change       `json:"changes,omitempty"`
	Error           string         `json:"error,omitempty"`
}

// classifyConflicts turns the modifications in a head-to-head diff
// into conflicts. The diff compares target-head (A) against
// source-head (B), so every surviving *_modified change is a
// disagreement between the two heads: edits made identically on both
// sides compare equal and never reach here. There is no three-way
// comparison against a common ancestor; a node changed on only one
// side since the fork is reported as a conflict too.
func classifyConflicts(d *Diff) []ConflictInfo {
	var conflicts []ConflictInfo
	for _, c := range d.Changes {
		if !c.isModification() {
			continue
		}
		info := ConflictInfo{
			ID:            uuid.NewString(),
			VersionAValue: c.OldValue,
			VersionBValue: c.NewValue,
		}
		if c.Type == ChangeNodeModified {
			info.Type = ConflictNode
			info.NodeID = c.NodeID
		} else {
			info.Type = ConflictEdge
			info.EdgeID = c.EdgeID
		}
		conflicts = append(conflicts, info)
	}
	return conflicts
}

// synthesizeMerge builds the merged graph for a conflict-free merge.
//
// Policy is source wins: nodes and edges present on both sides keep
// the source's type and wiring, with config maps merged so source
// fields override target fields and target-only fields survive.
// Anything present on exactly one side is carried over unchanged.
// Output order is deterministic: target order first, then source-only
// entries in source order.
func synthesizeMerge(target, source *Graph) *Graph {
	merged := target.Clone()
	src := source.Clone()

	targetNodes := make(map[string]int, len(merged.Nodes))
	for i, n := range merged.Nodes {
		targetNodes[n.ID] = i
	}
	for _, sn := range src.Nodes {
		i, ok := targetNodes[sn.ID]
		if !ok {
			merged.Nodes = append(merged.Nodes, sn)
			continue
		}
		merged.Nodes[i] = Node{
			ID:     sn.ID,
			Type:   sn.Type,
			Config: mergeConfigs(merged.Nodes[i].Config, sn.Config),
		}
	}

	targetEdges := make(map[string]int, len(merged.Edges))
	for i, e := range merged.Edges {
		targetEdges[e.ID] = i
	}
	for _, se := range src.Edges {
		i, ok := targetEdges[se.ID]
		if !ok {
			merged.Edges = append(merged.Edges, se)
			continue
		}
		merged.Edges[i] = Edge{
			ID:     se.ID,
			Source: se.Source,
			Target: se.Target,
			Type:   se.Type,
			Config: mergeConfigs(merged.Edges[i].Config, se.Config),
		}
	}

	return merged
}

// mergeConfigs overlays source onto target, source winning on any
// overlapping key, nested maps merged recursively.
func mergeConfigs(target, source map[string]any) map[string]any {
	if len(target) == 0 {
		return source
	}
	if len(source) == 0 {
		return target
	}
	out := make(map[string]any, len(target))
	for k, v := range target {
		out[k] = v
	}
	if err := mergo.Merge(&out, source, mergo.WithOverride); err != nil {
		// mergo only fails on type mismatches at the top level, which
		// two map[string]any values cannot produce; fall back to the
		// source side to honor the policy regardless.
		return source
	}
	return out
}
