package graphvc

import "time"

// Diff is the structural delta from version A (base) to version B
// (target): which nodes and edges were added, removed, or modified,
// plus a normalized change list.
//
// Conflicts is populated only during merge evaluation; a plain
// two-version comparison always leaves it empty.
type Diff struct {
	VersionAID string `json:"versionAId"`
	VersionBID string `json:"versionBId"`

	AddedNodes    []string `json:"addedNodes"`
	RemovedNodes  []string `json:"removedNodes"`
	ModifiedNodes []string `json:"modifiedNodes"`
	AddedEdges    []string `json:"addedEdges"`
	RemovedEdges  []string `json:"removedEdges"`
	ModifiedEdges []string `json:"modifiedEdges"`

	Changes   []Change       `json:"changes"`
	Conflicts []ConflictInfo `json:"conflicts,omitempty"`
}

// ConflictType scopes what a conflict disagrees about.
type ConflictType string

const (
	ConflictNode     ConflictType = "node"
	ConflictEdge     ConflictType = "edge"
	ConflictProperty ConflictType = "property"
)

// Resolution records how a conflict was settled.
type Resolution string

const (
	ResolutionSource Resolution = "source"
	ResolutionTarget Resolution = "target"
	ResolutionCustom Resolution = "custom"
)

// ConflictInfo is one unresolved disagreement between two sides of a
// merge. VersionAValue holds the target side, VersionBValue the source
// side. The resolution fields stay zero until a caller resolves it.
type ConflictInfo struct {
	ID       string       `json:"id"`
	Type     ConflictType `json:"type"`
	NodeID   string       `json:"nodeId,omitempty"`
	EdgeID   string       `json:"edgeId,omitempty"`
	Property string       `json:"property,omitempty"`

	VersionAValue any `json:"versionAValue"`
	VersionBValue any `json:"versionBValue"`

	Resolution  Resolution `json:"resolution,omitempty"`
	CustomValue any        `json:"customValue,omitempty"`
	ResolvedBy  string     `json:"resolvedBy,omitempty"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
}

// diffGraphs computes the structural delta between two graphs.
// Iteration is over sorted ids, so the output is reproducible:
// added nodes, then modified, then removed, then the same for edges,
// each group in ascending id order.
func diffGraphs(a, b *Graph) *Diff {
	d := &Diff{
		AddedNodes:    []string{},
		RemovedNodes:  []string{},
		ModifiedNodes: []string{},
		AddedEdges:    []string{},
		RemovedEdges:  []string{},
		ModifiedEdges: []string{},
		Changes:       []Change{},
	}

	nodesA := a.nodeIndex()
	nodesB := b.nodeIndex()

	for _, id := range sortedKeys(nodesB) {
		nb := nodesB[id]
		na, ok := nodesA[id]
		switch {
		case !ok:
			d.AddedNodes = append(d.AddedNodes, id)
			d.Changes = append(d.Changes, Change{
				Type:     ChangeNodeAdded,
				NodeID:   id,
				NewValue: nb,
			})
		case !nodesEqual(na, nb):
			d.ModifiedNodes = append(d.ModifiedNodes, id)
			d.Changes = append(d.Changes, Change{
				Type:     ChangeNodeModified,
				NodeID:   id,
				OldValue: na,
				NewValue: nb,
			})
		}
	}
	for _, id := range sortedKeys(nodesA) {
		if _, ok := nodesB[id]; !ok {
			d.RemovedNodes = append(d.RemovedNodes, id)
			d.Changes = append(d.Changes, Change{
				Type:     ChangeNodeRemoved,
				NodeID:   id,
				OldValue: nodesA[id],
			})
		}
	}

	edgesA := a.edgeIndex()
	edgesB := b.edgeIndex()

	for _, id := range sortedKeys(edgesB) {
		eb := edgesB[id]
		ea, ok := edgesA[id]
		switch {
		case !ok:
			d.AddedEdges = append(d.AddedEdges, id)
			d.Changes = append(d.Changes, Change{
				Type:     ChangeEdgeAdded,
				EdgeID:   id,
				NewValue: eb,
			})
		case !edgesEqual(ea, eb):
			d.ModifiedEdges = append(d.ModifiedEdges, id)
			d.Changes = append(d.Changes, Change{
				Type:     ChangeEdgeModified,
				EdgeID:   id,
				OldValue: ea,
				NewValue: eb,
			})
		}
	}
	for _, id := range sortedKeys(edgesA) {
		if _, ok := edgesB[id]; !ok {
			d.RemovedEdges = append(d.RemovedEdges, id)
			d.Changes = append(d.Changes, Change{
				Type:     ChangeEdgeRemoved,
				EdgeID:   id,
				OldValue: edgesA[id],
			})
		}
	}

	return d
}
