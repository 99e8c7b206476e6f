package graphvc

import "time"

// ChangeType classifies one atomic structural edit.
type ChangeType string

const (
	ChangeNodeAdded       ChangeType = "node_added"
	ChangeNodeRemoved     ChangeType = "node_removed"
	ChangeNodeModified    ChangeType = "node_modified"
	ChangeEdgeAdded       ChangeType = "edge_added"
	ChangeEdgeRemoved     ChangeType = "edge_removed"
	ChangeEdgeModified    ChangeType = "edge_modified"
	ChangePropertyChanged ChangeType = "property_changed"
)

// Change is one atomic edit recorded against a version, or one entry
// in a computed diff. Recorded changes get an ID and timestamp when
// appended to a version's log; diff entries carry neither, so the same
// comparison always produces byte-identical output.
//
// Logs are append-only and entries are never mutated.
type Change struct {
	ID          string     `json:"id,omitempty"`
	VersionID   string     `json:"versionId,omitempty"`
	Type        ChangeType `json:"type"`
	NodeID      string     `json:"nodeId,omitempty"`
	EdgeID      string     `json:"edgeId,omitempty"`
	Property    string     `json:"property,omitempty"`
	OldValue    any        `json:"oldValue,omitempty"`
	NewValue    any        `json:"newValue,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
	Author      string     `json:"author,omitempty"`
	Description string     `json:"description,omitempty"`
}

// isModification reports whether the change rewrites an existing
// node or edge in place, the only change kind that can conflict.
func (c Change) isModification() bool {
	return c.Type == ChangeNodeModified || c.Type == ChangeEdgeModified
}
