package graphvc

import "time"

// Metadata is derived from a graph snapshot when a version is created.
// All fields are computed; callers never set them directly.
type Metadata struct {
	NodeCount int `json:"nodeCount"`
	EdgeCount int `json:"edgeCount"`

	// Complexity is the node count plus a penalty of 2 per branching or
	// looping node, plus, for every node connected by more than three
	// edges, one point per connection beyond the third.
	Complexity int `json:"complexity"`

	// EstimatedExecutionTime sums a fixed per-node-type cost. The costs
	// are budgeting heuristics, not measurements.
	EstimatedExecutionTime time.Duration `json:"estimatedExecutionTime"`

	LastModified time.Time `json:"lastModified"`

	// Checksum is a stable hash of the canonicalized graph, used as a
	// fast pre-check before structural comparison.
	Checksum string `json:"checksum"`
}

// Node types that carry a branching/looping complexity penalty.
var branchingNodeTypes = map[string]bool{
	"conditional": true,
	"switch":      true,
	"loop":        true,
}

// Per-node-type execution cost estimates.
var nodeCostTable = map[string]time.Duration{
	"data":        100 * time.Millisecond,
	"transform":   100 * time.Millisecond,
	"conditional": 50 * time.Millisecond,
	"switch":      50 * time.Millisecond,
	"loop":        500 * time.Millisecond,
	"ai":          2000 * time.Millisecond,
	"agent":       2000 * time.Millisecond,
}

const defaultNodeCost = 100 * time.Millisecond

// ComputeMetadata derives statistics for a graph snapshot.
// It is pure: same graph in, same metadata out (modulo LastModified,
// which is stamped with the given time).
func ComputeMetadata(g *Graph, now time.Time) Metadata {
	md := Metadata{
		NodeCount:    len(g.Nodes),
		EdgeCount:    len(g.Edges),
		LastModified: now,
		Checksum:     Checksum(g),
	}

	connections := make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges {
		connections[e.Source]++
		connections[e.Target]++
	}

	complexity := len(g.Nodes)
	var estimate time.Duration
	for _, n := range g.Nodes {
		if branchingNodeTypes[n.Type] {
			complexity += 2
		}
		if c := connections[n.ID]; c > 3 {
			complexity += c - 3
		}
		cost, ok := nodeCostTable[n.Type]
		if !ok {
			cost = defaultNodeCost
		}
		estimate += cost
	}
	md.Complexity = complexity
	md.EstimatedExecutionTime = estimate
	return md
}
