package graphvc

import (
	"sort"

	json "github.com/goccy/go-json"
)

// Node is a single step in a workflow graph.
// The engine inspects only ID and Type; everything else a node carries
// (prompts, endpoints, retry policy, layout) lives in Config and is
// compared by value, never interpreted.
type Node struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Config map[string]any `json:"config,omitempty"`
}

// Edge is a directed, typed connection between two nodes.
type Edge struct {
	ID     string         `json:"id"`
	Source string         `json:"source"`
	Target string         `json:"target"`
	Type   string         `json:"type,omitempty"`
	Config map[string]any `json:"config,omitempty"`
}

// Graph is the versioned payload: a set of typed nodes and typed edges
// with stable string identifiers. Node and edge IDs must be unique
// within a graph; the engine keys all diffing and merging on them.
//
// Graph values handed to the engine are never retained or aliased:
// every operation that stores a graph stores a deep copy.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Clone returns a deep, independent copy of the graph.
// Mutating the original after Clone never affects the copy.
func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}
	// JSON round-trip gives value semantics for the opaque Config maps
	// without enumerating every payload shape.
	data, err := json.Marshal(g)
	if err != nil {
		// Graphs are plain data; marshal can only fail on values that
		// were never valid graph payloads (channels, funcs).
		panic("graphvc: graph is not serializable: " + err.Error())
	}
	var out Graph
	if err := json.Unmarshal(data, &out); err != nil {
		panic("graphvc: graph round-trip failed: " + err.Error())
	}
	return &out
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// Edge returns the edge with the given id, or nil.
func (g *Graph) Edge(id string) *Edge {
	for i := range g.Edges {
		if g.Edges[i].ID == id {
			return &g.Edges[i]
		}
	}
	return nil
}

// nodeIndex builds an id -> node map. Later duplicates win, matching
// the behavior of editors that re-emit a node on update.
func (g *Graph) nodeIndex() map[string]Node {
	idx := make(map[string]Node, len(g.Nodes))
	for _, n := range g.Nodes {
		idx[n.ID] = n
	}
	return idx
}

func (g *Graph) edgeIndex() map[string]Edge {
	idx := make(map[string]Edge, len(g.Edges))
	for _, e := range g.Edges {
		idx[e.ID] = e
	}
	return idx
}

// canonical returns the graph serialized with nodes and edges sorted
// by id, so two structurally identical graphs with different insertion
// order serialize to identical bytes. Used for checksums and equality.
func (g *Graph) canonical() []byte {
	c := g.Clone()
	sort.Slice(c.Nodes, func(i, j int) bool { return c.Nodes[i].ID < c.Nodes[j].ID })
	sort.Slice(c.Edges, func(i, j int) bool { return c.Edges[i].ID < c.Edges[j].ID })
	data, err := json.Marshal(c)
	if err != nil {
		panic("graphvc: graph is not serializable: " + err.Error())
	}
	return data
}

// valueEqual reports deep value equality of two opaque payloads by
// comparing their JSON encodings. Map key order does not matter:
// goccy/go-json, like encoding/json, emits map keys sorted.
func valueEqual(a, b any) bool {
	da, err := json.Marshal(a)
	if err != nil {
		return false
	}
	db, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(da) == string(db)
}

func nodesEqual(a, b Node) bool {
	return a.ID == b.ID && a.Type == b.Type && valueEqual(a.Config, b.Config)
}

func edgesEqual(a, b Edge) bool {
	return a.ID == b.ID && a.Source == b.Source && a.Target == b.Target &&
		a.Type == b.Type && valueEqual(a.Config, b.Config)
}

// sortedKeys returns map keys in ascending order. Diff output must be
// reproducible, so all map iteration in the engine goes through this.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
