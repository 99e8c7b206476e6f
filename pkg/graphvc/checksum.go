package graphvc

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Checksum computes a stable 64-bit content hash of a graph.
//
// The graph is canonicalized first (nodes and edges sorted by id), so
// insertion order never changes the checksum. xxhash is well
// distributed, which makes checksum equality a reliable fast-path
// equality signal; structural comparison remains the authority.
func Checksum(g *Graph) string {
	if g == nil {
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(g.canonical()))
}
