package graph

import "github.com/specialistvlad/fieldrover/internal/geo"

// Reader is the read-only view of a built graph. Route planning and location
// reporting depend on this instead of *Graph so tests can supply fixtures.
type Reader interface {
	// Nodes returns a copy of the known node set.
	Nodes() map[geo.Node]struct{}
	// Neighbors returns the adjacency list of n, in insertion order.
	Neighbors(n geo.Node) []geo.Node
	// Distance returns the weight of the edge from a to b.
	Distance(a, b geo.Node) (float64, bool)
	// Names returns the labels attached to n.
	Names(n geo.Node) []string
}

// compile-time check
var _ Reader = (*Graph)(nil)
