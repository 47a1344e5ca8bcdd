package graph

import (
	"sync"

	"github.com/specialistvlad/fieldrover/internal/geo"
)

type edgeKey struct {
	from geo.Node
	to   geo.Node
}

// Graph is the write-once location graph. The zero value is not usable; call New.
type Graph struct {
	nodes     map[geo.Node]struct{}
	edges     map[geo.Node][]geo.Node
	distances map[edgeKey]float64
	names     map[geo.Node][]string

	indexMu sync.Mutex
	index   *spatialIndex
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes:     make(map[geo.Node]struct{}),
		edges:     make(map[geo.Node][]geo.Node),
		distances: make(map[edgeKey]float64),
		names:     make(map[geo.Node][]string),
	}
}

// AddEdge registers both nodes, links them in both directions and records the
// distance for both directions.
func (g *Graph) AddEdge(from, to geo.Node, distance float64) {
	g.nodes[from] = struct{}{}
	g.nodes[to] = struct{}{}
	g.edges[from] = append(g.edges[from], to)
	g.edges[to] = append(g.edges[to], from)
	g.distances[edgeKey{from, to}] = distance
	g.distances[edgeKey{to, from}] = distance
	g.invalidateIndex()
}

// AddNode registers a node with no edges. Loading uses this for isolated
// locations such as a charger that is not on any path.
func (g *Graph) AddNode(n geo.Node) {
	if _, ok := g.nodes[n]; ok {
		return
	}
	g.nodes[n] = struct{}{}
	g.invalidateIndex()
}

// AddNodeName appends label to the node's label list. Labels are not deduplicated.
func (g *Graph) AddNodeName(n geo.Node, label string) {
	g.names[n] = append(g.names[n], label)
}

// Nodes implements Reader.
func (g *Graph) Nodes() map[geo.Node]struct{} {
	out := make(map[geo.Node]struct{}, len(g.nodes))
	for n := range g.nodes {
		out[n] = struct{}{}
	}
	return out
}

// HasNode reports whether n is part of the graph.
func (g *Graph) HasNode(n geo.Node) bool {
	_, ok := g.nodes[n]
	return ok
}

// Len returns the number of known nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// EdgeCount returns the number of adjacency entries divided by two, i.e. the
// number of undirected edges including parallel ones.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, adj := range g.edges {
		total += len(adj)
	}
	return total / 2
}

// Neighbors implements Reader.
func (g *Graph) Neighbors(n geo.Node) []geo.Node {
	return g.edges[n]
}

// Distance implements Reader.
func (g *Graph) Distance(a, b geo.Node) (float64, bool) {
	d, ok := g.distances[edgeKey{a, b}]
	return d, ok
}

// Names implements Reader. A node may carry zero, one or several labels; more
// than one means paths or fields intersect there.
func (g *Graph) Names(n geo.Node) []string {
	return g.names[n]
}
