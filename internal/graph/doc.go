// Package graph stores the field's location graph: the set of known nodes,
// undirected weighted edges between them, and the human-readable labels
// attached to each node.
//
// # Lifecycle
//
//  1. **Build:** the world loader replays every path and field row sequence
//     through AddEdge and AddNodeName.
//  2. **Query:** once built, the graph is only read. Route planning,
//     location reporting and the inspection commands all borrow it.
//
// There are no removal operations. A graph that needs to change is rebuilt
// from the world model.
//
// # Edges
//
// Every edge is stored in both directions with the same weight:
//
//	g.AddEdge(geo.N(0, 0), geo.N(10, 0), 10)
//	g.Neighbors(geo.N(10, 0)) // [(0, 0)]
//	g.Distance(geo.N(10, 0), geo.N(0, 0)) // 10, true
//
// Adding the same pair twice produces parallel adjacency entries. The loader
// never does this; other callers must avoid it unless the duplicate traversal
// cost is intended.
//
// # Thread-Safety
//
// Building is not synchronised and must complete before the graph is shared.
// After that, all read methods are safe for concurrent use. The spatial index
// behind Nearest is built lazily under its own lock.
package graph
