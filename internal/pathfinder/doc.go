// Package pathfinder plans and drives rover movement over the location graph.
//
// ShortestPath is a classic single-source Dijkstra:
//
//   - it works on a copy of the graph's node set, so the graph is never
//     mutated and concurrent queries against one graph are safe;
//   - the next node is chosen by a linear scan for the smallest known
//     distance (O(V²), fine for a few hundred nodes); ties go to the node
//     with the lowest X, then the lowest Y;
//   - the search stops as soon as the destination is selected;
//   - an unreachable destination yields ErrNoRoute, never a partial route.
//
// Traveler.Goto combines a route with the rover's position, advancing it one
// waypoint per step with a fixed delay between steps.
package pathfinder
