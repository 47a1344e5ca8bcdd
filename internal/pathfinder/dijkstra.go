package pathfinder

import (
	"errors"
	"fmt"
	"math"

	"github.com/specialistvlad/fieldrover/internal/geo"
	"github.com/specialistvlad/fieldrover/internal/graph"
)

// ErrNoRoute is returned when the destination cannot be reached from the start.
var ErrNoRoute = errors.New("no route exists")

// Route is an ordered list of nodes from a start to a destination, both included.
type Route []geo.Node

// Cost sums the edge weights along the route. It returns +Inf if two
// consecutive nodes are not joined by an edge in g.
func (r Route) Cost(g graph.Reader) float64 {
	total := 0.0
	for i := 1; i < len(r); i++ {
		d, ok := g.Distance(r[i-1], r[i])
		if !ok {
			return math.Inf(1)
		}
		total += d
	}
	return total
}

func noRoute(from, to geo.Node) error {
	return fmt.Errorf("%w from %s to %s", ErrNoRoute, from, to)
}

// ShortestPath returns the cheapest route from `from` to `to` over g.
func ShortestPath(from, to geo.Node, g graph.Reader) (Route, error) {
	if from == to {
		return Route{from}, nil
	}

	unvisited := g.Nodes()
	if _, ok := unvisited[from]; !ok {
		return nil, noRoute(from, to)
	}
	if _, ok := unvisited[to]; !ok {
		return nil, noRoute(from, to)
	}

	distances := make(map[geo.Node]float64, len(unvisited))
	for n := range unvisited {
		distances[n] = math.Inf(1)
	}
	distances[from] = 0
	breadcrumbs := make(map[geo.Node]geo.Node, len(unvisited))

	reached := false
	for len(unvisited) > 0 {
		current := closest(unvisited, distances)
		if math.IsInf(distances[current], 1) {
			// Everything left is disconnected from the start.
			break
		}
		delete(unvisited, current)

		if current == to {
			reached = true
			break
		}

		for _, neighbor := range g.Neighbors(current) {
			if _, open := unvisited[neighbor]; !open {
				continue
			}
			weight, ok := g.Distance(current, neighbor)
			if !ok {
				continue
			}
			if candidate := distances[current] + weight; candidate < distances[neighbor] {
				distances[neighbor] = candidate
				breadcrumbs[neighbor] = current
			}
		}
	}
	if !reached {
		return nil, noRoute(from, to)
	}

	route := Route{to}
	for node := to; node != from; {
		prev, ok := breadcrumbs[node]
		if !ok {
			return nil, noRoute(from, to)
		}
		route = append(route, prev)
		node = prev
	}

	for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
		route[i], route[j] = route[j], route[i]
	}
	return route, nil
}

// closest picks the unvisited node with the smallest known distance, breaking
// ties lexicographically on coordinates. unvisited must not be empty.
func closest(unvisited map[geo.Node]struct{}, distances map[geo.Node]float64) geo.Node {
	var (
		best  geo.Node
		first = true
	)
	for n := range unvisited {
		if first {
			best, first = n, false
			continue
		}
		d, bd := distances[n], distances[best]
		if d < bd || (d == bd && n.Less(best)) {
			best = n
		}
	}
	return best
}
