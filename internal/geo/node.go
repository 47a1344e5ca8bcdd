// Package geo holds the coordinate type shared by the graph, routes and the
// rover's logical position.
package geo

import (
	"fmt"
	"math"
)

// Node is a location in the field, identified by its integer coordinates.
// Nodes are compared by value and are safe to use as map keys.
type Node struct {
	X int
	Y int
}

// N is shorthand for constructing a Node.
func N(x, y int) Node {
	return Node{X: x, Y: y}
}

// Distance returns the Euclidean distance between two nodes.
func (n Node) Distance(other Node) float64 {
	dx := float64(n.X - other.X)
	dy := float64(n.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Less orders nodes lexicographically, X first.
func (n Node) Less(other Node) bool {
	if n.X != other.X {
		return n.X < other.X
	}
	return n.Y < other.Y
}

func (n Node) String() string {
	return fmt.Sprintf("(%d, %d)", n.X, n.Y)
}

// FromPair converts a decoded two-element coordinate into a Node.
func FromPair(pair []int) (Node, error) {
	if len(pair) != 2 {
		return Node{}, fmt.Errorf("coordinate must have exactly 2 elements, got %d", len(pair))
	}
	return Node{X: pair[0], Y: pair[1]}, nil
}

// Pair is the inverse of FromPair.
func (n Node) Pair() []int {
	return []int{n.X, n.Y}
}
