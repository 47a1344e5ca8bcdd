package pathfinder

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/specialistvlad/fieldrover/internal/geo"
	"github.com/specialistvlad/fieldrover/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortestPath_PrefersCheaperDetourUntilDirectEdgeExists(t *testing.T) {
	g := graph.New()
	g.AddEdge(geo.N(0, 0), geo.N(10, 0), 10)
	g.AddEdge(geo.N(10, 0), geo.N(10, 10), 10)

	route, err := ShortestPath(geo.N(0, 0), geo.N(10, 10), g)
	require.NoError(t, err)
	assert.Equal(t, Route{geo.N(0, 0), geo.N(10, 0), geo.N(10, 10)}, route)
	assert.Equal(t, 20.0, route.Cost(g))

	g.AddEdge(geo.N(0, 0), geo.N(10, 10), 5)

	route, err = ShortestPath(geo.N(0, 0), geo.N(10, 10), g)
	require.NoError(t, err)
	assert.Equal(t, Route{geo.N(0, 0), geo.N(10, 10)}, route)
	assert.Equal(t, 5.0, route.Cost(g))
}

func TestShortestPath_SameNode(t *testing.T) {
	g := graph.New()
	g.AddEdge(geo.N(0, 0), geo.N(1, 0), 1)

	route, err := ShortestPath(geo.N(1, 0), geo.N(1, 0), g)
	require.NoError(t, err)
	assert.Equal(t, Route{geo.N(1, 0)}, route)
	assert.Zero(t, route.Cost(g))

	// Holds even for a location the graph does not know.
	route, err = ShortestPath(geo.N(9, 9), geo.N(9, 9), g)
	require.NoError(t, err)
	assert.Equal(t, Route{geo.N(9, 9)}, route)
}

func TestShortestPath_NoRoute(t *testing.T) {
	g := graph.New()
	g.AddEdge(geo.N(0, 0), geo.N(1, 0), 1)
	g.AddEdge(geo.N(50, 50), geo.N(51, 50), 1)
	g.AddNode(geo.N(99, 99))

	cases := map[string]struct {
		from, to geo.Node
	}{
		"disconnected component": {geo.N(0, 0), geo.N(51, 50)},
		"isolated node":          {geo.N(0, 0), geo.N(99, 99)},
		"unknown destination":    {geo.N(0, 0), geo.N(7, 7)},
		"unknown start":          {geo.N(7, 7), geo.N(0, 0)},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			route, err := ShortestPath(tc.from, tc.to, g)
			require.ErrorIs(t, err, ErrNoRoute)
			assert.Nil(t, route)
			assert.Contains(t, err.Error(), tc.from.String())
			assert.Contains(t, err.Error(), tc.to.String())
		})
	}
}

func TestShortestPath_TieBreakIsLexicographic(t *testing.T) {
	// Two equal-cost routes around a square: via (0, 10) or via (10, 0).
	g := graph.New()
	g.AddEdge(geo.N(0, 0), geo.N(10, 0), 10)
	g.AddEdge(geo.N(0, 0), geo.N(0, 10), 10)
	g.AddEdge(geo.N(10, 0), geo.N(10, 10), 10)
	g.AddEdge(geo.N(0, 10), geo.N(10, 10), 10)

	for i := 0; i < 20; i++ {
		route, err := ShortestPath(geo.N(0, 0), geo.N(10, 10), g)
		require.NoError(t, err)
		assert.Equal(t, Route{geo.N(0, 0), geo.N(0, 10), geo.N(10, 10)}, route)
	}
}

func TestShortestPath_DoesNotMutateGraph(t *testing.T) {
	g := graph.New()
	g.AddEdge(geo.N(0, 0), geo.N(1, 0), 1)
	g.AddEdge(geo.N(1, 0), geo.N(2, 0), 1)

	_, err := ShortestPath(geo.N(0, 0), geo.N(2, 0), g)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 2, g.EdgeCount())
}

func TestShortestPath_ConcurrentQueries(t *testing.T) {
	g := graph.New()
	for i := 0; i < 30; i++ {
		g.AddEdge(geo.N(i, 0), geo.N(i+1, 0), 1)
	}

	var wg sync.WaitGroup
	for i := 1; i <= 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			route, err := ShortestPath(geo.N(0, 0), geo.N(i, 0), g)
			assert.NoError(t, err)
			assert.Len(t, route, i+1)
		}(i)
	}
	wg.Wait()
}

// bruteForceCost explores every simple path from `from` and returns the
// cheapest cost to `to`, or +Inf.
func bruteForceCost(g graph.Reader, from, to geo.Node) float64 {
	best := math.Inf(1)
	visited := map[geo.Node]bool{from: true}
	var walk func(n geo.Node, cost float64)
	walk = func(n geo.Node, cost float64) {
		if n == to {
			best = math.Min(best, cost)
			return
		}
		for _, next := range g.Neighbors(n) {
			if visited[next] {
				continue
			}
			w, _ := g.Distance(n, next)
			visited[next] = true
			walk(next, cost+w)
			visited[next] = false
		}
	}
	walk(from, 0)
	return best
}

const propertyNodes = 6

// buildGraph decodes each code into an edge between two of propertyNodes nodes
// with an integer weight in [1, 20].
func buildGraph(codes []int) *graph.Graph {
	g := graph.New()
	for i := 0; i < propertyNodes; i++ {
		g.AddNode(propertyNode(i))
	}
	seen := make(map[[2]int]bool)
	for _, code := range codes {
		a := code % propertyNodes
		b := (code / propertyNodes) % propertyNodes
		w := float64(1 + (code/(propertyNodes*propertyNodes))%20)
		if a == b || seen[[2]int{a, b}] || seen[[2]int{b, a}] {
			continue
		}
		seen[[2]int{a, b}] = true
		g.AddEdge(propertyNode(a), propertyNode(b), w)
	}
	return g
}

func propertyNode(i int) geo.Node {
	return geo.N(i*10, i%3)
}

func TestShortestPath_MatchesBruteForce(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300

	properties := gopter.NewProperties(parameters)
	maxCode := propertyNodes*propertyNodes*20 - 1

	properties.Property("route cost equals the brute-force minimum", prop.ForAll(
		func(codes []int, start, end int) bool {
			g := buildGraph(codes)
			from, to := propertyNode(start), propertyNode(end)
			want := bruteForceCost(g, from, to)

			route, err := ShortestPath(from, to, g)
			if math.IsInf(want, 1) {
				return err != nil && route == nil
			}
			if err != nil {
				return false
			}
			return route[0] == from && route[len(route)-1] == to && route.Cost(g) == want
		},
		gen.SliceOfN(10, gen.IntRange(0, maxCode)),
		gen.IntRange(0, propertyNodes-1),
		gen.IntRange(0, propertyNodes-1),
	))

	properties.Property("routes never revisit a node", prop.ForAll(
		func(codes []int, start, end int) bool {
			route, err := ShortestPath(propertyNode(start), propertyNode(end), buildGraph(codes))
			if err != nil {
				return true
			}
			seen := make(map[geo.Node]bool)
			for _, n := range route {
				if seen[n] {
					return false
				}
				seen[n] = true
			}
			return true
		},
		gen.SliceOfN(10, gen.IntRange(0, maxCode)),
		gen.IntRange(0, propertyNodes-1),
		gen.IntRange(0, propertyNodes-1),
	))

	properties.TestingRun(t)
}

func ExampleShortestPath() {
	g := graph.New()
	g.AddEdge(geo.N(0, 0), geo.N(10, 0), 10)
	g.AddEdge(geo.N(10, 0), geo.N(10, 10), 10)

	route, _ := ShortestPath(geo.N(0, 0), geo.N(10, 10), g)
	fmt.Println(route, route.Cost(g))
	// Output: [(0, 0) (10, 0) (10, 10)] 20
}
