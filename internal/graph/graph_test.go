package graph

import (
	"sync"
	"testing"

	"github.com/specialistvlad/fieldrover/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.Zero(t, g.Len())
	assert.Zero(t, g.EdgeCount())
	assert.Empty(t, g.Nodes())
}

func TestAddEdge(t *testing.T) {
	t.Run("stores both directions", func(t *testing.T) {
		g := New()
		a, b := geo.N(0, 0), geo.N(10, 0)

		g.AddEdge(a, b, 10)

		assert.True(t, g.HasNode(a))
		assert.True(t, g.HasNode(b))
		assert.Equal(t, []geo.Node{b}, g.Neighbors(a))
		assert.Equal(t, []geo.Node{a}, g.Neighbors(b))

		d, ok := g.Distance(a, b)
		require.True(t, ok)
		assert.Equal(t, 10.0, d)
		d, ok = g.Distance(b, a)
		require.True(t, ok)
		assert.Equal(t, 10.0, d)
		assert.Equal(t, 1, g.EdgeCount())
	})

	t.Run("node registration is idempotent", func(t *testing.T) {
		g := New()
		g.AddEdge(geo.N(0, 0), geo.N(1, 0), 1)
		g.AddEdge(geo.N(1, 0), geo.N(2, 0), 1)
		assert.Equal(t, 3, g.Len())
		assert.ElementsMatch(t, []geo.Node{geo.N(0, 0), geo.N(2, 0)}, g.Neighbors(geo.N(1, 0)))
	})

	t.Run("repeated pair creates parallel entries", func(t *testing.T) {
		g := New()
		g.AddEdge(geo.N(0, 0), geo.N(1, 0), 1)
		g.AddEdge(geo.N(0, 0), geo.N(1, 0), 1)
		assert.Len(t, g.Neighbors(geo.N(0, 0)), 2)
		assert.Equal(t, 2, g.EdgeCount())
	})

	t.Run("missing edge", func(t *testing.T) {
		g := New()
		g.AddEdge(geo.N(0, 0), geo.N(1, 0), 1)
		_, ok := g.Distance(geo.N(0, 0), geo.N(5, 5))
		assert.False(t, ok)
		assert.Empty(t, g.Neighbors(geo.N(5, 5)))
	})
}

func TestAddNode(t *testing.T) {
	g := New()
	g.AddNode(geo.N(3, 3))
	g.AddNode(geo.N(3, 3))
	assert.Equal(t, 1, g.Len())
	assert.Empty(t, g.Neighbors(geo.N(3, 3)))
}

func TestAddNodeName(t *testing.T) {
	g := New()
	n := geo.N(5, 5)

	assert.Empty(t, g.Names(n))

	g.AddNodeName(n, "path-a-wp1")
	g.AddNodeName(n, "field-b-row-01")
	g.AddNodeName(n, "field-b-row-01")

	assert.Equal(t, []string{"path-a-wp1", "field-b-row-01", "field-b-row-01"}, g.Names(n))
}

func TestNodes_ReturnsCopy(t *testing.T) {
	g := New()
	g.AddEdge(geo.N(0, 0), geo.N(1, 1), 1.4)

	nodes := g.Nodes()
	delete(nodes, geo.N(0, 0))

	assert.True(t, g.HasNode(geo.N(0, 0)))
	assert.Equal(t, 2, g.Len())
}

func TestNearest(t *testing.T) {
	g := New()
	g.AddEdge(geo.N(0, 0), geo.N(100, 0), 100)
	g.AddEdge(geo.N(100, 0), geo.N(100, 100), 100)

	t.Run("exact match", func(t *testing.T) {
		n, ok := g.Nearest(geo.N(100, 0))
		require.True(t, ok)
		assert.Equal(t, geo.N(100, 0), n)
	})

	t.Run("closest node", func(t *testing.T) {
		n, ok := g.Nearest(geo.N(90, 80))
		require.True(t, ok)
		assert.Equal(t, geo.N(100, 100), n)
	})

	t.Run("ties resolve to lowest coordinates", func(t *testing.T) {
		n, ok := g.Nearest(geo.N(50, 0))
		require.True(t, ok)
		assert.Equal(t, geo.N(0, 0), n)
	})

	t.Run("many ties resolve to lowest coordinates", func(t *testing.T) {
		ring := New()
		// Twelve lattice points five units from the origin.
		for _, n := range []geo.Node{
			geo.N(5, 0), geo.N(4, 3), geo.N(3, 4), geo.N(0, 5),
			geo.N(-3, 4), geo.N(-4, 3), geo.N(-5, 0), geo.N(-4, -3),
			geo.N(-3, -4), geo.N(0, -5), geo.N(3, -4), geo.N(4, -3),
		} {
			ring.AddNode(n)
		}
		ring.AddNode(geo.N(40, 40))

		for i := 0; i < 50; i++ {
			n, ok := ring.Nearest(geo.N(0, 0))
			require.True(t, ok)
			require.Equal(t, geo.N(-5, 0), n)
		}
	})

	t.Run("index refreshes after mutation", func(t *testing.T) {
		g.AddEdge(geo.N(100, 100), geo.N(50, 50), 70.7)
		n, ok := g.Nearest(geo.N(49, 52))
		require.True(t, ok)
		assert.Equal(t, geo.N(50, 50), n)
	})

	t.Run("empty graph", func(t *testing.T) {
		_, ok := New().Nearest(geo.N(1, 1))
		assert.False(t, ok)
	})
}

func TestConcurrentReads(t *testing.T) {
	g := New()
	for i := 0; i < 50; i++ {
		g.AddEdge(geo.N(i, 0), geo.N(i+1, 0), 1)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, ok := g.Nearest(geo.N(i*5, 3))
			assert.True(t, ok)
			assert.Equal(t, geo.N(i*5, 0), n)
			assert.NotEmpty(t, g.Neighbors(n))
		}(i)
	}
	wg.Wait()
}
