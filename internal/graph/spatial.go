package graph

import (
	"github.com/dhconnelly/rtreego"
	"github.com/specialistvlad/fieldrover/internal/geo"
)

// pointTolerance gives each node a tiny bounding box; rtreego rejects
// zero-length rectangles.
const pointTolerance = 0.01

// nearestCandidates is how many neighbours are fetched to find the best
// distance. Ties beyond these are collected by tiedAt.
const nearestCandidates = 4

// nodeEntry wraps a node for R-tree storage.
type nodeEntry struct {
	node geo.Node
	bbox rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *nodeEntry) Bounds() rtreego.Rect {
	return e.bbox
}

type spatialIndex struct {
	tree *rtreego.Rtree
}

func newSpatialIndex(nodes map[geo.Node]struct{}) *spatialIndex {
	tree := rtreego.NewTree(2, 25, 50)
	for n := range nodes {
		tree.Insert(&nodeEntry{
			node: n,
			bbox: toPoint(n).ToRect(pointTolerance),
		})
	}
	return &spatialIndex{tree: tree}
}

func toPoint(n geo.Node) rtreego.Point {
	return rtreego.Point{float64(n.X), float64(n.Y)}
}

func (g *Graph) invalidateIndex() {
	g.indexMu.Lock()
	g.index = nil
	g.indexMu.Unlock()
}

// Nearest returns the known node closest to p. Equally distant candidates are
// ordered by coordinates. It returns false when the graph is empty.
func (g *Graph) Nearest(p geo.Node) (geo.Node, bool) {
	if len(g.nodes) == 0 {
		return geo.Node{}, false
	}
	if _, ok := g.nodes[p]; ok {
		return p, true
	}

	g.indexMu.Lock()
	if g.index == nil {
		g.index = newSpatialIndex(g.nodes)
	}
	idx := g.index
	g.indexMu.Unlock()

	var (
		best     geo.Node
		bestDist float64
		found    bool
	)
	for _, item := range idx.tree.NearestNeighbors(nearestCandidates, toPoint(p)) {
		if item == nil {
			continue
		}
		n := item.(*nodeEntry).node
		d := n.Distance(p)
		if !found || d < bestDist || (d == bestDist && n.Less(best)) {
			best, bestDist, found = n, d, true
		}
	}
	if !found {
		return geo.Node{}, false
	}
	return idx.tiedAt(p, bestDist, best), true
}

// tiedAt returns the lowest node, by coordinates, lying exactly dist away from
// p. fallback is returned when the search finds nothing better.
func (idx *spatialIndex) tiedAt(p geo.Node, dist float64, fallback geo.Node) geo.Node {
	half := dist + pointTolerance
	box, err := rtreego.NewRect(
		rtreego.Point{float64(p.X) - half, float64(p.Y) - half},
		[]float64{2 * half, 2 * half},
	)
	if err != nil {
		return fallback
	}
	best := fallback
	for _, item := range idx.tree.SearchIntersect(box) {
		n := item.(*nodeEntry).node
		if n.Distance(p) == dist && n.Less(best) {
			best = n
		}
	}
	return best
}
