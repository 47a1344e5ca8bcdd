package world

import (
	"context"
	"fmt"

	"github.com/specialistvlad/fieldrover/internal/ctxlog"
	"github.com/specialistvlad/fieldrover/internal/geo"
	"github.com/specialistvlad/fieldrover/internal/graph"
)

// ChargerLabel is the label given to the charger node.
const ChargerLabel = "charger"

// BuildGraph replays the world into a location graph. Consecutive waypoints
// of a path, and consecutive rows of a field, become edges weighted by their
// Euclidean distance. Every waypoint is labelled "<path>-<waypoint>", every
// row "<field>-<row>", and the charger "charger".
//
// charger is used when the document has no charger entry of its own.
func BuildGraph(ctx context.Context, doc *Document, charger geo.Node) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	g := graph.New()

	if doc.World.Charger != nil {
		n, err := doc.World.Charger.Location.Node()
		if err != nil {
			return nil, fmt.Errorf("charger: %w", err)
		}
		charger = n
	}
	g.AddNode(charger)
	g.AddNodeName(charger, ChargerLabel)

	for _, pathName := range doc.World.Paths.Keys() {
		waypoints, _ := doc.World.Paths.Get(pathName)
		if waypoints.Len() == 0 {
			logger.Warn("Path has no waypoints, skipping.", "path", pathName)
			continue
		}
		err := chain(g, waypoints.Keys(), func(name string) (geo.Node, string, error) {
			c, _ := waypoints.Get(name)
			n, err := c.Node()
			return n, pathName + "-" + name, err
		})
		if err != nil {
			return nil, fmt.Errorf("path %s: %w", pathName, err)
		}
	}

	for _, fieldName := range doc.World.Fields.Keys() {
		field, _ := doc.World.Fields.Get(fieldName)
		if field.Rows.Len() == 0 {
			logger.Warn("Field has no rows, skipping.", "field", fieldName)
			continue
		}
		err := chain(g, field.Rows.Keys(), func(name string) (geo.Node, string, error) {
			r, _ := field.Rows.Get(name)
			n, err := r.Location.Node()
			return n, fieldName + "-" + name, err
		})
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fieldName, err)
		}
	}

	logger.Debug("Location graph built.", "nodes", g.Len(), "edges", g.EdgeCount())
	return g, nil
}

// chain adds one labelled node per name and links each to the previous one.
func chain(g *graph.Graph, names []string, resolve func(name string) (geo.Node, string, error)) error {
	var prev geo.Node
	for i, name := range names {
		n, label, err := resolve(name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		g.AddNode(n)
		g.AddNodeName(n, label)
		if i > 0 {
			g.AddEdge(prev, n, prev.Distance(n))
		}
		prev = n
	}
	return nil
}
