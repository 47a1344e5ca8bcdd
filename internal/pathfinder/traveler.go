package pathfinder

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/fieldrover/internal/ctxlog"
	"github.com/specialistvlad/fieldrover/internal/geo"
	"github.com/specialistvlad/fieldrover/internal/graph"
	"github.com/specialistvlad/fieldrover/internal/metrics"
)

// DefaultStepDelay models the time it takes the rover to reach the next waypoint.
const DefaultStepDelay = time.Second

// Positioner is the rover state a Traveler moves.
type Positioner interface {
	Location() geo.Node
	SetLocation(n geo.Node)
}

// Traveler moves a rover along shortest routes.
type Traveler struct {
	graph     graph.Reader
	rover     Positioner
	stepDelay time.Duration
	metrics   *metrics.Registry
}

// NewTraveler returns a Traveler over g. A non-positive stepDelay falls back to
// DefaultStepDelay.
func NewTraveler(g graph.Reader, rover Positioner, stepDelay time.Duration, m *metrics.Registry) *Traveler {
	if stepDelay <= 0 {
		stepDelay = DefaultStepDelay
	}
	return &Traveler{graph: g, rover: rover, stepDelay: stepDelay, metrics: m}
}

// Goto plans a route from the rover's current location to destination and
// walks it, one waypoint per step. It returns once the rover is at the
// destination. A routing failure leaves the rover where it was.
//
// A goto in progress is not interrupted by new commands; ctx only ends it
// when the controller is shutting down.
func (t *Traveler) Goto(ctx context.Context, destination geo.Node) error {
	logger := ctxlog.FromContext(ctx).With("destination", destination.String())

	start := t.rover.Location()
	route, err := ShortestPath(start, destination, t.graph)
	if err != nil {
		t.metrics.RouteFailures.Inc()
		return err
	}
	t.metrics.RouteLength.Observe(float64(len(route)))
	logger.Debug("Route planned.", "from", start.String(), "waypoints", len(route), "cost", route.Cost(t.graph))

	for _, node := range route[1:] {
		t.rover.SetLocation(node)
		select {
		case <-time.After(t.stepDelay):
		case <-ctx.Done():
			return fmt.Errorf("travel to %s interrupted at %s: %w", destination, node, ctx.Err())
		}
	}

	logger.Debug("Arrived at destination.")
	return nil
}
