// Package notifier reports rover location changes at a throttled rate.
//
// Every location change is published as an Event onto an unbounded FIFO
// queue. A single consumer (Run) takes one event at a time, resolves the
// node's labels, hands the result to every Reporter, then sleeps for the
// configured interval before taking the next one. Reports are therefore
// spaced at least one interval apart no matter how fast the rover moves.
//
// Nothing is dropped or coalesced: when production outruns the interval the
// queue simply grows. Duplicate events (the same node twice in a row) are
// reported like any other.
package notifier

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/fieldrover/internal/ctxlog"
	"github.com/specialistvlad/fieldrover/internal/geo"
	"github.com/specialistvlad/fieldrover/internal/metrics"
	"github.com/specialistvlad/fieldrover/internal/queue"
)

// DefaultInterval is the minimum spacing between two reports.
const DefaultInterval = time.Second

// Event is an immutable snapshot of one location change.
type Event struct {
	Seq  uint64
	Node geo.Node
	At   time.Time
}

// Report is an Event resolved for display.
type Report struct {
	Event
	Labels []string
}

// Reporter delivers reports somewhere: the operator console, a telemetry
// endpoint, a test recorder.
type Reporter interface {
	Report(ctx context.Context, r Report) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, r Report) error

// Report implements Reporter.
func (f ReporterFunc) Report(ctx context.Context, r Report) error {
	return f(ctx, r)
}

// NameResolver looks up the labels of a node. *graph.Graph satisfies it.
type NameResolver interface {
	Names(n geo.Node) []string
}

// Notifier owns the location event queue and its consumer.
type Notifier struct {
	queue     *queue.Queue[Event]
	names     NameResolver
	reporters []Reporter
	interval  time.Duration
	metrics   *metrics.Registry
	seq       atomic.Uint64
}

// New creates a Notifier. A non-positive interval falls back to DefaultInterval.
func New(names NameResolver, interval time.Duration, m *metrics.Registry, reporters ...Reporter) *Notifier {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Notifier{
		queue:     queue.New[Event](),
		names:     names,
		reporters: reporters,
		interval:  interval,
		metrics:   m,
	}
}

// Publish enqueues a location change. It never blocks.
func (n *Notifier) Publish(node geo.Node) {
	n.queue.Put(Event{
		Seq:  n.seq.Add(1),
		Node: node,
		At:   time.Now(),
	})
	n.metrics.LocationQueueDepth.Set(float64(n.queue.Len()))
}

// Run consumes events until ctx is cancelled. It returns nil on cancellation.
func (n *Notifier) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Location notifier started.", "interval", n.interval)
	defer logger.Debug("Location notifier stopped.")

	for {
		ev, err := n.queue.Get(ctx)
		if err != nil {
			return nil
		}
		n.metrics.LocationQueueDepth.Set(float64(n.queue.Len()))

		report := Report{Event: ev, Labels: n.labels(ev.Node)}
		for _, r := range n.reporters {
			if err := r.Report(ctx, report); err != nil {
				logger.Warn("Location reporter failed.", "seq", ev.Seq, "node", ev.Node.String(), "error", err)
			}
		}
		n.metrics.LocationEvents.Inc()
		n.queue.Done()

		select {
		case <-time.After(n.interval):
		case <-ctx.Done():
			return nil
		}
	}
}

func (n *Notifier) labels(node geo.Node) []string {
	if n.names == nil {
		return nil
	}
	names := n.names.Names(node)
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Len returns the number of events waiting to be reported.
func (n *Notifier) Len() int {
	return n.queue.Len()
}

// Wait blocks until every published event has been reported or ctx ends.
func (n *Notifier) Wait(ctx context.Context) error {
	return n.queue.Join(ctx)
}
