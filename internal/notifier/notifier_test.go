package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/fieldrover/internal/geo"
	"github.com/specialistvlad/fieldrover/internal/graph"
	"github.com/specialistvlad/fieldrover/internal/metrics"
	"github.com/specialistvlad/fieldrover/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	report Report
	at     time.Time
}

type recordingReporter struct {
	mu      sync.Mutex
	reports []received
}

func (r *recordingReporter) Report(_ context.Context, rep Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, received{report: rep, at: time.Now()})
	return nil
}

func (r *recordingReporter) snapshot() []received {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]received(nil), r.reports...)
}

func runNotifier(t *testing.T, n *Notifier) {
	t.Helper()
	ctx, _ := testutil.Context(t)
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, n.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func waitReported(t *testing.T, n *Notifier) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, n.Wait(ctx))
}

func TestNotifier_ReportsInOrderAndThrottled(t *testing.T) {
	// --- Arrange ---
	const interval = 30 * time.Millisecond
	g := graph.New()
	g.AddEdge(geo.N(0, 0), geo.N(10, 0), 10)
	g.AddNodeName(geo.N(0, 0), "charger")
	g.AddNodeName(geo.N(10, 0), "path-main-wp-1")
	g.AddNodeName(geo.N(10, 0), "field-a-row-01")

	rec := &recordingReporter{}
	n := New(g, interval, metrics.NewRegistry(), rec)

	// --- Act ---
	// Published back-to-back, before the consumer starts.
	n.Publish(geo.N(10, 0))
	n.Publish(geo.N(0, 0))
	n.Publish(geo.N(0, 0))
	assert.Equal(t, 3, n.Len())

	runNotifier(t, n)
	waitReported(t, n)

	// --- Assert ---
	reports := rec.snapshot()
	require.Len(t, reports, 3)

	assert.Equal(t, geo.N(10, 0), reports[0].report.Node)
	assert.Equal(t, []string{"path-main-wp-1", "field-a-row-01"}, reports[0].report.Labels)
	assert.Equal(t, geo.N(0, 0), reports[1].report.Node)
	assert.Equal(t, []string{"charger"}, reports[1].report.Labels)
	assert.Equal(t, geo.N(0, 0), reports[2].report.Node, "duplicates are preserved")

	for i := 1; i < len(reports); i++ {
		assert.Equal(t, reports[i-1].report.Seq+1, reports[i].report.Seq)
		gap := reports[i].at.Sub(reports[i-1].at)
		assert.GreaterOrEqual(t, gap, interval, "report %d came %s after the previous one", i, gap)
	}
}

func TestNotifier_UnnamedNode(t *testing.T) {
	rec := &recordingReporter{}
	n := New(graph.New(), time.Millisecond, metrics.NewRegistry(), rec)
	runNotifier(t, n)

	n.Publish(geo.N(5, 5))
	waitReported(t, n)

	reports := rec.snapshot()
	require.Len(t, reports, 1)
	assert.Empty(t, reports[0].report.Labels)
}

func TestNotifier_ReporterFailureDoesNotStopLoop(t *testing.T) {
	failing := ReporterFunc(func(context.Context, Report) error { return errors.New("endpoint down") })
	rec := &recordingReporter{}
	n := New(nil, time.Millisecond, metrics.NewRegistry(), failing, rec)
	runNotifier(t, n)

	n.Publish(geo.N(1, 1))
	n.Publish(geo.N(2, 2))
	waitReported(t, n)

	assert.Len(t, rec.snapshot(), 2)
}

func TestNotifier_DefaultInterval(t *testing.T) {
	n := New(nil, 0, metrics.NewRegistry())
	assert.Equal(t, DefaultInterval, n.interval)
}

func TestWriterReporter(t *testing.T) {
	buf := &testutil.SafeBuffer{}
	r := NewWriterReporter(buf)

	require.NoError(t, r.Report(context.Background(), Report{
		Event:  Event{Node: geo.N(0, 100)},
		Labels: []string{"path-main-wp-2", "field-a-row-01"},
	}))
	require.NoError(t, r.Report(context.Background(), Report{Event: Event{Node: geo.N(3, 4)}}))

	assert.Equal(t, "(0, 100) [path-main-wp-2 field-a-row-01]\n(3, 4) []\n", buf.String())
}

func TestSocketIOReporter_EmitsPayload(t *testing.T) {
	var (
		gotEvent   string
		gotPayload map[string]any
		closed     bool
	)
	r := newSocketIOReporter("location",
		func(ev string, p map[string]any) { gotEvent, gotPayload = ev, p },
		func() { closed = true },
	)

	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.Report(context.Background(), Report{
		Event:  Event{Seq: 7, Node: geo.N(10, 20), At: at},
		Labels: []string{"field-a-row-02"},
	}))

	assert.Equal(t, "location", gotEvent)
	assert.Equal(t, map[string]any{
		"seq":    uint64(7),
		"x":      10,
		"y":      20,
		"labels": []string{"field-a-row-02"},
		"at":     "2026-10-18T12:00:00Z",
	}, gotPayload)

	require.NoError(t, r.Close())
	assert.True(t, closed)
}

func TestLocationPayload_NilLabels(t *testing.T) {
	p := locationPayload(Report{Event: Event{Node: geo.N(1, 2)}})
	assert.Equal(t, []string{}, p["labels"])
}

func TestDialSocketIO_BadURL(t *testing.T) {
	ctx, _ := testutil.Context(t)
	_, err := DialSocketIO(ctx, SocketIOConfig{URL: "://nope"})
	assert.ErrorContains(t, err, "failed to parse telemetry URL")
}
