package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_AllCollectorsRegistered(t *testing.T) {
	r := NewRegistry()

	r.TasksEnqueued.Inc()
	r.TasksCompleted.WithLabelValues("ok").Inc()
	r.TaskDuration.Observe(0.2)
	r.TaskQueueDepth.Set(3)
	r.LocationEvents.Inc()
	r.LocationQueueDepth.Set(1)
	r.RouteLength.Observe(4)
	r.RouteFailures.Inc()
	r.PersistenceRetries.WithLabelValues("load").Inc()

	families, err := r.Gatherer().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"fieldrover_tasks_enqueued_total",
		"fieldrover_tasks_completed_total",
		"fieldrover_task_duration_seconds",
		"fieldrover_task_queue_depth",
		"fieldrover_location_events_total",
		"fieldrover_location_queue_depth",
		"fieldrover_route_length_nodes",
		"fieldrover_route_failures_total",
		"fieldrover_persistence_retries_total",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
}

func TestRegistriesAreIsolated(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()
	a.TasksEnqueued.Inc()

	families, err := b.Gatherer().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "fieldrover_tasks_enqueued_total" {
			assert.Zero(t, f.GetMetric()[0].GetCounter().GetValue())
		}
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.LocationEvents.Add(2)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fieldrover_location_events_total 2")
}

func TestTasksCompleted_LabelledByStatus(t *testing.T) {
	r := NewRegistry()
	r.TasksCompleted.WithLabelValues("failed").Inc()
	r.TasksCompleted.WithLabelValues("failed").Inc()

	counter, err := r.TasksCompleted.GetMetricWithLabelValues("failed")
	require.NoError(t, err)

	var metric dto.Metric
	require.NoError(t, counter.Write(&metric))
	assert.Equal(t, 2.0, metric.GetCounter().GetValue())
}
