// Package metrics exposes the controller's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all collectors for one controller instance.
type Registry struct {
	// Task pipeline
	TasksEnqueued  prometheus.Counter
	TasksCompleted *prometheus.CounterVec
	TaskDuration   prometheus.Histogram
	TaskQueueDepth prometheus.Gauge

	// Location reporting
	LocationEvents     prometheus.Counter
	LocationQueueDepth prometheus.Gauge

	// Routing
	RouteLength   prometheus.Histogram
	RouteFailures prometheus.Counter

	// Persistence
	PersistenceRetries *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every collector initialized.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initTaskMetrics()
	r.initLocationMetrics()
	r.initRouteMetrics()
	r.initPersistenceMetrics()
	return r
}

func (r *Registry) initTaskMetrics() {
	r.TasksEnqueued = promauto.With(r.registry).NewCounter(prometheus.CounterOpts{
		Name: "fieldrover_tasks_enqueued_total",
		Help: "Total number of tasks accepted by the scheduler",
	})
	r.TasksCompleted = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldrover_tasks_completed_total",
			Help: "Total number of tasks that finished, by outcome",
		},
		[]string{"status"},
	)
	r.TaskDuration = promauto.With(r.registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "fieldrover_task_duration_seconds",
		Help:    "Task execution time in seconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	r.TaskQueueDepth = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "fieldrover_task_queue_depth",
		Help: "Number of tasks waiting to run",
	})
}

func (r *Registry) initLocationMetrics() {
	r.LocationEvents = promauto.With(r.registry).NewCounter(prometheus.CounterOpts{
		Name: "fieldrover_location_events_total",
		Help: "Total number of rover location changes reported",
	})
	r.LocationQueueDepth = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "fieldrover_location_queue_depth",
		Help: "Number of location events waiting to be reported",
	})
}

func (r *Registry) initRouteMetrics() {
	r.RouteLength = promauto.With(r.registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "fieldrover_route_length_nodes",
		Help:    "Number of nodes in planned routes, endpoints included",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
	})
	r.RouteFailures = promauto.With(r.registry).NewCounter(prometheus.CounterOpts{
		Name: "fieldrover_route_failures_total",
		Help: "Total number of route requests with no route",
	})
}

func (r *Registry) initPersistenceMetrics() {
	r.PersistenceRetries = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldrover_persistence_retries_total",
			Help: "Total number of retried world load/save attempts",
		},
		[]string{"op"},
	)
}

// Gatherer returns the underlying Prometheus registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
