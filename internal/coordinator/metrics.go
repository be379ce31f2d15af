package coordinator

import (
	"github.com/yanet-platform/bgtasks/internal/monitoring/metrics"
)

const namespace = "bgtasks"

// Metrics holds the metrics reported by a Coordinator.
type Metrics struct {
	started  metrics.Counter
	finished metrics.Counter
	failed   metrics.CounterVec
	inFlight metrics.Gauge
	duration metrics.Histogram

	shutdownRequested metrics.Gauge
	drainDuration     metrics.Histogram
}

// NewMetrics creates the coordinator metrics in the given provider.
func NewMetrics(provider metrics.Provider) *Metrics {
	ns := metrics.WithNamespace(namespace)
	return &Metrics{
		started: provider.GetCounter(
			"operations_started_total",
			ns,
			metrics.WithDescription("number of registered background operations"),
		),
		finished: provider.GetCounter(
			"operations_finished_total",
			ns,
			metrics.WithDescription("number of finished background operations"),
		),
		failed: provider.GetCounterVec(
			"operations_failed_total",
			[]string{"reason"},
			ns,
			metrics.WithDescription("number of failed background operations by reason"),
		),
		inFlight: provider.GetGauge(
			"in_flight",
			ns,
			metrics.WithDescription("number of running background operations"),
		),
		duration: provider.GetHistogram(
			"operation_duration_seconds",
			[]float64{0.01, 0.1, 1, 10, 60, 300},
			ns,
			metrics.WithDescription("observe background operation duration"),
		),
		shutdownRequested: provider.GetGauge(
			"shutdown_requested",
			ns,
			metrics.WithDescription("set to 1 once the host requested shutdown"),
		),
		drainDuration: provider.GetHistogram(
			"drain_duration_seconds",
			[]float64{0.1, 1, 5, 10, 30, 60},
			ns,
			metrics.WithDescription("observe time between shutdown request and drain"),
		),
	}
}
