package coordinator

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	log "go.uber.org/zap"

	"github.com/yanet-platform/bgtasks/internal/monitoring/metrics/prometheus"
)

// TestCoordinator_Metrics verifies that the coordinator reports started,
// finished and failed operations as well as the shutdown gauge.
func TestCoordinator_Metrics(t *testing.T) {
	provider := prometheus.NewProvider(log.NewNop())
	coordinator, _ := newCoordinator(t, WithMetrics(provider), WithFailureHandler(IgnoreFailures))

	require.NoError(t, coordinator.Run(func(context.Context) error { return nil }))
	require.NoError(t, coordinator.Run(func(context.Context) error { return errors.New("failed") }))
	require.NoError(t, coordinator.Run(func(context.Context) error { panic("boom") }))
	coordinator.Stop(true)

	gatherer := provider.Gather()
	count, err := testutil.GatherAndCount(gatherer, "bgtasks_operations_failed_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per failure reason")

	families, err := gatherer.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				values[family.GetName()] += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[family.GetName()] = metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				values[family.GetName()] = float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}

	assert.Equal(t, 3.0, values["bgtasks_operations_started_total"])
	assert.Equal(t, 3.0, values["bgtasks_operations_finished_total"])
	assert.Equal(t, 2.0, values["bgtasks_operations_failed_total"])
	assert.Equal(t, 0.0, values["bgtasks_in_flight"])
	assert.Equal(t, 1.0, values["bgtasks_shutdown_requested"])
	assert.Equal(t, 3.0, values["bgtasks_operation_duration_seconds"])
	assert.Equal(t, 1.0, values["bgtasks_drain_duration_seconds"])
}
