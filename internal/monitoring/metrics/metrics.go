// Package metrics declares the metric types used by bgtasks components,
// independent of the backend that collects them.
package metrics

import (
	"context"
	"fmt"
	"net/http"
)

// Metrics is a metrics provider that can also expose what it collected.
type Metrics interface {
	Provider
	Gatherer
}

// Provider creates (or returns already created) metrics by name.
type Provider interface {
	GetCounter(name string, opts ...MetricOption) Counter
	GetGauge(name string, opts ...MetricOption) Gauge
	GetHistogram(name string, buckets []float64, opts ...MetricOption) Histogram
	GetCounterVec(name string, labelNames []string, opts ...MetricOption) CounterVec

	UnregisterMetric(metricType MetricType, name string)
	Shutdown(ctx context.Context) error
}

// Gatherer exposes collected metrics over HTTP.
type Gatherer interface {
	GetHTTPHandler() http.Handler
}

type Counter interface {
	Inc()
	Add(float64)
}

type Gauge interface {
	Inc()
	Dec()
	Add(float64)
	Sub(float64)
	Set(float64)
}

type Histogram interface {
	Observe(float64)
}

type Labels map[string]string

type CounterVec interface {
	GetMetricWith(Labels) Counter
	Delete(Labels)
}

type MetricType int

const (
	CounterMetric MetricType = iota + 1
	GaugeMetric
	HistogramMetric
	CounterVecMetric
)

func (m MetricType) String() string {
	switch m {
	case CounterMetric:
		return "counter"
	case GaugeMetric:
		return "gauge"
	case HistogramMetric:
		return "histogram"
	case CounterVecMetric:
		return "counter_vec"
	default:
		return fmt.Sprintf("unknown(%d)", m)
	}
}
