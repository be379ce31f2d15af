// Package prometheus implements the metrics provider on top of the
// Prometheus client library.
package prometheus

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "go.uber.org/zap"

	"github.com/yanet-platform/bgtasks/internal/monitoring/metrics"
)

type Provider struct {
	registry *prometheus.Registry

	counters    *Registry[prometheus.Counter]
	gauges      *Registry[prometheus.Gauge]
	histograms  *Registry[prometheus.Histogram]
	countersVec *Registry[*CounterVec]

	log *log.Logger
}

var _ metrics.Metrics = (*Provider)(nil)

func NewProvider(logger *log.Logger) *Provider {
	registry := prometheus.NewRegistry()
	return &Provider{
		registry:    registry,
		counters:    newRegistry[prometheus.Counter](registry),
		gauges:      newRegistry[prometheus.Gauge](registry),
		histograms:  newRegistry[prometheus.Histogram](registry),
		countersVec: newRegistry[*CounterVec](registry),
		log:         logger.With(log.String("metrics_provider", "prometheus")),
	}
}

func (m *Provider) GetCounter(name string, opts ...metrics.MetricOption) metrics.Counter {
	options := metrics.ApplyOpts(opts)
	fqName := prometheus.BuildFQName(options.Namespace, "", name)

	counter, err := m.counters.GetOrCreateMetric(fqName, func() prometheus.Counter {
		return prometheus.NewCounter(
			prometheus.CounterOpts{
				Name:        fqName,
				Help:        options.Description,
				ConstLabels: prometheus.Labels(options.ConstLabels),
			},
		)
	})
	if err != nil {
		m.log.Error("failed to create counter", log.String("name", fqName), log.Error(err))
		return &metrics.NopCounter{}
	}

	return counter
}

func (m *Provider) GetGauge(name string, opts ...metrics.MetricOption) metrics.Gauge {
	options := metrics.ApplyOpts(opts)
	fqName := prometheus.BuildFQName(options.Namespace, "", name)

	gauge, err := m.gauges.GetOrCreateMetric(fqName, func() prometheus.Gauge {
		return prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        fqName,
				Help:        options.Description,
				ConstLabels: prometheus.Labels(options.ConstLabels),
			},
		)
	})
	if err != nil {
		m.log.Error("failed to create gauge", log.String("name", fqName), log.Error(err))
		return &metrics.NopGauge{}
	}

	return gauge
}

func (m *Provider) GetHistogram(name string, buckets []float64, opts ...metrics.MetricOption) metrics.Histogram {
	options := metrics.ApplyOpts(opts)
	fqName := prometheus.BuildFQName(options.Namespace, "", name)

	histogram, err := m.histograms.GetOrCreateMetric(fqName, func() prometheus.Histogram {
		return prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:        fqName,
				Help:        options.Description,
				Buckets:     buckets,
				ConstLabels: prometheus.Labels(options.ConstLabels),
			},
		)
	})
	if err != nil {
		m.log.Error("failed to create histogram", log.String("name", fqName), log.Error(err))
		return &metrics.NopHistogram{}
	}

	return histogram
}

func (m *Provider) GetCounterVec(name string, labelNames []string, opts ...metrics.MetricOption) metrics.CounterVec {
	options := metrics.ApplyOpts(opts)
	fqName := prometheus.BuildFQName(options.Namespace, "", name)

	counterVec, err := m.countersVec.GetOrCreateMetric(fqName, func() *CounterVec {
		return newCounterVec(
			prometheus.CounterOpts{
				Name:        fqName,
				Help:        options.Description,
				ConstLabels: prometheus.Labels(options.ConstLabels),
			},
			labelNames,
			m.log,
		)
	})
	if err != nil {
		m.log.Error("failed to create counter vector", log.String("name", fqName), log.Error(err))
		return &metrics.NopCounterVec{}
	}

	return counterVec
}

// UnregisterMetric removes the metric with the given fully qualified name.
func (m *Provider) UnregisterMetric(metricType metrics.MetricType, name string) {
	switch metricType {
	case metrics.CounterMetric:
		m.counters.DeleteMetric(name)
	case metrics.GaugeMetric:
		m.gauges.DeleteMetric(name)
	case metrics.HistogramMetric:
		m.histograms.DeleteMetric(name)
	case metrics.CounterVecMetric:
		m.countersVec.DeleteMetric(name)
	default:
		m.log.Error("unknown metric type", log.String("type", metricType.String()))
	}
}

func (m *Provider) GetHTTPHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gather exposes the underlying registry gatherer. Used for testing.
func (m *Provider) Gather() prometheus.Gatherer {
	return m.registry
}

// Shutdown stops the metrics provider and releases resources
func (m *Provider) Shutdown(_ context.Context) error {
	m.counters.Shutdown()
	m.gauges.Shutdown()
	m.histograms.Shutdown()
	m.countersVec.Shutdown()

	return nil
}
