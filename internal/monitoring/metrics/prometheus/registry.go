package prometheus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry keeps collectors of a single kind by name, registering each one in
// the shared prometheus registry the first time it is requested.
type Registry[T prometheus.Collector] struct {
	registry *prometheus.Registry
	metrics  map[string]T
	mu       sync.Mutex
}

type MetricConstructorFunc[T prometheus.Collector] func() T

func newRegistry[T prometheus.Collector](registry *prometheus.Registry) *Registry[T] {
	return &Registry[T]{
		registry: registry,
		metrics:  make(map[string]T),
	}
}

// GetOrCreateMetric returns the collector registered under name, creating and
// registering it with constructor when it does not exist yet.
func (m *Registry[T]) GetOrCreateMetric(name string, constructor MetricConstructorFunc[T]) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if metric, exists := m.metrics[name]; exists {
		return metric, nil
	}

	metric := constructor()
	if err := m.registry.Register(metric); err != nil {
		return metric, err
	}
	m.metrics[name] = metric

	return metric, nil
}

func (m *Registry[T]) DeleteMetric(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	metric, exists := m.metrics[name]
	if !exists {
		return
	}
	m.registry.Unregister(metric)
	delete(m.metrics, name)
}

// Shutdown unregisters every collector kept by the registry.
func (m *Registry[T]) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, metric := range m.metrics {
		m.registry.Unregister(metric)
	}
	clear(m.metrics)
}
