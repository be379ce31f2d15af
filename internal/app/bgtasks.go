package app

import (
	"context"
	"errors"
	"fmt"

	log "go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanet-platform/bgtasks/internal/coordinator"
	"github.com/yanet-platform/bgtasks/internal/host"
	"github.com/yanet-platform/bgtasks/internal/monitoring/metrics/prometheus"
	"github.com/yanet-platform/bgtasks/internal/scheduler"
	"github.com/yanet-platform/bgtasks/internal/server"
	"github.com/yanet-platform/bgtasks/internal/utils/workerpool"
)

// BGTasks is the background operations daemon. It owns the lifecycle host,
// the coordinator registered in it and the server exposing their state.
type BGTasks struct {
	config Config

	registry    *host.Registry
	pool        *workerpool.Pool
	coordinator *coordinator.Coordinator
	reporter    *scheduler.Scheduler
	server      *server.Server

	metrics *prometheus.Provider
	logger  *log.Logger
}

// New creates a new instance of the daemon.
func New(config Config, logger *log.Logger) (*BGTasks, error) {
	config = config.withDefaults()

	provider := prometheus.NewProvider(logger)
	registry := host.NewRegistry(logger)
	pool := workerpool.New()

	tracker, err := coordinator.New(
		registry,
		coordinator.WithLogger(logger),
		coordinator.WithExecutor(pool),
		coordinator.WithMetrics(provider),
		coordinator.WithFailureLogLimit(config.Shutdown.GetFailureLogLimit()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create coordinator: %w", err)
	}

	return &BGTasks{
		config:      config,
		registry:    registry,
		pool:        pool,
		coordinator: tracker,
		reporter:    scheduler.New(*config.Reporter, scheduler.WithJitter()),
		server:      server.New(config.Server, tracker, provider, logger),
		metrics:     provider,
		logger:      logger,
	}, nil
}

// Coordinator returns the background operations coordinator of the daemon.
func (m *BGTasks) Coordinator() *coordinator.Coordinator {
	return m.coordinator
}

// Run starts the daemon and blocks until the context is canceled or one of
// its components fails. Background operations are drained before it returns.
func (m *BGTasks) Run(ctx context.Context) error {
	wg, ctx := errgroup.WithContext(ctx)

	wg.Go(func() error {
		return m.server.Run(ctx)
	})

	// The reporter itself is a background operation, so it is interrupted by
	// the same shutdown signal as all the others.
	err := m.coordinator.Run(func(ctx context.Context) error {
		err := m.reporter.Run(ctx, m.report)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to start reporter: %w", err)
	}

	wg.Go(func() error {
		<-ctx.Done()
		m.stop()
		return ctx.Err()
	})

	return wg.Wait()
}

func (m *BGTasks) report() {
	m.logger.Info(
		"background operations",
		log.Stringer("state", m.coordinator.State()),
		log.Int64("in_flight", m.coordinator.InFlight()),
	)
}

// stop asks every registered object to stop and waits for them to drain
// within the configured timeout.
func (m *BGTasks) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), m.config.Shutdown.GetTimeout())
	defer cancel()

	immediate := m.config.Shutdown.Immediate
	m.logger.Info("stopping background operations", log.Bool("immediate", immediate))

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		m.registry.StopAll(immediate)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
	}

	if err := m.registry.Wait(ctx); err != nil {
		m.logger.Warn(
			"background operations did not drain in time",
			log.Int64("in_flight", m.coordinator.InFlight()),
			log.Error(err),
		)
	} else {
		// Every operation released its unit, only the executor goroutines
		// may still be returning.
		m.pool.Wait()
		m.logger.Info("background operations drained")
	}

	m.server.Stop()
	if err := m.metrics.Shutdown(ctx); err != nil {
		m.logger.Warn("failed to shutdown metrics", log.Error(err))
	}
}
