// Package coordinator tracks fire-and-forget background operations on behalf
// of a lifecycle host and delays the host's shutdown until they finish.
//
// A Coordinator registers itself with the host on creation. Its countdown
// starts with one unit held by the coordinator itself, so it cannot settle
// while the host is running. Every operation passed to Run or RunAsync holds
// another unit for as long as it runs. When the host calls Stop, the shutdown
// signal is set and the coordinator's own unit is released; once the last
// operation returns, the coordinator unregisters from the host.
//
// Operations learn about the shutdown cooperatively through the context they
// receive, which is canceled when shutdown is requested. Nothing is
// forcibly interrupted.
package coordinator

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	log "go.uber.org/zap"

	"github.com/yanet-platform/bgtasks/internal/host"
	"github.com/yanet-platform/bgtasks/internal/utils/countdown"
	"github.com/yanet-platform/bgtasks/internal/utils/shutdown"
	"github.com/yanet-platform/bgtasks/internal/utils/workerpool"
)

// Operation is a synchronous unit of background work. The context is
// canceled once shutdown is requested.
type Operation func(ctx context.Context) error

// AsyncOperation is an asynchronous unit of background work. It starts the
// work and returns a channel that yields the result or is closed when the
// work completes. A nil channel means the work already completed.
type AsyncOperation func(ctx context.Context) <-chan error

// Coordinator tracks background operations and keeps its host from
// completing shutdown until all of them are finished.
type Coordinator struct {
	host      host.Host
	signal    *shutdown.Shutdown
	countdown *countdown.Countdown
	drained   chan struct{} // closed after the countdown settled and the host released the coordinator

	inFlight     atomic.Int64
	draining     atomic.Bool
	shutdownTime time.Time // written once, before the bias unit is released

	executor  workerpool.Executor
	onFailure FailureHandler
	metrics   *Metrics
	logger    *log.Logger
}

var _ host.Object = (*Coordinator)(nil)

// New creates a Coordinator and registers it with the host.
func New(host host.Host, opts ...Option) (*Coordinator, error) {
	options := newOptions(opts)

	// The initial unit is released when the shutdown is requested.
	count, err := countdown.New(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create countdown: %w", err)
	}

	m := &Coordinator{
		host:      host,
		signal:    shutdown.New(),
		countdown: count,
		drained:   make(chan struct{}),
		executor:  options.executor,
		metrics:   NewMetrics(options.metrics),
		logger:    options.logger,
	}
	m.onFailure = options.onFailure
	if m.onFailure == nil {
		m.onFailure = logFailures(options.failureLogLimit, m.logger)
	}

	// Runs on the goroutine that performed the last decrement. Attached
	// before registering, since the host may stop the object right away.
	m.countdown.OnSettle(m.deregister)

	host.RegisterObject(m)

	return m, nil
}

// Shutdown returns a context that is canceled once the shutdown is requested.
// Operations may poll or select on it to stop early.
func (m *Coordinator) Shutdown() context.Context {
	return m.signal.Context()
}

// ShutdownDone returns a channel that is closed once the shutdown is
// requested.
func (m *Coordinator) ShutdownDone() <-chan struct{} {
	return m.signal.Done()
}

// ShutdownRequested reports whether the host requested shutdown.
func (m *Coordinator) ShutdownRequested() bool {
	return m.signal.Requested()
}

// Run registers the operation and executes it in the background. The caller
// is never blocked, and the result of the operation is reported only to the
// failure handler. An error is returned only if the coordinator has already
// drained, in which case the operation is not executed.
func (m *Coordinator) Run(operation Operation) error {
	return m.register(operation)
}

// RunAsync registers the asynchronous operation and executes it in the
// background like Run does. The operation holds the coordinator open until
// the channel it returned yields a value or is closed.
func (m *Coordinator) RunAsync(operation AsyncOperation) error {
	return m.register(func(ctx context.Context) error {
		result := operation(ctx)
		if result == nil {
			return nil
		}
		return <-result
	})
}

func (m *Coordinator) register(operation Operation) error {
	// The unit must be taken before the operation is scheduled, otherwise a
	// fast operation could release it before it was taken.
	if err := m.countdown.Increment(); err != nil {
		return fmt.Errorf("failed to register operation: %w", err)
	}

	m.inFlight.Add(1)
	m.metrics.started.Inc()
	m.metrics.inFlight.Inc()

	start := time.Now()
	m.executor.Execute(func() {
		defer m.complete(start)

		if err := m.invoke(operation); err != nil {
			m.fail(err)
		}
	})

	return nil
}

// invoke runs the operation, converting a panic into an error.
func (m *Coordinator) invoke(operation Operation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	return operation(m.signal.Context())
}

func (m *Coordinator) fail(err error) {
	m.metrics.failed.GetMetricWith(failureLabels(err)).Inc()
	m.onFailure(err)
}

// complete releases the unit held by an operation.
func (m *Coordinator) complete(start time.Time) {
	m.metrics.duration.Observe(time.Since(start).Seconds())
	m.metrics.finished.Inc()
	m.metrics.inFlight.Dec()
	m.inFlight.Add(-1)

	if m.signal.Requested() {
		m.draining.Store(true)
	}

	if err := m.countdown.Decrement(); err != nil {
		m.logger.DPanic("failed to release operation unit", log.Error(err))
	}
}

// Stop signals the shutdown. It implements [host.Object] and is meant to be
// called by the host.
//
// The first call sets the shutdown signal and releases the coordinator's own
// unit. If immediate is true, Stop blocks until all registered operations are
// finished and the coordinator has unregistered from the host; an operation
// that never returns blocks Stop forever. Otherwise Stop returns at once and
// the coordinator unregisters asynchronously. Calling Stop more than once is
// safe.
func (m *Coordinator) Stop(immediate bool) {
	if m.signal.Do() {
		m.shutdownTime = time.Now()
		m.metrics.shutdownRequested.Set(1)
		m.logger.Info(
			"shutdown requested",
			log.Int64("in_flight", m.inFlight.Load()),
			log.Bool("immediate", immediate),
		)

		if err := m.countdown.Decrement(); err != nil {
			m.logger.DPanic("failed to release shutdown unit", log.Error(err))
		}
	}

	if immediate {
		<-m.drained
	}
}

// deregister releases the coordinator from its host. It is called once, when
// the countdown settles, and must stay quick: it runs on the goroutine of the
// last finished operation.
func (m *Coordinator) deregister() {
	m.host.UnregisterObject(m)

	drainTime := time.Since(m.shutdownTime)
	m.metrics.drainDuration.Observe(drainTime.Seconds())
	m.logger.Info("background operations drained", log.Duration("drain_time", drainTime))

	close(m.drained)
}

// Drained returns a channel that is closed once every operation has finished
// after the shutdown request and the coordinator has unregistered from its
// host.
func (m *Coordinator) Drained() <-chan struct{} {
	return m.drained
}

// Wait blocks until the coordinator is drained or ctx is done. It is the
// bounded alternative to an immediate Stop.
func (m *Coordinator) Wait(ctx context.Context) error {
	select {
	case <-m.drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InFlight returns the number of registered operations that have not
// finished yet.
func (m *Coordinator) InFlight() int64 {
	return m.inFlight.Load()
}

// State returns the current lifecycle state of the coordinator.
func (m *Coordinator) State() State {
	select {
	case <-m.drained:
		return StateDeregistered
	default:
	}

	switch {
	case m.countdown.Settled():
		return StateSettled
	case !m.signal.Requested():
		return StateActive
	case m.draining.Load():
		return StateDraining
	default:
		return StateShutdownRequested
	}
}
