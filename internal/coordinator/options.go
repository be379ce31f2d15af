package coordinator

import (
	log "go.uber.org/zap"

	"github.com/yanet-platform/bgtasks/internal/monitoring/metrics"
	"github.com/yanet-platform/bgtasks/internal/utils/workerpool"
)

// defaultFailureLogLimit is the number of operation failures logged before
// failure logging gets throttled.
const defaultFailureLogLimit = 16

type options struct {
	executor        workerpool.Executor
	onFailure       FailureHandler
	failureLogLimit uint64
	metrics         metrics.Provider
	logger          *log.Logger
}

// Option represents a function that configures a Coordinator instance.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{
		executor:        workerpool.New(),
		failureLogLimit: defaultFailureLogLimit,
		metrics:         &metrics.NopProvider{},
		logger:          log.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used by the coordinator.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics provider the coordinator reports to.
func WithMetrics(provider metrics.Provider) Option {
	return func(o *options) {
		o.metrics = provider
	}
}

// WithExecutor sets the executor operations are scheduled on. The executor
// must not run tasks on the calling goroutine if callers rely on Run never
// blocking.
func WithExecutor(executor workerpool.Executor) Option {
	return func(o *options) {
		o.executor = executor
	}
}

// WithFailureHandler sets the policy applied to operation failures. By
// default failures are logged, throttled past the failure log limit.
func WithFailureHandler(handler FailureHandler) Option {
	return func(o *options) {
		o.onFailure = handler
	}
}

// WithFailureLogLimit sets how many failures the default failure handler
// logs before throttling.
func WithFailureLogLimit(limit uint64) Option {
	return func(o *options) {
		o.failureLogLimit = limit
	}
}
