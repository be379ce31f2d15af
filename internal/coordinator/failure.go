package coordinator

import (
	"errors"
	"fmt"

	log "go.uber.org/zap"

	"github.com/yanet-platform/bgtasks/internal/monitoring/metrics"
	"github.com/yanet-platform/bgtasks/internal/utils/throttler"
)

// FailureHandler is the policy applied to errors returned by operations and
// to recovered panics. It is called on the goroutine of the failed operation,
// before the operation's unit is released.
type FailureHandler func(err error)

// IgnoreFailures is a FailureHandler that drops every failure.
func IgnoreFailures(error) {}

// PanicError is reported to the failure handler when an operation panics.
type PanicError struct {
	Value any    // value passed to panic
	Stack []byte // stack of the panicking goroutine
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("operation panicked: %v", e.Value)
}

// Unwrap returns the panic value if it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// logFailures returns the default failure handler. The first limit failures
// are logged, after that only every power of two.
func logFailures(limit uint64, logger *log.Logger) FailureHandler {
	counter := throttler.NewCounter(limit)
	return func(err error) {
		n, throttled := counter.Hit()
		if throttled {
			return
		}

		fields := []log.Field{log.Error(err), log.Uint64("failures", n)}
		var panicErr *PanicError
		if errors.As(err, &panicErr) {
			fields = append(fields, log.ByteString("stack", panicErr.Stack))
		}
		logger.Error("background operation failed", fields...)
	}
}

func failureLabels(err error) metrics.Labels {
	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		return metrics.Labels{"reason": "panic"}
	}
	return metrics.Labels{"reason": "error"}
}
