// Package scheduler provides functionality for running a job periodically
// with a configurable interval and an optional initial delay.
package scheduler

import (
	"context"
	"math/rand/v2"
	"time"
)

// Scheduler holds the configuration and initial delay for running a job.
type Scheduler struct {
	config    Config        // holds the scheduling configuration
	initDelay time.Duration // delay before the first job run
}

// Option represents a function that configures a Scheduler instance.
type Option func(*Scheduler)

// WithJitter returns an Option that replaces the initial delay with a random
// value between 0 and the configured interval. It spreads the first runs of
// many schedulers started at once.
func WithJitter() Option {
	return func(s *Scheduler) {
		s.initDelay = time.Duration(rand.Float64() * float64(s.config.GetInterval()))
	}
}

// New creates a new Scheduler instance.
func New(config Config, opts ...Option) *Scheduler {
	s := &Scheduler{
		config:    config,
		initDelay: config.GetInitialDelay(),
	}

	// Apply all provided options to the Scheduler.
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run runs the job after the initial delay and then once per interval until
// ctx is canceled. It returns the context error.
func (m *Scheduler) Run(ctx context.Context, job func()) error {
	// A single timer serves both the initial delay and the loop, it is only
	// ever reset after it fired.
	timer := time.NewTimer(m.initDelay)
	defer timer.Stop()

	// Check the context first: with an expired timer and a canceled context
	// the select below would pick one of them at random.
	if ctx.Err() != nil {
		return ctx.Err()
	}

	interval := m.config.GetInterval()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		job()
		timer.Reset(interval)
	}
}

// InitialDelay returns the delay applied before the first job run.
func (m *Scheduler) InitialDelay() time.Duration {
	return m.initDelay
}
