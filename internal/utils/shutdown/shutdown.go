// Package shutdown provides a mechanism to signal a graceful shutdown process.
package shutdown

import (
	"context"
	"sync"
)

// Shutdown manages a one-time cooperative shutdown signal. Once triggered it
// is never reset.
type Shutdown struct {
	once   sync.Once          // ensures the shutdown signal is only sent once
	ctx    context.Context    // canceled when the shutdown signal is triggered
	cancel context.CancelFunc // cancels ctx
}

// New creates a new Shutdown instance.
func New() *Shutdown {
	ctx, cancel := context.WithCancel(context.Background())
	return &Shutdown{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Do triggers the shutdown signal if it hasn't been triggered already. It
// reports whether this call was the one that triggered it.
func (m *Shutdown) Do() (triggered bool) {
	m.once.Do(func() {
		m.cancel()
		triggered = true
	})
	return triggered
}

// Done returns a channel that is closed when the shutdown signal is triggered.
// This allows goroutines to listen for the shutdown signal.
func (m *Shutdown) Done() <-chan struct{} {
	return m.ctx.Done()
}

// Requested reports whether the shutdown signal has been triggered.
func (m *Shutdown) Requested() bool {
	return m.ctx.Err() != nil
}

// Context returns a context that is canceled when the shutdown signal is
// triggered. It is meant to be handed to long running operations.
func (m *Shutdown) Context() context.Context {
	return m.ctx
}
