// Package countdown provides an asynchronous countdown event: a counter that
// can be incremented and decremented concurrently and notifies waiters
// exactly once when it reaches zero.
package countdown

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrInvalidArgument is returned by New when the initial count is not
	// positive.
	ErrInvalidArgument = errors.New("countdown: initial count must be positive")
	// ErrInvalidOperation is returned by Increment and Decrement once the
	// countdown has settled.
	ErrInvalidOperation = errors.New("countdown: already settled")
)

// Countdown is a thread-safe counter that settles once its count transitions
// to zero. A settled countdown never changes again.
type Countdown struct {
	count atomic.Int64  // current count, zero means settled
	done  chan struct{} // closed on the transition to zero

	mu      sync.Mutex // protects onSettle and settled
	settled bool
	// onSettle holds continuations to run on settlement.
	onSettle []func()
}

// New creates a new Countdown with the given initial count.
func New(initial int64) (*Countdown, error) {
	if initial <= 0 {
		return nil, ErrInvalidArgument
	}

	m := &Countdown{
		done: make(chan struct{}),
	}
	m.count.Store(initial)

	return m, nil
}

// Increment adds one to the count. It fails with ErrInvalidOperation if the
// countdown has already settled, leaving the count untouched.
func (m *Countdown) Increment() error {
	for {
		current := m.count.Load()
		if current <= 0 {
			return ErrInvalidOperation
		}
		if m.count.CompareAndSwap(current, current+1) {
			return nil
		}
	}
}

// Decrement subtracts one from the count. The caller whose decrement takes
// the count to zero settles the countdown: it closes the Done channel and runs
// the registered continuations before returning.
func (m *Countdown) Decrement() error {
	for {
		current := m.count.Load()
		if current <= 0 {
			return ErrInvalidOperation
		}
		if !m.count.CompareAndSwap(current, current-1) {
			continue
		}
		if current == 1 {
			m.settle()
		}
		return nil
	}
}

// settle is called exactly once, by the decrement that reached zero.
func (m *Countdown) settle() {
	m.mu.Lock()
	m.settled = true
	callbacks := m.onSettle
	m.onSettle = nil
	close(m.done)
	m.mu.Unlock()

	for _, callback := range callbacks {
		callback()
	}
}

// OnSettle registers a continuation that runs once the countdown settles. The
// continuation runs on the goroutine performing the settling decrement, or
// immediately on the caller if the countdown has already settled, so it must
// be fast and must not block.
func (m *Countdown) OnSettle(callback func()) {
	m.mu.Lock()
	if !m.settled {
		m.onSettle = append(m.onSettle, callback)
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	callback()
}

// Done returns a channel that is closed when the countdown settles. Every
// caller receives the same channel.
func (m *Countdown) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until the countdown settles or ctx is done.
func (m *Countdown) Wait(ctx context.Context) error {
	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Count returns the current count.
func (m *Countdown) Count() int64 {
	return m.count.Load()
}

// Settled reports whether the count has reached zero.
func (m *Countdown) Settled() bool {
	return m.count.Load() == 0
}
