package countdown

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isDone reports whether the countdown's Done channel is closed.
func isDone(countdown *Countdown) bool {
	select {
	case <-countdown.Done():
		return true
	default:
		return false
	}
}

// TestNew_InvalidArgument verifies that a non-positive initial count is
// rejected.
func TestNew_InvalidArgument(t *testing.T) {
	for _, initial := range []int64{0, -1, -100} {
		countdown, err := New(initial)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Nil(t, countdown)
	}
}

// TestCountdown_SettlesAfterNetDecrements verifies that for several initial
// values the countdown settles only after exactly that many decrements and
// fires its continuation once.
func TestCountdown_SettlesAfterNetDecrements(t *testing.T) {
	for _, initial := range []int64{1, 2, 5, 64} {
		countdown, err := New(initial)
		require.NoError(t, err)

		var fired atomic.Int32
		countdown.OnSettle(func() { fired.Add(1) })

		for i := int64(0); i < initial-1; i++ {
			require.NoError(t, countdown.Decrement())
			assert.False(t, isDone(countdown), "settled after %d decrements of %d", i+1, initial)
		}
		assert.Equal(t, int32(0), fired.Load())

		require.NoError(t, countdown.Decrement())
		assert.True(t, isDone(countdown))
		assert.True(t, countdown.Settled())
		assert.Equal(t, int32(1), fired.Load())
	}
}

// TestCountdown_IncrementDelaysSettlement verifies that increments add units
// that must be decremented before the countdown settles.
func TestCountdown_IncrementDelaysSettlement(t *testing.T) {
	countdown, err := New(1)
	require.NoError(t, err)

	require.NoError(t, countdown.Increment())
	require.NoError(t, countdown.Increment())
	assert.Equal(t, int64(3), countdown.Count())

	require.NoError(t, countdown.Decrement())
	require.NoError(t, countdown.Decrement())
	assert.False(t, isDone(countdown))

	require.NoError(t, countdown.Decrement())
	assert.True(t, isDone(countdown))
}

// TestCountdown_InvalidOperationAfterSettle verifies that both increment and
// decrement fail once the countdown settled, and the count stays at zero.
func TestCountdown_InvalidOperationAfterSettle(t *testing.T) {
	countdown, err := New(1)
	require.NoError(t, err)
	require.NoError(t, countdown.Decrement())

	assert.ErrorIs(t, countdown.Decrement(), ErrInvalidOperation)
	assert.Equal(t, int64(0), countdown.Count())

	assert.ErrorIs(t, countdown.Increment(), ErrInvalidOperation)
	assert.Equal(t, int64(0), countdown.Count())
}

// TestCountdown_OnSettleAfterSettlement verifies that a continuation
// registered after settlement runs immediately on the caller.
func TestCountdown_OnSettleAfterSettlement(t *testing.T) {
	countdown, err := New(1)
	require.NoError(t, err)
	require.NoError(t, countdown.Decrement())

	called := false
	countdown.OnSettle(func() { called = true })
	assert.True(t, called)
}

// TestCountdown_DoneSharedChannel verifies that all callers observe the same
// settlement channel.
func TestCountdown_DoneSharedChannel(t *testing.T) {
	countdown, err := New(2)
	require.NoError(t, err)

	first := countdown.Done()
	second := countdown.Done()
	assert.Equal(t, first, second)
}

// TestCountdown_Wait verifies that Wait returns the context error while the
// countdown is pending and nil once it settled.
func TestCountdown_Wait(t *testing.T) {
	countdown, err := New(1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, countdown.Wait(ctx), context.DeadlineExceeded)

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = countdown.Decrement()
	}()
	assert.NoError(t, countdown.Wait(context.Background()))
}

// TestCountdown_ConcurrentIncrementDecrement verifies that many goroutines
// interleaving increments and decrements settle the countdown exactly once
// and only after the bias unit is removed.
func TestCountdown_ConcurrentIncrementDecrement(t *testing.T) {
	const (
		goroutines = 64
		iterations = 1000
	)

	countdown, err := New(1)
	require.NoError(t, err)

	var fired atomic.Int32
	countdown.OnSettle(func() { fired.Add(1) })

	wg := sync.WaitGroup{}
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range iterations {
				// Each unit is added before it is removed, so the count never
				// drops below the bias while the workers run.
				if err := countdown.Increment(); err != nil {
					t.Errorf("unexpected increment error: %v", err)
					return
				}
				if err := countdown.Decrement(); err != nil {
					t.Errorf("unexpected decrement error: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), countdown.Count())
	assert.False(t, isDone(countdown))
	assert.Equal(t, int32(0), fired.Load())

	require.NoError(t, countdown.Decrement())
	assert.True(t, isDone(countdown))
	assert.Equal(t, int32(1), fired.Load())
}

// TestCountdown_ConcurrentFinalDecrement verifies that when many goroutines
// race on the last decrements, exactly one settles the countdown and every
// surplus decrement fails.
func TestCountdown_ConcurrentFinalDecrement(t *testing.T) {
	const goroutines = 128

	countdown, err := New(goroutines / 2)
	require.NoError(t, err)

	var fired atomic.Int32
	countdown.OnSettle(func() { fired.Add(1) })

	var failed atomic.Int32
	start := make(chan struct{})
	wg := sync.WaitGroup{}
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if err := countdown.Decrement(); err != nil {
				failed.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), fired.Load())
	assert.Equal(t, int32(goroutines/2), failed.Load())
	assert.Equal(t, int64(0), countdown.Count())
}
