package shutdown

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestShutdown verifies that the shutdown signal is properly sent and received
// by a single listener.
func TestShutdown(t *testing.T) {
	shutdown := New()
	assert.False(t, shutdown.Requested())

	wg := sync.WaitGroup{}

	// Start a goroutine that waits for the shutdown signal.
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-shutdown.Done()
	}()

	// Simulate some work before triggering shutdown.
	time.Sleep(20 * time.Millisecond)
	assert.True(t, shutdown.Do())
	wg.Wait()

	assert.True(t, shutdown.Requested())
	assert.Error(t, shutdown.Context().Err())
}

// TestShutdown_TwoListener verifies that multiple listeners can receive the
// shutdown signal simultaneously.
func TestShutdown_TwoListener(t *testing.T) {
	shutdown := New()

	wg := sync.WaitGroup{}
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-shutdown.Done()
		}()
	}

	time.Sleep(20 * time.Millisecond)
	shutdown.Do()
	wg.Wait()
}

// TestShutdown_DoOnce verifies that only the first of many concurrent Do calls
// reports that it triggered the signal.
func TestShutdown_DoOnce(t *testing.T) {
	shutdown := New()

	var triggered atomic.Int32
	wg := sync.WaitGroup{}
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if shutdown.Do() {
				triggered.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), triggered.Load())
	assert.False(t, shutdown.Do())
}
