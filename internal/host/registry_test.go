package host

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	log "go.uber.org/zap"
)

// testObject is an Object that records stop requests and unregisters itself
// from the registry when stopped, optionally after a gate opens.
type testObject struct {
	registry  *Registry
	gate      chan struct{}
	stops     atomic.Int32
	immediate atomic.Bool
}

func newTestObject(registry *Registry) *testObject {
	gate := make(chan struct{})
	close(gate)
	return &testObject{registry: registry, gate: gate}
}

// Stop records the request and unregisters the object once the gate is open.
func (m *testObject) Stop(immediate bool) {
	m.stops.Add(1)
	m.immediate.Store(immediate)

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-m.gate
		m.registry.UnregisterObject(m)
	}()
	if immediate {
		<-done
	}
}

// TestRegistry_RegisterUnregister verifies that objects are tracked by handle
// and removed on unregistration.
func TestRegistry_RegisterUnregister(t *testing.T) {
	registry := NewRegistry(log.NewNop())
	object := newTestObject(registry)

	registry.RegisterObject(object)
	handle, exists := registry.Handle(object)
	require.True(t, exists)
	assert.NotEqual(t, uuid.Nil, handle.ID)
	assert.Equal(t, 1, registry.Len())

	// Registering twice keeps the original handle.
	registry.RegisterObject(object)
	again, _ := registry.Handle(object)
	assert.Equal(t, handle, again)
	assert.Equal(t, 1, registry.Len())

	registry.UnregisterObject(object)
	_, exists = registry.Handle(object)
	assert.False(t, exists)
	assert.Equal(t, 0, registry.Len())

	// Unregistering an unknown object is ignored.
	registry.UnregisterObject(object)
	assert.Equal(t, 0, registry.Len())
}

// TestRegistry_WaitEmpty verifies that Wait returns immediately when nothing
// is registered.
func TestRegistry_WaitEmpty(t *testing.T) {
	registry := NewRegistry(log.NewNop())
	assert.NoError(t, registry.Wait(context.Background()))
}

// TestRegistry_StopAllImmediate verifies that an immediate StopAll returns
// only after every object has unregistered itself.
func TestRegistry_StopAllImmediate(t *testing.T) {
	registry := NewRegistry(log.NewNop())
	first := newTestObject(registry)
	second := newTestObject(registry)
	registry.RegisterObject(first)
	registry.RegisterObject(second)

	registry.StopAll(true)

	assert.Equal(t, 0, registry.Len())
	assert.Equal(t, int32(1), first.stops.Load())
	assert.Equal(t, int32(1), second.stops.Load())
	assert.True(t, first.immediate.Load())
	assert.NoError(t, registry.Wait(context.Background()))
}

// TestRegistry_StopAllDeferred verifies that a non immediate StopAll returns
// while objects are still draining, and Wait unblocks once they finish.
func TestRegistry_StopAllDeferred(t *testing.T) {
	registry := NewRegistry(log.NewNop())
	object := newTestObject(registry)
	object.gate = make(chan struct{})
	registry.RegisterObject(object)

	registry.StopAll(false)
	assert.Equal(t, 1, registry.Len())
	assert.False(t, object.immediate.Load())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, registry.Wait(ctx), context.DeadlineExceeded)

	close(object.gate)
	assert.NoError(t, registry.Wait(context.Background()))
	assert.Equal(t, 0, registry.Len())
}
