package coordinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetInstance drops the process-wide coordinator when the test ends, so
// the test can run more than once in the same process.
func resetInstance(t *testing.T) {
	t.Cleanup(func() {
		instanceMu.Lock()
		defer instanceMu.Unlock()
		instance = nil
	})
}

// TestInit verifies that the process-wide coordinator can be created only
// once and is returned by Instance afterwards.
func TestInit(t *testing.T) {
	resetInstance(t)

	_, err := Instance()
	assert.ErrorIs(t, err, ErrNotInitialized)

	h := newTestHost(t)
	coordinator, err := Init(h)
	require.NoError(t, err)
	assert.Same(t, coordinator, h.Registered())

	again, err := Instance()
	require.NoError(t, err)
	assert.Same(t, coordinator, again)

	_, err = Init(newTestHost(t))
	assert.ErrorIs(t, err, ErrAlreadyInitialized)

	coordinator.Stop(true)
	assert.Equal(t, 1, h.Unregistrations())
}
