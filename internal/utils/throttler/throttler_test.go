package throttler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestThrottle verifies that values up to the limit pass and only powers of
// two pass beyond it.
func TestThrottle(t *testing.T) {
	assert.False(t, Throttle[uint](3, 5))
	assert.False(t, Throttle[uint](5, 5))
	assert.True(t, Throttle[uint](6, 5))
	assert.False(t, Throttle[uint](8, 5))
	assert.True(t, Throttle[uint32](9, 5))
	assert.False(t, Throttle[uint32](16, 5))
}

// TestCounter_Hit verifies that the counter numbers occurrences and throttles
// them past the limit.
func TestCounter_Hit(t *testing.T) {
	counter := NewCounter(2)

	var passed []uint64
	for range 20 {
		n, throttled := counter.Hit()
		if !throttled {
			passed = append(passed, n)
		}
	}

	assert.Equal(t, []uint64{1, 2, 4, 8, 16}, passed)
}
