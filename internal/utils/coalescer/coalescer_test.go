package coalescer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCoalesce verifies that the first non-nil pointer wins, and that nil is
// returned when there is none.
func TestCoalesce(t *testing.T) {
	first, second := 1, 2

	assert.Same(t, &first, Coalesce(nil, &first, &second))
	assert.Nil(t, Coalesce[int]())
	assert.Nil(t, Coalesce[int](nil, nil))
}

// TestValue verifies dereferencing with a zero value fallback.
func TestValue(t *testing.T) {
	name := "worker"

	assert.Equal(t, "worker", Value(nil, &name))
	assert.Equal(t, "", Value[string](nil))
	assert.False(t, Value[bool]())
}
