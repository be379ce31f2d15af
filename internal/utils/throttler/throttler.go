// Package throttler provides tool for determining whether a repeated event
// should be throttled.
package throttler

import (
	"sync/atomic"

	"golang.org/x/exp/constraints"
)

// Throttle returns true if the value should be throttled.
//
// If the value is less than or equal to the limit, it returns false. Otherwise,
// only powers of two pass.
func Throttle[T constraints.Unsigned](value, limit T) bool {
	if value <= limit {
		return false
	}
	return !isPowerOfTwo(uint64(value))
}

// Counter counts occurrences of a repeated event and reports whether each
// occurrence should be throttled.
type Counter struct {
	limit uint64
	seen  atomic.Uint64
}

// NewCounter creates a Counter that never throttles the first limit events.
func NewCounter(limit uint64) *Counter {
	return &Counter{limit: limit}
}

// Hit records an occurrence. It returns the occurrence number and whether the
// occurrence should be throttled.
func (m *Counter) Hit() (n uint64, throttled bool) {
	n = m.seen.Add(1)
	return n, Throttle(n, m.limit)
}

// isPowerOfTwo returns true if the value is a power of two.
func isPowerOfTwo(value uint64) bool {
	return value != 0 && (value&(value-1)) == 0
}
