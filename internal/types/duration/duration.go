// Package duration provides a time.Duration that is configured in its
// string form, for example "1m30s".
package duration

import (
	"time"
)

// Duration is a time.Duration that is encoded as text.
type Duration time.Duration

// UnmarshalText parses the duration string.
func (m *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*m = Duration(duration)
	return nil
}

// MarshalText formats the duration.
func (m Duration) MarshalText() ([]byte, error) {
	return []byte(m.Std().String()), nil
}

// Std returns the standard library representation.
func (m Duration) Std() time.Duration {
	return time.Duration(m)
}

// Ptr returns a pointer to the duration d. Used to fill optional config
// values.
func Ptr(d time.Duration) *Duration {
	value := Duration(d)
	return &value
}
