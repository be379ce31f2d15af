// Package coalescer picks the first configured value out of several optional
// ones. Config accessors use it to fall back to defaults.
package coalescer

// Coalesce returns the first non-nil pointer from the given list of pointers.
// If all pointers are nil, it returns nil.
//
//	fallback := 30 * time.Second
//	interval := Coalesce(config.Interval, &fallback)
func Coalesce[T any](values ...*T) *T {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// Value dereferences the first non-nil pointer. If all pointers are nil, it
// returns the zero value of T.
func Value[T any](values ...*T) T {
	if v := Coalesce(values...); v != nil {
		return *v
	}
	var zero T
	return zero
}
