// Package optional implements a value which may or may not be set.
package optional

// Optional holds a value of type T which may be absent. The zero value is an
// empty Optional.
type Optional[T any] struct {
	value T
	set   bool
}

// Of returns an Optional holding v.
func Of[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Set stores v, replacing any previous value.
func (o *Optional[T]) Set(v T) {
	o.value = v
	o.set = true
}

// Get returns the stored value. It returns the zero value of T when nothing
// has been set, so callers should check HasValue first.
func (o Optional[T]) Get() T {
	return o.value
}

// HasValue reports whether a value has been set.
func (o Optional[T]) HasValue() bool {
	return o.set
}
