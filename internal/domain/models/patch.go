package models

// Field carries one PATCH value together with whether the key was present in the request.
// A present key with a nil pointer value clears a nullable column.
type Field[T any] struct {
	Set   bool
	Value T
}

// Some marks a field as present.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Apply writes the value into dst when the key was present.
func (f Field[T]) Apply(dst *T) {
	if f.Set {
		*dst = f.Value
	}
}
