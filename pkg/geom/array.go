package geom

// Array is a typed per-vertex attribute array holding Len() tuples of
// Format().Size components each.
//
// Only *TypedArray values with a valid format are supported by the welding
// core; other implementations are reported as unsupported formats.
type Array interface {
	Format() Format
	Len() int
}

// TypedArray stores fixed-arity tuples of one scalar type in a flat slice.
type TypedArray[T Scalar] struct {
	size int
	data []T
}

// NewArray wraps flat component data as an array of size-component tuples.
// A trailing partial tuple is ignored. The slice is not copied.
func NewArray[T Scalar](size int, data []T) *TypedArray[T] {
	return &TypedArray[T]{size: size, data: data}
}

// Format returns the scalar type and tuple size.
func (a *TypedArray[T]) Format() Format {
	return Format{Type: scalarTypeOf[T](), Size: a.size}
}

// Len returns the number of tuples.
func (a *TypedArray[T]) Len() int {
	if a.size <= 0 {
		return 0
	}
	return len(a.data) / a.size
}

// Size returns the number of components per tuple.
func (a *TypedArray[T]) Size() int {
	return a.size
}

// Data returns the flat component slice.
func (a *TypedArray[T]) Data() []T {
	return a.data
}

// Tuple returns the components of the i-th tuple. The result aliases the
// array storage.
func (a *TypedArray[T]) Tuple(i int) []T {
	return a.data[i*a.size : (i+1)*a.size : (i+1)*a.size]
}

// Vec2f builds a float32x2 array.
func Vec2f(v ...[2]float32) *TypedArray[float32] {
	return flatten[float32](v)
}

// Vec3f builds a float32x3 array.
func Vec3f(v ...[3]float32) *TypedArray[float32] {
	return flatten[float32](v)
}

// Vec4f builds a float32x4 array.
func Vec4f(v ...[4]float32) *TypedArray[float32] {
	return flatten[float32](v)
}

// Vec4ub builds a uint8x4 array, typically RGBA colors.
func Vec4ub(v ...[4]uint8) *TypedArray[uint8] {
	return flatten[uint8](v)
}

// Scalars builds a single-component array.
func Scalars[T Scalar](v ...T) *TypedArray[T] {
	return NewArray(1, v)
}

func flatten[T Scalar, V ~[2]T | ~[3]T | ~[4]T](v []V) *TypedArray[T] {
	var zero V
	size := len(zero)
	data := make([]T, 0, len(v)*size)
	for _, t := range v {
		for c := 0; c < size; c++ {
			data = append(data, t[c])
		}
	}
	return NewArray(size, data)
}
