// Package weld collapses attribute-identical vertices of an indexed mesh
// into single representatives and rewrites its draw calls accordingly.
package weld

import (
	"errors"
	"fmt"

	"github.com/Faultbox/vertexweld/pkg/geom"
)

// Weld errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported attribute format")
	ErrIndexOutOfRange   = errors.New("draw call index out of range")
	ErrAttributeLength   = errors.New("attribute length does not match vertex count")
)

// Regenerate returns a new array of the same concrete type as a holding
// len(newToOld) tuples, where tuple i is a copy of a's tuple newToOld[i].
// The input array is not modified.
func Regenerate(a geom.Array, newToOld []int) (geom.Array, error) {
	switch arr := a.(type) {
	case *geom.TypedArray[float32]:
		return gather(arr, newToOld)
	case *geom.TypedArray[float64]:
		return gather(arr, newToOld)
	case *geom.TypedArray[int32]:
		return gather(arr, newToOld)
	case *geom.TypedArray[uint32]:
		return gather(arr, newToOld)
	case *geom.TypedArray[int16]:
		return gather(arr, newToOld)
	case *geom.TypedArray[uint16]:
		return gather(arr, newToOld)
	case *geom.TypedArray[int8]:
		return gather(arr, newToOld)
	case *geom.TypedArray[uint8]:
		return gather(arr, newToOld)
	}
	return nil, unsupported(a)
}

func gather[T geom.Scalar](a *geom.TypedArray[T], newToOld []int) (geom.Array, error) {
	if !a.Format().Valid() {
		return nil, unsupported(a)
	}

	size := a.Size()
	src := a.Data()
	dst := make([]T, len(newToOld)*size)
	for i, old := range newToOld {
		copy(dst[i*size:(i+1)*size], src[old*size:(old+1)*size])
	}
	return geom.NewArray(size, dst), nil
}

func unsupported(a geom.Array) error {
	if a == nil {
		return fmt.Errorf("%w: nil array", ErrUnsupportedFormat)
	}
	return fmt.Errorf("%w: %T (%s)", ErrUnsupportedFormat, a, a.Format())
}
