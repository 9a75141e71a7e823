// Package geom provides the indexed mesh data model: typed per-vertex
// attribute arrays, the ordered channel table and draw calls.
package geom

import "fmt"

// ScalarType is the element type of an attribute array component.
type ScalarType uint8

const (
	ScalarInvalid ScalarType = iota
	Float32
	Float64
	Int32
	Uint32
	Int16
	Uint16
	Int8
	Uint8
)

var scalarNames = [...]string{
	ScalarInvalid: "invalid",
	Float32:       "float32",
	Float64:       "float64",
	Int32:         "int32",
	Uint32:        "uint32",
	Int16:         "int16",
	Uint16:        "uint16",
	Int8:          "int8",
	Uint8:         "uint8",
}

// String returns the Go name of the scalar type.
func (s ScalarType) String() string {
	if int(s) < len(scalarNames) {
		return scalarNames[s]
	}
	return fmt.Sprintf("Unknown(%d)", s)
}

// ParseScalarType returns the scalar type for a Go type name like "float32".
func ParseScalarType(name string) (ScalarType, bool) {
	for i := Float32; int(i) < len(scalarNames); i++ {
		if scalarNames[i] == name {
			return i, true
		}
	}
	return ScalarInvalid, false
}

// ByteSize returns the size of one component in bytes.
func (s ScalarType) ByteSize() int {
	switch s {
	case Float64:
		return 8
	case Float32, Int32, Uint32:
		return 4
	case Int16, Uint16:
		return 2
	case Int8, Uint8:
		return 1
	default:
		return 0
	}
}

// Format describes the tuples stored in an attribute array.
type Format struct {
	Type ScalarType
	Size int // Components per tuple (1-4)
}

// Valid reports whether the format belongs to the supported set.
func (f Format) Valid() bool {
	return f.Type != ScalarInvalid && f.Type.ByteSize() > 0 && f.Size >= 1 && f.Size <= 4
}

// String returns the format as "type" or "typexN", e.g. "float32x3".
func (f Format) String() string {
	if f.Size == 1 {
		return f.Type.String()
	}
	return fmt.Sprintf("%sx%d", f.Type, f.Size)
}

// Scalar is the constraint satisfied by every supported component type.
type Scalar interface {
	float32 | float64 | int32 | uint32 | int16 | uint16 | int8 | uint8
}

// scalarTypeOf maps a Go component type to its ScalarType.
func scalarTypeOf[T Scalar]() ScalarType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case uint32:
		return Uint32
	case int16:
		return Int16
	case uint16:
		return Uint16
	case int8:
		return Int8
	case uint8:
		return Uint8
	}
	return ScalarInvalid
}
