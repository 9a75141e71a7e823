package geom

import (
	"fmt"
	"iter"
)

// Primitive is the primitive assembly mode of a draw call.
type Primitive uint8

const (
	Points Primitive = iota
	Lines
	LineLoop
	LineStrip
	Triangles
	TriangleStrip
	TriangleFan
	LinesAdjacency
	LineStripAdjacency
	TrianglesAdjacency
	TriangleStripAdjacency
	Patches
)

var primitiveNames = [...]string{
	Points:                 "points",
	Lines:                  "lines",
	LineLoop:               "line_loop",
	LineStrip:              "line_strip",
	Triangles:              "triangles",
	TriangleStrip:          "triangle_strip",
	TriangleFan:            "triangle_fan",
	LinesAdjacency:         "lines_adjacency",
	LineStripAdjacency:     "line_strip_adjacency",
	TrianglesAdjacency:     "triangles_adjacency",
	TriangleStripAdjacency: "triangle_strip_adjacency",
	Patches:                "patches",
}

// String returns the snake_case primitive name.
func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return fmt.Sprintf("Unknown(%d)", p)
}

// ParsePrimitive returns the primitive for its snake_case name.
func ParsePrimitive(name string) (Primitive, bool) {
	for i, n := range primitiveNames {
		if n == name {
			return Primitive(i), true
		}
	}
	return 0, false
}

// IndexType is the storage width of an index buffer.
type IndexType uint8

const (
	IndexUint8 IndexType = iota
	IndexUint16
	IndexUint32
)

// String returns the Go name of the index element type.
func (t IndexType) String() string {
	switch t {
	case IndexUint8:
		return "uint8"
	case IndexUint16:
		return "uint16"
	case IndexUint32:
		return "uint32"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// ParseIndexType returns the index type for "uint8", "uint16" or "uint32".
func ParseIndexType(name string) (IndexType, bool) {
	for t := IndexUint8; t <= IndexUint32; t++ {
		if t.String() == name {
			return t, true
		}
	}
	return 0, false
}

// Max returns the largest value representable by the index type.
func (t IndexType) Max() uint32 {
	switch t {
	case IndexUint8:
		return 0xFF
	case IndexUint16:
		return 0xFFFF
	default:
		return 0xFFFFFFFF
	}
}

// NarrowestIndexType returns the smallest index type able to address
// vertexCount vertices while keeping its maximum value free for use as a
// restart marker.
func NarrowestIndexType(vertexCount int) IndexType {
	switch {
	case vertexCount <= 0xFF:
		return IndexUint8
	case vertexCount <= 0xFFFF:
		return IndexUint16
	default:
		return IndexUint32
	}
}

// DrawCall is an ordered, primitive-typed sequence of vertex indices.
//
// Indices yields Count() values and can be ranged over any number of times.
// When RestartIndex reports a marker, values equal to it separate
// primitives and do not reference a vertex.
type DrawCall interface {
	Mode() Primitive
	Count() int
	Indices() iter.Seq[uint32]
	RestartIndex() (uint32, bool)
}

// DrawArrays draws Number consecutive vertices starting at First.
type DrawArrays struct {
	Primitive Primitive
	First     uint32
	Number    int
}

func (d *DrawArrays) Mode() Primitive { return d.Primitive }
func (d *DrawArrays) Count() int      { return d.Number }

func (d *DrawArrays) RestartIndex() (uint32, bool) { return 0, false }

// Indices yields First, First+1, ..., First+Number-1.
func (d *DrawArrays) Indices() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for i := 0; i < d.Number; i++ {
			if !yield(d.First + uint32(i)) {
				return
			}
		}
	}
}

// DrawElements draws vertices through an explicit index buffer. Type is
// the width the buffer is uploaded with; values are kept as uint32.
type DrawElements struct {
	Primitive    Primitive
	Type         IndexType
	Elements     []uint32
	Restart      bool   // Primitive restart enabled
	RestartValue uint32 // Marker value when Restart is set
}

func (d *DrawElements) Mode() Primitive { return d.Primitive }
func (d *DrawElements) Count() int      { return len(d.Elements) }

func (d *DrawElements) RestartIndex() (uint32, bool) {
	return d.RestartValue, d.Restart
}

// Indices yields the stored index values in order.
func (d *DrawElements) Indices() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for _, idx := range d.Elements {
			if !yield(idx) {
				return
			}
		}
	}
}

// NewDrawElements returns a restart-free DrawElements using the narrowest
// index type that holds every value in indices.
func NewDrawElements(mode Primitive, indices ...uint32) *DrawElements {
	var maxIdx uint32
	for _, idx := range indices {
		maxIdx = max(maxIdx, idx)
	}
	return &DrawElements{
		Primitive: mode,
		Type:      NarrowestIndexType(int(maxIdx) + 1),
		Elements:  indices,
	}
}
