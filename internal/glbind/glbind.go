// Package glbind translates welded geometry into OpenGL draw parameters.
//
// Only enum values and buffer packing live here; nothing in this package
// needs a current GL context.
package glbind

import (
	"encoding/binary"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/vertexweld/pkg/geom"
)

// Mode returns the GL primitive enum for p.
func Mode(p geom.Primitive) (uint32, error) {
	switch p {
	case geom.Points:
		return gl.POINTS, nil
	case geom.Lines:
		return gl.LINES, nil
	case geom.LineLoop:
		return gl.LINE_LOOP, nil
	case geom.LineStrip:
		return gl.LINE_STRIP, nil
	case geom.Triangles:
		return gl.TRIANGLES, nil
	case geom.TriangleStrip:
		return gl.TRIANGLE_STRIP, nil
	case geom.TriangleFan:
		return gl.TRIANGLE_FAN, nil
	case geom.LinesAdjacency:
		return gl.LINES_ADJACENCY, nil
	case geom.LineStripAdjacency:
		return gl.LINE_STRIP_ADJACENCY, nil
	case geom.TrianglesAdjacency:
		return gl.TRIANGLES_ADJACENCY, nil
	case geom.TriangleStripAdjacency:
		return gl.TRIANGLE_STRIP_ADJACENCY, nil
	case geom.Patches:
		return gl.PATCHES, nil
	}
	return 0, fmt.Errorf("no GL primitive for %s", p)
}

// IndexType returns the GL element type enum for t.
func IndexType(t geom.IndexType) uint32 {
	switch t {
	case geom.IndexUint8:
		return gl.UNSIGNED_BYTE
	case geom.IndexUint16:
		return gl.UNSIGNED_SHORT
	default:
		return gl.UNSIGNED_INT
	}
}

// ScalarType returns the GL component type enum for s.
func ScalarType(s geom.ScalarType) (uint32, error) {
	switch s {
	case geom.Float32:
		return gl.FLOAT, nil
	case geom.Float64:
		return gl.DOUBLE, nil
	case geom.Int32:
		return gl.INT, nil
	case geom.Uint32:
		return gl.UNSIGNED_INT, nil
	case geom.Int16:
		return gl.SHORT, nil
	case geom.Uint16:
		return gl.UNSIGNED_SHORT, nil
	case geom.Int8:
		return gl.BYTE, nil
	case geom.Uint8:
		return gl.UNSIGNED_BYTE, nil
	}
	return 0, fmt.Errorf("no GL type for %s", s)
}

// AttribLayout describes one vertex attribute for glVertexAttribPointer.
type AttribLayout struct {
	Location   uint32
	Size       int32
	Type       uint32
	Normalized bool
	Stride     int32
}

// Layouts returns the attribute layouts of m's channels in channel order.
// Fixed-function channels get conventional locations (position 0, normal 1,
// color 2, secondary color 3, fog coordinate 4, texture unit k at 5+k);
// generic attribute k uses location k. Integer colors are normalized.
func Layouts(m *geom.Mesh) ([]AttribLayout, error) {
	channels := m.Channels()
	layouts := make([]AttribLayout, 0, len(channels))
	for _, ch := range channels {
		f := ch.Array.Format()
		if !f.Valid() {
			return nil, fmt.Errorf("channel %s: unsupported format %s", ch.ID, f)
		}
		typ, err := ScalarType(f.Type)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", ch.ID, err)
		}

		l := AttribLayout{
			Size:   int32(f.Size),
			Type:   typ,
			Stride: int32(f.Size * f.Type.ByteSize()),
		}
		switch ch.ID.Kind {
		case geom.Position:
			l.Location = 0
		case geom.Normal:
			l.Location = 1
		case geom.Color:
			l.Location = 2
			l.Normalized = f.Type != geom.Float32 && f.Type != geom.Float64
		case geom.SecondaryColor:
			l.Location = 3
			l.Normalized = f.Type != geom.Float32 && f.Type != geom.Float64
		case geom.FogCoord:
			l.Location = 4
		case geom.TexCoord:
			l.Location = 5 + uint32(ch.ID.Unit)
		case geom.Attrib:
			l.Location = uint32(ch.ID.Unit)
		}
		layouts = append(layouts, l)
	}
	return layouts, nil
}

// DrawParams holds the arguments of a glDrawArrays or glDrawElements call.
type DrawParams struct {
	Mode         uint32
	Count        int32
	First        int32  // glDrawArrays only
	Indexed      bool   // Use glDrawElements
	IndexType    uint32 // glDrawElements only
	Restart      bool   // Enable GL_PRIMITIVE_RESTART with RestartIndex
	RestartIndex uint32
}

// Params returns the draw parameters of dc. Index buffers other than
// DrawElements are reported as indexed with 32-bit indices.
func Params(dc geom.DrawCall) (DrawParams, error) {
	mode, err := Mode(dc.Mode())
	if err != nil {
		return DrawParams{}, err
	}

	p := DrawParams{Mode: mode, Count: int32(dc.Count())}
	switch d := dc.(type) {
	case *geom.DrawArrays:
		p.First = int32(d.First)
		return p, nil
	case *geom.DrawElements:
		p.Indexed = true
		p.IndexType = IndexType(d.Type)
	default:
		p.Indexed = true
		p.IndexType = gl.UNSIGNED_INT
	}
	p.RestartIndex, p.Restart = dc.RestartIndex()
	return p, nil
}

// IndexBytes packs the indices of d at the width of d.Type for upload with
// glBufferData(GL_ELEMENT_ARRAY_BUFFER, ...).
func IndexBytes(d *geom.DrawElements) ([]byte, error) {
	var buf []byte
	switch d.Type {
	case geom.IndexUint8:
		buf = make([]byte, 0, len(d.Elements))
	case geom.IndexUint16:
		buf = make([]byte, 0, 2*len(d.Elements))
	default:
		buf = make([]byte, 0, 4*len(d.Elements))
	}

	for i, idx := range d.Elements {
		if idx > d.Type.Max() {
			return nil, fmt.Errorf("index %d at %d does not fit %s", idx, i, d.Type)
		}
		switch d.Type {
		case geom.IndexUint8:
			buf = append(buf, byte(idx))
		case geom.IndexUint16:
			buf = binary.NativeEndian.AppendUint16(buf, uint16(idx))
		default:
			buf = binary.NativeEndian.AppendUint32(buf, idx)
		}
	}
	return buf, nil
}
