// Package meshio reads and writes meshes as YAML documents.
//
// A document lists the present channels and the draw calls:
//
//	name: quad
//	channels:
//	  - channel: position
//	    type: float32
//	    size: 3
//	    data: [0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0]
//	  - channel: texcoord
//	    unit: 0
//	    type: float32
//	    size: 2
//	    data: [0, 0, 1, 0, 1, 1, 0, 1]
//	draw_calls:
//	  - mode: triangles
//	    index_type: uint8
//	    indices: [0, 1, 2, 2, 3, 0]
//	  - mode: points
//	    first: 0
//	    count: 4
package meshio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/vertexweld/pkg/geom"
)

// Mesh document errors.
var (
	ErrUnknownChannel = errors.New("unknown channel")
	ErrUnknownType    = errors.New("unknown attribute type")
	ErrUnknownMode    = errors.New("unknown primitive mode")
	ErrBadData        = errors.New("malformed mesh data")
)

type document struct {
	Name      string        `yaml:"name,omitempty"`
	Channels  []channelDoc  `yaml:"channels"`
	DrawCalls []drawCallDoc `yaml:"draw_calls"`
}

type channelDoc struct {
	Channel string    `yaml:"channel"`
	Unit    int       `yaml:"unit,omitempty"`
	Type    string    `yaml:"type"`
	Size    int       `yaml:"size"`
	Data    yaml.Node `yaml:"data"`
}

type drawCallDoc struct {
	Mode      string   `yaml:"mode"`
	First     *uint32  `yaml:"first,omitempty"`
	Count     int      `yaml:"count,omitempty"`
	IndexType string   `yaml:"index_type,omitempty"`
	Indices   []uint32 `yaml:"indices,flow,omitempty"`
	Restart   *uint32  `yaml:"restart,omitempty"`
}

// Decode reads one mesh document from r.
func Decode(r io.Reader) (*geom.Mesh, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadData, err)
	}

	m := &geom.Mesh{Name: doc.Name}
	for i := range doc.Channels {
		cd := &doc.Channels[i]
		kind, ok := geom.ParseChannelKind(cd.Channel)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, cd.Channel)
		}
		id := geom.ChannelID{Kind: kind}
		if kind == geom.TexCoord || kind == geom.Attrib {
			id.Unit = cd.Unit
		}
		if m.Channel(id) != nil {
			return nil, fmt.Errorf("%w: channel %s listed twice", ErrBadData, id)
		}

		arr, err := decodeArray(cd)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", id, err)
		}
		if err := m.SetChannel(id, arr); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadData, err)
		}
	}

	for i, dd := range doc.DrawCalls {
		dc, err := decodeDrawCall(dd)
		if err != nil {
			return nil, fmt.Errorf("draw call %d: %w", i, err)
		}
		m.DrawCalls = append(m.DrawCalls, dc)
	}
	return m, nil
}

func decodeArray(cd *channelDoc) (geom.Array, error) {
	st, ok := geom.ParseScalarType(cd.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, cd.Type)
	}
	if !(geom.Format{Type: st, Size: cd.Size}).Valid() {
		return nil, fmt.Errorf("%w: size %d", ErrBadData, cd.Size)
	}

	switch st {
	case geom.Float32:
		return decodeData[float32](cd)
	case geom.Float64:
		return decodeData[float64](cd)
	case geom.Int32:
		return decodeData[int32](cd)
	case geom.Uint32:
		return decodeData[uint32](cd)
	case geom.Int16:
		return decodeData[int16](cd)
	case geom.Uint16:
		return decodeData[uint16](cd)
	case geom.Int8:
		return decodeData[int8](cd)
	case geom.Uint8:
		return decodeData[uint8](cd)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, cd.Type)
}

func decodeData[T geom.Scalar](cd *channelDoc) (geom.Array, error) {
	var data []T
	if cd.Data.Kind != 0 {
		if err := cd.Data.Decode(&data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadData, err)
		}
	}
	if len(data)%cd.Size != 0 {
		return nil, fmt.Errorf("%w: %d components is not a multiple of %d", ErrBadData, len(data), cd.Size)
	}
	return geom.NewArray(cd.Size, data), nil
}

func decodeDrawCall(dd drawCallDoc) (geom.DrawCall, error) {
	mode, ok := geom.ParsePrimitive(dd.Mode)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, dd.Mode)
	}

	if dd.IndexType == "" && dd.Indices == nil {
		if dd.Restart != nil {
			return nil, fmt.Errorf("%w: restart marker without index buffer", ErrBadData)
		}
		var first uint32
		if dd.First != nil {
			first = *dd.First
		}
		if dd.Count < 0 {
			return nil, fmt.Errorf("%w: negative count %d", ErrBadData, dd.Count)
		}
		return &geom.DrawArrays{Primitive: mode, First: first, Number: dd.Count}, nil
	}

	if dd.First != nil || dd.Count != 0 {
		return nil, fmt.Errorf("%w: first/count given with an index buffer", ErrBadData)
	}
	if dd.IndexType == "" {
		return implicitElements(mode, dd.Indices, dd.Restart), nil
	}

	it, ok := geom.ParseIndexType(dd.IndexType)
	if !ok {
		return nil, fmt.Errorf("%w: index type %q", ErrBadData, dd.IndexType)
	}
	for _, idx := range dd.Indices {
		if idx > it.Max() {
			return nil, fmt.Errorf("%w: index %d does not fit %s", ErrBadData, idx, it)
		}
	}
	dc := &geom.DrawElements{Primitive: mode, Type: it, Elements: dd.Indices}
	if dd.Restart != nil {
		if *dd.Restart > it.Max() {
			return nil, fmt.Errorf("%w: restart marker %d does not fit %s", ErrBadData, *dd.Restart, it)
		}
		dc.Restart, dc.RestartValue = true, *dd.Restart
	}
	return dc, nil
}

// implicitElements picks the narrowest index type holding both the vertex
// references and the restart marker.
func implicitElements(mode geom.Primitive, indices []uint32, restart *uint32) *geom.DrawElements {
	var maxIdx uint32
	for _, idx := range indices {
		if restart != nil && idx == *restart {
			continue
		}
		maxIdx = max(maxIdx, idx)
	}

	dc := &geom.DrawElements{
		Primitive: mode,
		Type:      geom.NarrowestIndexType(int(maxIdx) + 1),
		Elements:  indices,
	}
	if restart != nil {
		dc.Restart, dc.RestartValue = true, *restart
		if dc.RestartValue > dc.Type.Max() {
			dc.Type = geom.NarrowestIndexType(int(dc.RestartValue))
		}
	}
	return dc
}

// Encode writes m to w as a mesh document.
func Encode(w io.Writer, m *geom.Mesh) error {
	doc := document{Name: m.Name}

	for _, ch := range m.Channels() {
		cd := channelDoc{
			Channel: ch.ID.Kind.String(),
			Unit:    ch.ID.Unit,
			Type:    ch.Array.Format().Type.String(),
			Size:    ch.Array.Format().Size,
		}
		node, err := encodeData(ch.Array)
		if err != nil {
			return fmt.Errorf("channel %s: %w", ch.ID, err)
		}
		cd.Data = *node
		doc.Channels = append(doc.Channels, cd)
	}

	for _, dc := range m.DrawCalls {
		doc.DrawCalls = append(doc.DrawCalls, encodeDrawCall(dc))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

func encodeDrawCall(dc geom.DrawCall) drawCallDoc {
	dd := drawCallDoc{Mode: dc.Mode().String()}

	switch d := dc.(type) {
	case *geom.DrawArrays:
		first := d.First
		dd.First = &first
		dd.Count = d.Number
		return dd
	case *geom.DrawElements:
		dd.IndexType = d.Type.String()
	default:
		var maxIdx uint32
		for idx := range dc.Indices() {
			maxIdx = max(maxIdx, idx)
		}
		dd.IndexType = geom.NarrowestIndexType(int(maxIdx) + 1).String()
	}

	dd.Indices = slices.Collect(dc.Indices())
	if restart, ok := dc.RestartIndex(); ok {
		dd.Restart = &restart
	}
	return dd
}

// ReadFile reads a mesh document from disk.
func ReadFile(path string) (*geom.Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mesh file: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// WriteFile writes m to path as a mesh document.
func WriteFile(path string, m *geom.Mesh) error {
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
