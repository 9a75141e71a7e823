package meshio

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/Faultbox/vertexweld/pkg/geom"
	"github.com/Faultbox/vertexweld/pkg/weld"
)

const quadYAML = `
name: quad
channels:
  - channel: position
    type: float32
    size: 3
    data: [0, 0, 0, 1, 0, 0, 1, 1, 0, 1, 1, 0, 0, 1, 0, 0, 0, 0]
  - channel: color
    type: uint8
    size: 4
    data: [255, 0, 0, 255, 255, 0, 0, 255, 255, 0, 0, 255, 255, 0, 0, 255, 255, 0, 0, 255, 255, 0, 0, 255]
  - channel: texcoord
    unit: 1
    type: float32
    size: 2
    data: [0, 0, 1, 0, 1, 1, 1, 1, 0, 1, 0, 0]
draw_calls:
  - mode: triangles
    index_type: uint8
    indices: [0, 1, 2, 3, 4, 5]
  - mode: line_strip
    index_type: uint16
    indices: [0, 1, 65535, 2, 3]
    restart: 65535
  - mode: points
    first: 0
    count: 6
`

func TestDecode_Quad(t *testing.T) {
	m, err := Decode(strings.NewReader(quadYAML))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if m.Name != "quad" {
		t.Errorf("expected name quad, got %q", m.Name)
	}
	if m.VertexCount() != 6 {
		t.Fatalf("expected 6 vertices, got %d", m.VertexCount())
	}
	if f := m.Color.Format(); f != (geom.Format{Type: geom.Uint8, Size: 4}) {
		t.Errorf("unexpected color format %s", f)
	}
	if m.Channel(geom.TexUnit(1)) == nil || m.Channel(geom.TexUnit(0)) != nil {
		t.Error("texture coordinates should be on unit 1 only")
	}

	if len(m.DrawCalls) != 3 {
		t.Fatalf("expected 3 draw calls, got %d", len(m.DrawCalls))
	}
	strip, ok := m.DrawCalls[1].(*geom.DrawElements)
	if !ok {
		t.Fatalf("expected DrawElements, got %T", m.DrawCalls[1])
	}
	if strip.Type != geom.IndexUint16 || !strip.Restart || strip.RestartValue != 65535 {
		t.Errorf("unexpected strip %+v", strip)
	}
	arrays, ok := m.DrawCalls[2].(*geom.DrawArrays)
	if !ok || arrays.Number != 6 || arrays.Primitive != geom.Points {
		t.Errorf("unexpected draw arrays %#v", m.DrawCalls[2])
	}
}

func TestDecode_WeldQuad(t *testing.T) {
	m, err := Decode(strings.NewReader(quadYAML))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	w := weld.New(nil, weld.DefaultOptions())
	if err := w.Weld(m); err != nil {
		t.Fatalf("Weld: %v", err)
	}
	if m.VertexCount() != 4 {
		t.Errorf("expected 4 welded vertices, got %d", m.VertexCount())
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "unknown channel",
			doc:     "channels:\n  - {channel: tangent, type: float32, size: 3, data: []}\n",
			wantErr: ErrUnknownChannel,
		},
		{
			name:    "unknown type",
			doc:     "channels:\n  - {channel: position, type: float16, size: 3, data: []}\n",
			wantErr: ErrUnknownType,
		},
		{
			name:    "bad size",
			doc:     "channels:\n  - {channel: position, type: float32, size: 5, data: []}\n",
			wantErr: ErrBadData,
		},
		{
			name:    "partial tuple",
			doc:     "channels:\n  - {channel: position, type: float32, size: 3, data: [1, 2]}\n",
			wantErr: ErrBadData,
		},
		{
			name:    "component overflow",
			doc:     "channels:\n  - {channel: color, type: uint8, size: 1, data: [300]}\n",
			wantErr: ErrBadData,
		},
		{
			name:    "duplicate channel",
			doc:     "channels:\n  - {channel: normal, type: float32, size: 1, data: [1]}\n  - {channel: normal, type: float32, size: 1, data: [1]}\n",
			wantErr: ErrBadData,
		},
		{
			name:    "unknown mode",
			doc:     "draw_calls:\n  - {mode: quads, first: 0, count: 4}\n",
			wantErr: ErrUnknownMode,
		},
		{
			name:    "index too wide",
			doc:     "draw_calls:\n  - {mode: points, index_type: uint8, indices: [256]}\n",
			wantErr: ErrBadData,
		},
		{
			name:    "restart marker too wide",
			doc:     "draw_calls:\n  - {mode: line_strip, index_type: uint8, indices: [0, 1], restart: 65535}\n",
			wantErr: ErrBadData,
		},
		{
			name:    "mixed draw call",
			doc:     "draw_calls:\n  - {mode: points, count: 2, indices: [0, 1]}\n",
			wantErr: ErrBadData,
		},
		{
			name:    "unknown field",
			doc:     "vertices: []\n",
			wantErr: ErrBadData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDecode_RestartWidensImplicitType(t *testing.T) {
	doc := "draw_calls:\n  - {mode: triangle_strip, indices: [0, 1, 2, 65535, 2, 1, 3], restart: 65535}\n"
	m, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	d, ok := m.DrawCalls[0].(*geom.DrawElements)
	if !ok {
		t.Fatalf("expected *geom.DrawElements, got %T", m.DrawCalls[0])
	}
	if d.Type != geom.IndexUint16 {
		t.Errorf("expected uint16 indices to hold the marker, got %s", d.Type)
	}
	if restart, ok := d.RestartIndex(); !ok || restart != 65535 {
		t.Errorf("restart = %d, %v; want 65535, true", restart, ok)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	m := &geom.Mesh{
		Name:     "mixed",
		Position: geom.Vec3f([3]float32{0.1, -2.5, 1e6}, [3]float32{float32(math.Inf(1)), 0, 3}),
		Normal:   geom.NewArray(3, []int8{-128, 0, 127, 1, 2, 3}),
		FogCoord: geom.Scalars[float64](math.Pi, math.NaN()),
		Attribs: []geom.Array{
			nil,
			geom.NewArray(2, []uint32{math.MaxUint32, 0, 7, 8}),
		},
		DrawCalls: []geom.DrawCall{
			&geom.DrawArrays{Primitive: geom.LineLoop, First: 0, Number: 2},
			&geom.DrawElements{
				Primitive: geom.TriangleFan, Type: geom.IndexUint32,
				Elements: []uint32{0, 1, 0xFFFFFFFF, 1, 0}, Restart: true, RestartValue: 0xFFFFFFFF,
			},
		},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v\n%s", err, buf.String())
	}

	pos := got.Position.(*geom.TypedArray[float32]).Data()
	if !slices.Equal(pos, m.Position.(*geom.TypedArray[float32]).Data()) {
		t.Errorf("positions = %v", pos)
	}
	normals := got.Normal.(*geom.TypedArray[int8]).Data()
	if !slices.Equal(normals, []int8{-128, 0, 127, 1, 2, 3}) {
		t.Errorf("normals = %v", normals)
	}
	fog := got.FogCoord.(*geom.TypedArray[float64]).Data()
	if fog[0] != math.Pi || !math.IsNaN(fog[1]) {
		t.Errorf("fog = %v", fog)
	}
	attrib := got.Channel(geom.AttribIndex(1)).(*geom.TypedArray[uint32])
	if attrib.Size() != 2 || !slices.Equal(attrib.Data(), []uint32{math.MaxUint32, 0, 7, 8}) {
		t.Errorf("attrib[1] = %v", attrib.Data())
	}
	if got.Channel(geom.AttribIndex(0)) != nil {
		t.Error("attrib[0] should stay absent")
	}
	if !reflect.DeepEqual(got.DrawCalls, m.DrawCalls) {
		t.Errorf("draw calls = %#v", got.DrawCalls)
	}
}

func TestEncode_UnsupportedArray(t *testing.T) {
	m := &geom.Mesh{Position: foreignArray{}}
	var buf bytes.Buffer
	if err := Encode(&buf, m); !errors.Is(err, ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}

func TestReadWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.yaml")
	m := &geom.Mesh{
		Position:  geom.Vec2f([2]float32{1, 2}, [2]float32{3, 4}),
		DrawCalls: []geom.DrawCall{geom.NewDrawElements(geom.Lines, 0, 1)},
	}

	if err := WriteFile(path, m); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.VertexCount() != 2 || len(got.DrawCalls) != 1 {
		t.Errorf("unexpected mesh %+v", got)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

type foreignArray struct{}

func (foreignArray) Format() geom.Format { return geom.Format{Type: geom.Float32, Size: 3} }
func (foreignArray) Len() int            { return 0 }
