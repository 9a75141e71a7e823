package weld

import (
	"math/rand/v2"
	"slices"

	"github.com/Faultbox/vertexweld/pkg/geom"
)

// halfArray is an attribute array type outside the supported set.
type halfArray struct{ n int }

func (h halfArray) Format() geom.Format { return geom.Format{Type: geom.ScalarInvalid, Size: 3} }
func (h halfArray) Len() int            { return h.n }

// randomMesh builds an n-vertex mesh using every scalar type, where each
// vertex copies one of the given number of prototype vertices.
func randomMesh(n, prototypes int, seed uint64) *geom.Mesh {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	pick := make([]int, n)
	for i := range pick {
		pick[i] = r.IntN(prototypes)
	}

	m := &geom.Mesh{
		Name:     "random",
		Position: fill[float32](r, pick, prototypes, 3, func(r *rand.Rand) float32 { return float32(r.IntN(3)) }),
		Normal:   fill[int8](r, pick, prototypes, 3, func(r *rand.Rand) int8 { return int8(r.IntN(3) - 1) }),
		Color:    fill[uint8](r, pick, prototypes, 4, func(r *rand.Rand) uint8 { return uint8(r.IntN(2) * 255) }),
		FogCoord: fill[float64](r, pick, prototypes, 1, func(r *rand.Rand) float64 { return float64(r.IntN(2)) / 2 }),
		TexCoords: []geom.Array{
			fill[uint16](r, pick, prototypes, 2, func(r *rand.Rand) uint16 { return uint16(r.IntN(2)) }),
		},
		Attribs: []geom.Array{
			fill[int32](r, pick, prototypes, 1, func(r *rand.Rand) int32 { return int32(r.IntN(2)) }),
			fill[uint32](r, pick, prototypes, 2, func(r *rand.Rand) uint32 { return uint32(r.IntN(2)) }),
			fill[int16](r, pick, prototypes, 4, func(r *rand.Rand) int16 { return int16(r.IntN(2)) }),
		},
	}

	tris := make([]uint32, 0, 3*n)
	for i := 0; i < 3*n; i++ {
		tris = append(tris, uint32(r.IntN(n)))
	}
	strip := []uint32{0, uint32(n - 1), 1, 0xFFFF, uint32(n / 2), 0}
	m.DrawCalls = []geom.DrawCall{
		geom.NewDrawElements(geom.Triangles, tris...),
		&geom.DrawElements{
			Primitive:    geom.TriangleStrip,
			Type:         geom.IndexUint16,
			Elements:     strip,
			Restart:      true,
			RestartValue: 0xFFFF,
		},
		&geom.DrawArrays{Primitive: geom.Points, First: 0, Number: n},
	}
	return m
}

func fill[T geom.Scalar](r *rand.Rand, pick []int, prototypes, size int, gen func(*rand.Rand) T) *geom.TypedArray[T] {
	protos := make([]T, prototypes*size)
	for i := range protos {
		protos[i] = gen(r)
	}
	data := make([]T, 0, len(pick)*size)
	for _, p := range pick {
		data = append(data, protos[p*size:(p+1)*size]...)
	}
	return geom.NewArray(size, data)
}

// vertexTuples returns the tuple of vertex i in every channel of m.
func vertexTuples(m *geom.Mesh, i int) []any {
	var out []any
	for _, ch := range m.Channels() {
		switch a := ch.Array.(type) {
		case *geom.TypedArray[float32]:
			out = append(out, slices.Clone(a.Tuple(i)))
		case *geom.TypedArray[float64]:
			out = append(out, slices.Clone(a.Tuple(i)))
		case *geom.TypedArray[int32]:
			out = append(out, slices.Clone(a.Tuple(i)))
		case *geom.TypedArray[uint32]:
			out = append(out, slices.Clone(a.Tuple(i)))
		case *geom.TypedArray[int16]:
			out = append(out, slices.Clone(a.Tuple(i)))
		case *geom.TypedArray[uint16]:
			out = append(out, slices.Clone(a.Tuple(i)))
		case *geom.TypedArray[int8]:
			out = append(out, slices.Clone(a.Tuple(i)))
		case *geom.TypedArray[uint8]:
			out = append(out, slices.Clone(a.Tuple(i)))
		}
	}
	return out
}

// drawIndices collects the index sequence of every draw call.
func drawIndices(m *geom.Mesh) [][]uint32 {
	out := make([][]uint32, len(m.DrawCalls))
	for i, dc := range m.DrawCalls {
		out[i] = slices.Collect(dc.Indices())
	}
	return out
}
