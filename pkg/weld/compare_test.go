package weld

import (
	"errors"
	"math"
	"testing"

	"github.com/Faultbox/vertexweld/pkg/geom"
)

func TestComparator_ChannelOrder(t *testing.T) {
	// Vertex 0 has the smaller normal, vertex 1 the smaller position.
	// Position is compared first, so it decides.
	m := &geom.Mesh{
		Position: geom.Vec3f([3]float32{1, 0, 0}, [3]float32{0, 9, 9}),
		Normal:   geom.Vec3f([3]float32{0, 0, 1}, [3]float32{1, 0, 0}),
	}
	c, err := NewComparator(m)
	if err != nil {
		t.Fatalf("NewComparator: %v", err)
	}

	if !c.Less(1, 0) {
		t.Error("expected vertex 1 < vertex 0 by position")
	}
	if c.Less(0, 1) {
		t.Error("vertex 0 should not be less than vertex 1")
	}
	if c.Equal(0, 1) {
		t.Error("vertices should differ")
	}
}

func TestComparator_ComponentOrder(t *testing.T) {
	m := &geom.Mesh{
		Position: geom.Vec3f(
			[3]float32{0, 5, 0},
			[3]float32{0, 4, 9},
			[3]float32{0, 4, 9},
		),
	}
	c, err := NewComparator(m)
	if err != nil {
		t.Fatalf("NewComparator: %v", err)
	}

	if c.Compare(1, 0) != -1 {
		t.Error("component 1 should decide before component 2")
	}
	if c.Compare(0, 1) != 1 {
		t.Error("expected vertex 0 > vertex 1")
	}
	if c.Compare(1, 2) != 0 || !c.Equal(1, 2) {
		t.Error("identical tuples should compare equal")
	}
}

func TestComparator_SkipsAbsentChannels(t *testing.T) {
	m := &geom.Mesh{
		Position:  geom.Vec3f([3]float32{1, 1, 1}, [3]float32{1, 1, 1}),
		TexCoords: []geom.Array{nil, geom.Vec2f([2]float32{0, 0}, [2]float32{0, 1})},
	}
	c, err := NewComparator(m)
	if err != nil {
		t.Fatalf("NewComparator: %v", err)
	}

	want := []geom.ChannelID{{Kind: geom.Position}, geom.TexUnit(1)}
	got := c.Channels()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Channels() = %v, want %v", got, want)
	}
	if c.Equal(0, 1) {
		t.Error("texture unit 1 differs, vertices should not be equal")
	}
}

func TestComparator_FloatSpecialValues(t *testing.T) {
	nan := float32(math.NaN())
	negZero := float32(math.Copysign(0, -1))
	m := &geom.Mesh{
		Position: geom.Vec3f(
			[3]float32{nan, 0, 0},
			[3]float32{nan, 0, 0},
			[3]float32{negZero, 0, 0},
			[3]float32{0, 0, 0},
			[3]float32{-1, 0, 0},
		),
	}
	c, err := NewComparator(m)
	if err != nil {
		t.Fatalf("NewComparator: %v", err)
	}

	if !c.Equal(0, 1) {
		t.Error("NaN tuples should compare equal")
	}
	if !c.Equal(2, 3) {
		t.Error("-0 and +0 should compare equal")
	}
	if !c.Less(0, 4) {
		t.Error("NaN should order before every number")
	}
}

// TestComparator_Consistency checks equal(a,b) == !less(a,b) && !less(b,a)
// over every pair of a mixed-type mesh.
func TestComparator_Consistency(t *testing.T) {
	m := randomMesh(40, 3, 1)
	c, err := NewComparator(m)
	if err != nil {
		t.Fatalf("NewComparator: %v", err)
	}

	n := m.VertexCount()
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			eq := c.Equal(a, b)
			if eq != (!c.Less(a, b) && !c.Less(b, a)) {
				t.Fatalf("inconsistent predicates for %d,%d", a, b)
			}
			if c.Less(a, b) && c.Less(b, a) {
				t.Fatalf("asymmetry violated for %d,%d", a, b)
			}
		}
	}
}

func TestComparator_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		mesh *geom.Mesh
	}{
		{
			name: "foreign array type",
			mesh: &geom.Mesh{
				Position: geom.Vec3f([3]float32{}),
				Normal:   halfArray{n: 1},
			},
		},
		{
			name: "five components",
			mesh: &geom.Mesh{
				Position: geom.NewArray(5, make([]float32, 5)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewComparator(tt.mesh)
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("expected ErrUnsupportedFormat, got %v", err)
			}
		})
	}
}
