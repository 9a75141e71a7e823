package weld

import (
	"cmp"
	"fmt"

	"github.com/Faultbox/vertexweld/pkg/geom"
)

// Comparator orders vertices of one mesh by their attribute tuples.
//
// Channels are compared in the mesh's channel order and components
// lexicographically within a channel. Less and Equal are both derived from
// Compare, so Equal(a, b) holds exactly when neither Less(a, b) nor
// Less(b, a) does.
//
// Floating-point components follow cmp.Compare: NaN equals NaN and sorts
// before every number, and -0 equals +0.
type Comparator struct {
	channels []geom.ChannelID
	compare  []func(a, b int) int
}

// NewComparator builds a comparator over every channel present on m.
func NewComparator(m *geom.Mesh) (*Comparator, error) {
	channels := m.Channels()
	c := &Comparator{
		channels: make([]geom.ChannelID, 0, len(channels)),
		compare:  make([]func(a, b int) int, 0, len(channels)),
	}
	for _, ch := range channels {
		fn, err := tupleCompare(ch.Array)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", ch.ID, err)
		}
		c.channels = append(c.channels, ch.ID)
		c.compare = append(c.compare, fn)
	}
	return c, nil
}

// Channels returns the compared channels in comparison order.
func (c *Comparator) Channels() []geom.ChannelID {
	return c.channels
}

// Compare returns -1, 0 or +1 as vertex a orders before, equal to or after
// vertex b.
func (c *Comparator) Compare(a, b int) int {
	for _, fn := range c.compare {
		if r := fn(a, b); r != 0 {
			return r
		}
	}
	return 0
}

// Less reports whether vertex a orders strictly before vertex b.
func (c *Comparator) Less(a, b int) bool {
	return c.Compare(a, b) < 0
}

// Equal reports whether every compared channel holds identical tuples for
// vertices a and b.
func (c *Comparator) Equal(a, b int) bool {
	return c.Compare(a, b) == 0
}

func tupleCompare(a geom.Array) (func(a, b int) int, error) {
	switch arr := a.(type) {
	case *geom.TypedArray[float32]:
		return compareTuples(arr)
	case *geom.TypedArray[float64]:
		return compareTuples(arr)
	case *geom.TypedArray[int32]:
		return compareTuples(arr)
	case *geom.TypedArray[uint32]:
		return compareTuples(arr)
	case *geom.TypedArray[int16]:
		return compareTuples(arr)
	case *geom.TypedArray[uint16]:
		return compareTuples(arr)
	case *geom.TypedArray[int8]:
		return compareTuples(arr)
	case *geom.TypedArray[uint8]:
		return compareTuples(arr)
	}
	return nil, unsupported(a)
}

func compareTuples[T geom.Scalar](a *geom.TypedArray[T]) (func(a, b int) int, error) {
	if !a.Format().Valid() {
		return nil, unsupported(a)
	}

	size := a.Size()
	data := a.Data()
	return func(i, j int) int {
		ti := data[i*size : (i+1)*size]
		tj := data[j*size : (j+1)*size]
		for k := range ti {
			if r := cmp.Compare(ti[k], tj[k]); r != 0 {
				return r
			}
		}
		return 0
	}, nil
}
