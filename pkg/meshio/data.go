package meshio

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/vertexweld/pkg/geom"
)

// encodeData renders the flat component list of a as a flow sequence.
// Floats are written with the shortest representation that round-trips at
// their own precision.
func encodeData(a geom.Array) (*yaml.Node, error) {
	switch arr := a.(type) {
	case *geom.TypedArray[float32]:
		return sequence(arr.Data(), func(v float32) *yaml.Node { return floatNode(float64(v), 32) }), nil
	case *geom.TypedArray[float64]:
		return sequence(arr.Data(), func(v float64) *yaml.Node { return floatNode(v, 64) }), nil
	case *geom.TypedArray[int32]:
		return sequence(arr.Data(), func(v int32) *yaml.Node { return intNode(int64(v)) }), nil
	case *geom.TypedArray[uint32]:
		return sequence(arr.Data(), func(v uint32) *yaml.Node { return uintNode(uint64(v)) }), nil
	case *geom.TypedArray[int16]:
		return sequence(arr.Data(), func(v int16) *yaml.Node { return intNode(int64(v)) }), nil
	case *geom.TypedArray[uint16]:
		return sequence(arr.Data(), func(v uint16) *yaml.Node { return uintNode(uint64(v)) }), nil
	case *geom.TypedArray[int8]:
		return sequence(arr.Data(), func(v int8) *yaml.Node { return intNode(int64(v)) }), nil
	case *geom.TypedArray[uint8]:
		return sequence(arr.Data(), func(v uint8) *yaml.Node { return uintNode(uint64(v)) }), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownType, a)
}

func sequence[T geom.Scalar](data []T, scalar func(T) *yaml.Node) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	seq.Content = make([]*yaml.Node, len(data))
	for i, v := range data {
		seq.Content[i] = scalar(v)
	}
	return seq
}

func floatNode(v float64, bits int) *yaml.Node {
	var s string
	switch {
	case math.IsNaN(v):
		s = ".nan"
	case math.IsInf(v, 1):
		s = ".inf"
	case math.IsInf(v, -1):
		s = "-.inf"
	default:
		s = strconv.FormatFloat(v, 'g', -1, bits)
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Value: s}
}

func intNode(v int64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatInt(v, 10)}
}

func uintNode(v uint64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatUint(v, 10)}
}
