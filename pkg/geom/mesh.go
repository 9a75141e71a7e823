package geom

import "fmt"

// Mesh holds parallel per-vertex attribute arrays and the draw calls that
// reference them. A nil Array means the channel is absent.
type Mesh struct {
	Name string

	Position       Array
	Normal         Array
	Color          Array
	SecondaryColor Array
	FogCoord       Array
	TexCoords      []Array // Indexed by texture unit
	Attribs        []Array // Generic attributes in declaration order

	DrawCalls []DrawCall
}

// Channels returns the present channels in their fixed order: position,
// normal, color, secondary color, fog coordinate, texture units ascending,
// then generic attributes in declaration order.
func (m *Mesh) Channels() []Channel {
	channels := make([]Channel, 0, 5+len(m.TexCoords)+len(m.Attribs))
	add := func(id ChannelID, a Array) {
		if a != nil {
			channels = append(channels, Channel{ID: id, Array: a})
		}
	}

	add(ChannelID{Kind: Position}, m.Position)
	add(ChannelID{Kind: Normal}, m.Normal)
	add(ChannelID{Kind: Color}, m.Color)
	add(ChannelID{Kind: SecondaryColor}, m.SecondaryColor)
	add(ChannelID{Kind: FogCoord}, m.FogCoord)
	for k, a := range m.TexCoords {
		add(TexUnit(k), a)
	}
	for k, a := range m.Attribs {
		add(AttribIndex(k), a)
	}
	return channels
}

// Channel returns the array stored in the given slot, or nil.
func (m *Mesh) Channel(id ChannelID) Array {
	switch id.Kind {
	case Position:
		return m.Position
	case Normal:
		return m.Normal
	case Color:
		return m.Color
	case SecondaryColor:
		return m.SecondaryColor
	case FogCoord:
		return m.FogCoord
	case TexCoord:
		if id.Unit >= 0 && id.Unit < len(m.TexCoords) {
			return m.TexCoords[id.Unit]
		}
	case Attrib:
		if id.Unit >= 0 && id.Unit < len(m.Attribs) {
			return m.Attribs[id.Unit]
		}
	}
	return nil
}

// SetChannel stores a in the given slot, growing the texture unit or
// generic attribute tables as needed. Passing nil removes the channel.
func (m *Mesh) SetChannel(id ChannelID, a Array) error {
	switch id.Kind {
	case Position:
		m.Position = a
	case Normal:
		m.Normal = a
	case Color:
		m.Color = a
	case SecondaryColor:
		m.SecondaryColor = a
	case FogCoord:
		m.FogCoord = a
	case TexCoord:
		if id.Unit < 0 {
			return fmt.Errorf("invalid texture unit %d", id.Unit)
		}
		m.TexCoords = growSlots(m.TexCoords, id.Unit)
		m.TexCoords[id.Unit] = a
	case Attrib:
		if id.Unit < 0 {
			return fmt.Errorf("invalid attribute index %d", id.Unit)
		}
		m.Attribs = growSlots(m.Attribs, id.Unit)
		m.Attribs[id.Unit] = a
	default:
		return fmt.Errorf("unknown channel kind %s", id.Kind)
	}
	return nil
}

func growSlots(slots []Array, k int) []Array {
	for len(slots) <= k {
		slots = append(slots, nil)
	}
	return slots
}

// VertexCount returns the number of vertices, read from the position
// channel or, when position is absent, from generic attribute 0 (which
// aliases position in GL). A mesh with neither has no vertices.
func (m *Mesh) VertexCount() int {
	if m.Position != nil {
		return m.Position.Len()
	}
	if len(m.Attribs) > 0 && m.Attribs[0] != nil {
		return m.Attribs[0].Len()
	}
	return 0
}

// IndexCount returns the total number of indices over all draw calls.
func (m *Mesh) IndexCount() int {
	total := 0
	for _, dc := range m.DrawCalls {
		total += dc.Count()
	}
	return total
}

// Clone returns a copy of the slot tables and draw-call list. Arrays and
// draw calls themselves are shared.
func (m *Mesh) Clone() *Mesh {
	c := *m
	c.TexCoords = append([]Array(nil), m.TexCoords...)
	c.Attribs = append([]Array(nil), m.Attribs...)
	c.DrawCalls = append([]DrawCall(nil), m.DrawCalls...)
	return &c
}
