package geom

import "fmt"

// ChannelKind names a per-vertex attribute slot.
type ChannelKind uint8

const (
	Position ChannelKind = iota
	Normal
	Color
	SecondaryColor
	FogCoord
	TexCoord
	Attrib
)

var channelNames = [...]string{
	Position:       "position",
	Normal:         "normal",
	Color:          "color",
	SecondaryColor: "secondary_color",
	FogCoord:       "fog_coord",
	TexCoord:       "texcoord",
	Attrib:         "attrib",
}

// String returns the snake_case channel kind name.
func (k ChannelKind) String() string {
	if int(k) < len(channelNames) {
		return channelNames[k]
	}
	return fmt.Sprintf("Unknown(%d)", k)
}

// ParseChannelKind returns the channel kind for its snake_case name.
func ParseChannelKind(name string) (ChannelKind, bool) {
	for i, n := range channelNames {
		if n == name {
			return ChannelKind(i), true
		}
	}
	return 0, false
}

// ChannelID identifies one attribute slot. Unit selects the texture unit
// for TexCoord and the attribute index for Attrib; it is zero otherwise.
type ChannelID struct {
	Kind ChannelKind
	Unit int
}

// String returns "position", "texcoord[1]", "attrib[3]", etc.
func (id ChannelID) String() string {
	if id.Kind == TexCoord || id.Kind == Attrib {
		return fmt.Sprintf("%s[%d]", id.Kind, id.Unit)
	}
	return id.Kind.String()
}

// TexUnit returns the channel id of texture unit k.
func TexUnit(k int) ChannelID {
	return ChannelID{Kind: TexCoord, Unit: k}
}

// AttribIndex returns the channel id of generic attribute k.
func AttribIndex(k int) ChannelID {
	return ChannelID{Kind: Attrib, Unit: k}
}

// Channel is a present attribute slot and its array.
type Channel struct {
	ID    ChannelID
	Array Array
}
