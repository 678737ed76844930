package ta

import (
	"encoding/binary"
	"math"
)

// Sizes of a TA command record.
const (
	ShortCommand = 32
	LongCommand  = 64
)

// Parameter control word, the first word of every command.
const (
	ParaTypeMask                = 0xe000_0000
	ParaEndOfList               = 0x0000_0000
	ParaUserClip                = 0x2000_0000
	ParaObjListSet              = 0x4000_0000
	ParaPolygon                 = 0x8000_0000
	ParaSprite                  = 0xa000_0000
	ParaVertex                  = 0xe000_0000
	ParaEndOfStrip              = 1 << 28
	ListTypeMask                = 0x0700_0000
	ListTypeOpaque              = 0 << 24
	ListTypeOpaqueModifier      = 1 << 24
	ListTypeTransparent         = 2 << 24
	ListTypeTransparentModifier = 3 << 24
	ListTypePunchThrough        = 4 << 24
	ParaGouraud                 = 1 << 1
	ParaTextured                = 1 << 3
)

// ISP/TSP instruction word (polygon mode 1).
const (
	Mode1DepthNever   = 0 << 29
	Mode1DepthLess    = 1 << 29
	Mode1DepthGreater = 4 << 29
	Mode1DepthAlways  = 7 << 29
	Mode1CullNone     = 0 << 27
	Mode1Gouraud      = 1 << 23
	Mode1Textured     = 1 << 25
)

// TSP instruction word (polygon mode 2).
const (
	Mode2SrcBlendOne         = 1 << 29
	Mode2SrcBlendSrcAlpha    = 4 << 29
	Mode2DstBlendZero        = 0 << 26
	Mode2DstBlendInvSrcAlpha = 5 << 26
	Mode2FogDisabled         = 2 << 22
	Mode2UseAlpha            = 1 << 20
	Mode2IgnoreTexAlpha      = 1 << 19
	Mode2MipmapD100          = 4 << 8
	Mode2TexDecal            = 0 << 6
	Mode2TexModulate         = 1 << 6
)

// Command is a single TA command record.
type Command [ShortCommand]byte

// PolygonHeader returns the global parameter that opens list l. Mode words are
// passed through unmodified.
func PolygonHeader(l List, mode1, mode2, texture uint32) Command {
	var c Command
	cmd := uint32(ParaPolygon) | l.listType() | ParaGouraud
	if texture != 0 {
		cmd |= ParaTextured
	}
	put(c[:], cmd, mode1, mode2, texture)
	return c
}

// Vertex returns a packed color vertex parameter.
func Vertex(x, y, z float32, argb uint32, last bool) Command {
	var c Command
	cmd := uint32(ParaVertex)
	if last {
		cmd |= ParaEndOfStrip
	}
	put(c[:], cmd, math.Float32bits(x), math.Float32bits(y), math.Float32bits(z),
		0, 0, argb, 0)
	return c
}

// EndOfList returns the command terminating the current list.
func EndOfList() Command { return Command{} }

func put(b []byte, words ...uint32) {
	for i, w := range words {
		binary.LittleEndian.PutUint32(b[4*i:], w)
	}
}

// classify returns the list a polygon command belongs to. Only polygon
// global parameters are classified, ok is false for everything else.
func classify(cmd uint32) (l List, ok bool, err error) {
	if cmd&ParaTypeMask != ParaPolygon {
		return 0, false, nil
	}
	switch cmd & ListTypeMask {
	case ListTypeOpaque:
		return Opaque, true, nil
	case ListTypeTransparent:
		return Transparent, true, nil
	case ListTypePunchThrough:
		return PunchThrough, true, nil
	}
	return 0, false, ErrUnsupportedPolygon
}
