package ta

import (
	"github.com/clktmr/naomi/debug"
	"github.com/clktmr/naomi/holly"
)

// DescriptorWords is the size of a tile descriptor in words: the control word
// followed by the opaque, opaque modifier, transparent, transparent modifier
// and punch-through object pointers.
const DescriptorWords = 6

const (
	tileEOB    = 1 << 31
	tileAbsent = 0x8000_0000
)

// Descriptors builds the tile table for a render target of g tiles. Lists
// not in populated are marked absent, pointing at the last written object
// address.
func Descriptors(l Layout, g Grid, populated ListSet) []uint32 {
	words := make([]uint32, 0, (g.Tiles()+1)*DescriptorWords)

	// The hardware needs a dummy tile in front of the real ones.
	words = append(words, 0x1000_0000,
		tileAbsent, tileAbsent, tileAbsent, tileAbsent, tileAbsent)

	var last uint32
	entry := func(list List, idx int) uint32 {
		size := l.ObjectSize[list]
		if size == 0 || !populated.Has(list) {
			return tileAbsent | last
		}
		last = l.Object[list].Addr.Offset() + uint32(idx*size)
		return last
	}

	// The hardware walks the tiles column by column.
	for x := range g.W {
		for y := range g.H {
			idx := x + y*g.W
			ctrl := uint32(y)<<8 | uint32(x)<<2
			if x == g.W-1 && y == g.H-1 {
				ctrl |= tileEOB
			}
			opaque := entry(Opaque, idx)
			opaqueMod := tileAbsent | last
			transparent := entry(Transparent, idx)
			transparentMod := tileAbsent | last
			punch := entry(PunchThrough, idx)
			words = append(words, ctrl, opaque, opaqueMod, transparent, transparentMod, punch)
		}
	}
	return words
}

// writeDescriptors stores the tile table for the current frame.
func (p *TA) writeDescriptors() error {
	words := Descriptors(p.layout, p.grid, p.lists.populated)
	debug.Assert(4*len(words) <= p.layout.Tiles.Size, "ta: tile descriptors overflow")
	if debug.Enabled {
		eob := 0
		for i := DescriptorWords; i < len(words); i += DescriptorWords {
			if words[i]&tileEOB != 0 {
				eob++
			}
		}
		debug.Assert(eob == 1, "ta: tile table needs exactly one end of buffer")
	}
	holly.Logger().Debug("ta: tile descriptors", "grid", p.grid, "populated", p.lists.populated)
	return holly.StoreWords(p.dev.VRAM, p.layout.Tiles.Addr, words)
}
