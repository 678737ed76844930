package ta

import (
	"encoding/binary"
	"errors"
	"image/color"

	"github.com/clktmr/naomi/debug"
	"github.com/clktmr/naomi/holly"
)

// ErrTextureParams is returned for texture sizes, depths or buffers that
// can't be loaded.
var ErrTextureParams = errors.New("ta: invalid texture parameters")

const (
	MinTextureDim = 8
	MaxTextureDim = 1024
)

var twiddleTab [MaxTextureDim]int

func init() {
	for x := range twiddleTab {
		// Spread the bits of x to the even bit positions.
		for bit := range 10 {
			twiddleTab[x] |= (x & (1 << bit)) << bit
		}
	}
}

// Twiddle returns the index of the texel at (x, y) in twiddled order, which
// interleaves the bits of both coordinates with x in the odd positions.
func Twiddle(x, y int) int {
	return twiddleTab[y] | twiddleTab[x]<<1
}

func validTexture(dim, depth int) bool {
	if dim < MinTextureDim || dim > MaxTextureDim || dim&(dim-1) != 0 {
		return false
	}
	return depth == 8
}

// LoadTexture converts a square, row major, 8 bit texture of dim*dim texels
// to twiddled order and stores it at dst. The texture memory is accessed in
// 16 bit words, each holding the texels of two adjacent rows.
//
// ErrTextureParams is returned without writing anything if dim isn't a power
// of two between 8 and 1024, depth isn't 8, dst is zero or src is too short.
func (p *TA) LoadTexture(dst holly.Addr, dim, depth int, src []byte) error {
	if !validTexture(dim, depth) || dst == 0 || len(src) < dim*dim {
		return ErrTextureParams
	}

	tex := make([]byte, dim*dim)
	for y := 0; y < dim; y += 2 {
		for x := range dim {
			i := Twiddle(y>>1, x)
			debug.Assert(2*i+2 <= len(tex), "ta: twiddled index out of range")
			w := uint16(src[x+y*dim]) | uint16(src[x+(y+1)*dim])<<8
			binary.LittleEndian.PutUint16(tex[2*i:], w)
		}
	}
	_, err := p.dev.VRAM.WriteAt(tex, int64(dst))
	return err
}

// Untwiddle reads back a texture stored by LoadTexture in row major order.
func (p *TA) Untwiddle(src holly.Addr, dim, depth int) ([]byte, error) {
	if !validTexture(dim, depth) || src == 0 {
		return nil, ErrTextureParams
	}
	tex := make([]byte, dim*dim)
	if _, err := p.dev.VRAM.ReadAt(tex, int64(src)); err != nil {
		return nil, err
	}

	dst := make([]byte, dim*dim)
	for y := 0; y < dim; y += 2 {
		for x := range dim {
			w := binary.LittleEndian.Uint16(tex[2*Twiddle(y>>1, x):])
			dst[x+y*dim] = byte(w)
			dst[x+(y+1)*dim] = byte(w >> 8)
		}
	}
	return dst, nil
}

// PaletteSize selects the palette format of a paletted texture.
type PaletteSize int

const (
	CLUT4 PaletteSize = iota // 16 colors, 64 banks
	CLUT8                    // 256 colors, 4 banks
)

func (s PaletteSize) entries() int {
	if s == CLUT4 {
		return 16
	}
	return 256
}

// PaletteBank returns the register of the first entry in a palette bank. It
// reports false for banks out of range.
func PaletteBank(size PaletteSize, bank int) (holly.Reg, bool) {
	var banks int
	switch size {
	case CLUT4:
		banks = 64
	case CLUT8:
		banks = 4
	default:
		return 0, false
	}
	if bank < 0 || bank >= banks {
		return 0, false
	}
	return holly.PaletteRAM + holly.Reg(4*size.entries()*bank), true
}

// SetPalette stores colors in a palette bank. Colors are in the palette
// format matching the video depth, ARGB1555 or ARGB8888.
func (p *TA) SetPalette(size PaletteSize, bank int, colors []uint32) error {
	reg, ok := PaletteBank(size, bank)
	if !ok || len(colors) > size.entries() {
		return ErrTextureParams
	}
	for i, c := range colors {
		p.dev.Regs.Store(reg+holly.Reg(4*i), c)
	}
	return nil
}

// PaletteColor encodes c in the palette format, which follows the video
// depth: ARGB1555 for 16 bit and ARGB8888 for 32 bit framebuffers.
func (p *TA) PaletteColor(c color.Color) uint32 {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	if p.mode.Depth() == 2 {
		return uint32(nc.A>>7)<<15 | uint32(nc.R>>3)<<10 | uint32(nc.G>>3)<<5 | uint32(nc.B>>3)
	}
	return uint32(nc.A)<<24 | uint32(nc.R)<<16 | uint32(nc.G)<<8 | uint32(nc.B)
}
