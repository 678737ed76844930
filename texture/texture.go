// Package texture stores paletted textures in a compact container format and
// uploads them to texture memory.
//
// A texture file is zlib compressed. It holds a header, the palette indices
// in row major order and the palette as NRGBA quadruples. The header carries
// a CRC-8 of the indices and palette.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/clktmr/naomi/holly"
	"github.com/clktmr/naomi/holly/ta"
)

var (
	ErrSize     = errors.New("texture: size must be a square power of two between 8 and 1024")
	ErrPalette  = errors.New("texture: palette must have between 1 and 256 colors")
	ErrChecksum = errors.New("texture: checksum mismatch")
	ErrFormat   = errors.New("texture: unknown file format")
)

// Texture is a square texture with 8 bit palette indices.
type Texture struct {
	*image.Paletted
}

// New returns a texture of dim*dim pixels, all set to palette index 0.
func New(dim int, palette color.Palette) (*Texture, error) {
	if err := check(dim, dim, palette); err != nil {
		return nil, err
	}
	return &Texture{image.NewPaletted(image.Rect(0, 0, dim, dim), palette)}, nil
}

// FromImage converts img to a texture using palette. Colors not in palette
// are replaced by the closest one.
func FromImage(img image.Image, palette color.Palette) (*Texture, error) {
	b := img.Bounds()
	if err := check(b.Dx(), b.Dy(), palette); err != nil {
		return nil, err
	}
	tex := &Texture{image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette)}
	draw.Draw(tex.Paletted, tex.Bounds(), img, b.Min, draw.Src)
	return tex, nil
}

func check(w, h int, palette color.Palette) error {
	if w != h || w < ta.MinTextureDim || w > ta.MaxTextureDim || w&(w-1) != 0 {
		return fmt.Errorf("%w: %dx%d", ErrSize, w, h)
	}
	if len(palette) == 0 || len(palette) > 256 {
		return ErrPalette
	}
	return nil
}

// Dim returns the edge length of the texture.
func (t *Texture) Dim() int { return t.Bounds().Dx() }

// Upload stores the texture at dst and its palette in a CLUT8 bank.
func (t *Texture) Upload(p *ta.TA, dst holly.Addr, bank int) error {
	pix := t.Pix
	if t.Stride != t.Dim() {
		return errors.New("texture: is subimage")
	}
	if err := p.LoadTexture(dst, t.Dim(), 8, pix); err != nil {
		return err
	}
	colors := make([]uint32, len(t.Palette))
	for i, c := range t.Palette {
		colors[i] = p.PaletteColor(c)
	}
	return p.SetPalette(ta.CLUT8, bank, colors)
}
