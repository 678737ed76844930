package console

import (
	"image"
	"image/draw"

	"github.com/embeddedgo/display/font/subfont"
	"golang.org/x/image/font/basicfont"
)

// basicData implements [subfont.Data] for the printable ASCII range of a
// basicfont face. Glyphs are cut from the face's mask on first use.
type basicData struct {
	face   *basicfont.Face
	first  rune
	glyphs []*image.Alpha
}

func (p *basicData) Advance(i int) int {
	return p.face.Advance
}

func (p *basicData) Glyph(i int) (img image.Image, origin image.Point, advance int) {
	if p.glyphs[i] == nil {
		f := p.face
		g := image.NewAlpha(image.Rect(0, 0, f.Width, f.Height))
		// The mask stacks all glyphs of a range vertically.
		sp := image.Pt(0, (int(p.first-f.Ranges[0].Low)+i)*f.Height)
		draw.Draw(g, g.Bounds(), f.Mask, sp, draw.Src)
		p.glyphs[i] = g
	}
	return p.glyphs[i], image.Pt(-p.face.Left, p.face.Ascent), p.face.Advance
}

func newFace(f *basicfont.Face) *subfont.Face {
	const first, last = 0x20, 0x7e
	return &subfont.Face{
		Height: int16(f.Height),
		Ascent: int16(f.Ascent),
		Subfonts: []*subfont.Subfont{{
			First: first,
			Last:  last,
			Data:  &basicData{face: f, first: first, glyphs: make([]*image.Alpha, last-first+1)},
		}},
	}
}
