package ta

import (
	"image/color"
	"math"

	"github.com/clktmr/naomi/holly"
)

// SetBackgroundColor sets the color of the background plane, which is
// visible wherever no polygon was rendered.
func (p *TA) SetBackgroundColor(c color.Color) error {
	p.bgColor = rgb0888(c)
	return p.writeBackground()
}

// BackgroundColor returns the background plane color in RGB0888.
func (p *TA) BackgroundColor() uint32 { return p.bgColor }

// writeBackground stores the background plane: the mode words followed by
// three vertices of a screen sized quad.
func (p *TA) writeBackground() error {
	return holly.StoreWords(p.dev.VRAM, p.layout.Background.Addr,
		backgroundPlane(float32(p.mode.Width()), float32(p.mode.Height()), p.bgColor))
}

func backgroundPlane(w, h float32, rgb uint32) []uint32 {
	z := math.Float32bits(BackgroundZ)
	f := math.Float32bits
	return []uint32{
		Mode1DepthGreater | Mode1Gouraud,
		Mode2SrcBlendOne | Mode2DstBlendZero | Mode2FogDisabled |
			Mode2IgnoreTexAlpha | Mode2MipmapD100 | Mode2TexModulate,
		0,
		f(0), f(0), z, rgb,
		f(w), f(0), z, rgb,
		f(0), f(h), z, rgb,
	}
}

func rgb0888(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return (r>>8)<<16 | (g>>8)<<8 | b>>8
}
