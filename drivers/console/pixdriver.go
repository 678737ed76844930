package console

import (
	"image"
	"image/color"
	"image/draw"
)

// filler is implemented by surfaces with a faster fill than per pixel draws.
type filler interface {
	Fill(r image.Rectangle, c color.Color) error
}

// driver implements pix.Driver on top of a draw.Image.
type driver struct {
	dst  draw.Image
	fill image.Uniform
	err  error
}

func (d *driver) Draw(r image.Rectangle, src image.Image, sp image.Point,
	mask image.Image, mp image.Point, op draw.Op) {
	draw.DrawMask(d.dst, r, src, sp, mask, mp, op)
}

func (d *driver) Fill(r image.Rectangle) {
	if f, ok := d.dst.(filler); ok {
		if err := f.Fill(r, d.fill.C); err != nil && d.err == nil {
			d.err = err
		}
		return
	}
	d.Draw(r, &d.fill, image.Point{}, nil, image.Point{}, draw.Over)
}

func (d *driver) SetColor(c color.Color) {
	d.fill.C = c
}

func (d *driver) SetDir(dir int) image.Rectangle {
	return d.dst.Bounds()
}

func (d *driver) Flush() {}

func (d *driver) Err(clear bool) error {
	err := d.err
	if clear {
		d.err = nil
	}
	return err
}
