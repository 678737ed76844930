package video

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"

	"github.com/clktmr/naomi/holly"
)

// Surface is a framebuffer in video memory. It implements draw.Image, so all
// the drawing tools from the standard library can be used. It's slow though,
// every pixel is a bus access.
//
// On vertically mounted monitors the surface is rotated, so (0, 0) is always
// the top left corner as seen by the player.
type Surface struct {
	mem      holly.Memory
	addr     holly.Addr
	width    int // framebuffer pixels per line
	height   int
	depth    ColorDepth
	vertical bool
}

func (s *Surface) Addr() holly.Addr        { return s.addr }
func (s *Surface) Depth() ColorDepth       { return s.depth }
func (s *Surface) ColorModel() color.Model { return s.depth.Model() }

// Region returns the video memory backing the surface.
func (s *Surface) Region() holly.Region {
	return holly.Region{Addr: s.addr, Size: s.depth.Bytes(s.width * s.height)}
}

func (s *Surface) Bounds() image.Rectangle {
	if s.vertical {
		return image.Rect(0, 0, s.height, s.width)
	}
	return image.Rect(0, 0, s.width, s.height)
}

// pixAddr returns the address of the pixel at (x, y) in player coordinates.
func (s *Surface) pixAddr(x, y int) holly.Addr {
	if s.vertical {
		x, y = s.width-1-y, x
	}
	return s.addr.Add(s.depth.Bytes(y*s.width + x))
}

func (s *Surface) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(s.Bounds())) {
		return color.RGBA{}
	}
	var buf [4]byte
	px := buf[:s.depth]
	if _, err := s.mem.ReadAt(px, int64(s.pixAddr(x, y))); err != nil {
		return color.RGBA{}
	}
	if s.depth == RGB1555 {
		return RGB555(binary.LittleEndian.Uint16(px))
	}
	return RGB888(binary.LittleEndian.Uint32(px))
}

func (s *Surface) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(s.Bounds())) {
		return
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], s.depth.Pixel(c))
	s.mem.WriteAt(buf[:s.depth], int64(s.pixAddr(x, y)))
}

func (s *Surface) Draw(r image.Rectangle, src image.Image, sp image.Point,
	mask image.Image, mp image.Point, op draw.Op) {
	draw.DrawMask(s, r, src, sp, mask, mp, op)
}

// Fill sets all pixels in r to c.
func (s *Surface) Fill(r image.Rectangle, c color.Color) error {
	r = r.Intersect(s.Bounds())
	if r.Empty() {
		return nil
	}
	word := s.depth.Pattern(c)
	if s.vertical {
		// Columns in player coordinates are lines in the framebuffer.
		for x := r.Min.X; x < r.Max.X; x++ {
			start := s.pixAddr(x, r.Max.Y-1)
			if err := holly.FillPattern(s.mem, start, word, s.depth.Bytes(r.Dy())); err != nil {
				return err
			}
		}
		return nil
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		if err := holly.FillPattern(s.mem, s.pixAddr(r.Min.X, y), word, s.depth.Bytes(r.Dx())); err != nil {
			return err
		}
	}
	return nil
}

// RGB555 is a pixel of an RGB1555 framebuffer. The display ignores the top
// bit.
type RGB555 uint16

func (c RGB555) RGBA() (r, g, b, a uint32) {
	return widen5(uint32(c >> 10)), widen5(uint32(c >> 5)), widen5(uint32(c)), 0xffff
}

// widen5 replicates the low 5 bits of v to 16 bits.
func widen5(v uint32) uint32 {
	v &= 0x1f
	return v<<11 | v<<6 | v<<1 | v>>4
}

// RGB888 is a pixel of an RGB0888 framebuffer.
type RGB888 uint32

func (c RGB888) RGBA() (r, g, b, a uint32) {
	r = uint32(c>>16&0xff) * 0x101
	g = uint32(c>>8&0xff) * 0x101
	b = uint32(c&0xff) * 0x101
	return r, g, b, 0xffff
}

var (
	RGB555Model color.Model = color.ModelFunc(rgb555Model)
	RGB888Model color.Model = color.ModelFunc(rgb888Model)
)

func rgb555Model(c color.Color) color.Color {
	if _, ok := c.(RGB555); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return RGB555((r>>11)<<10 | (g>>11)<<5 | b>>11)
}

func rgb888Model(c color.Color) color.Color {
	if _, ok := c.(RGB888); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return RGB888((r>>8)<<16 | (g>>8)<<8 | b>>8)
}

func (d ColorDepth) Model() color.Model {
	if d == RGB1555 {
		return RGB555Model
	}
	return RGB888Model
}

// Pixel returns c encoded in the framebuffer format.
func (d ColorDepth) Pixel(c color.Color) uint32 {
	if d == RGB1555 {
		return uint32(rgb555Model(c).(RGB555))
	}
	return uint32(rgb888Model(c).(RGB888))
}

// Pattern returns a word filled with pixels of color c.
func (d ColorDepth) Pattern(c color.Color) uint32 {
	px := d.Pixel(c)
	if d == RGB1555 {
		return px | px<<16
	}
	return px
}
