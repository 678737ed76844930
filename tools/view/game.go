package view

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/clktmr/naomi/drivers/console"
	"github.com/clktmr/naomi/holly/sim"
	"github.com/clktmr/naomi/holly/ta"
	"github.com/clktmr/naomi/holly/video"
	"github.com/clktmr/naomi/texture"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// game implements ebiten.Game. Every update renders and presents one frame,
// the window shows the front buffer.
type game struct {
	m   *sim.Machine
	d   *video.Display
	p   *ta.TA
	con *console.Console
	tex *texture.Texture

	stop func()

	frame  int
	paused bool
	rgba   *image.RGBA
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.con.Reset()
	}
	if g.paused && !inpututil.IsKeyJustPressed(ebiten.KeyN) {
		return nil
	}
	return g.step()
}

func (g *game) step() error {
	g.frame++
	if err := g.p.SetBackgroundColor(sweep(g.frame)); err != nil {
		return err
	}
	if err := g.submitScene(); err != nil {
		return err
	}
	if err := g.p.Render(g.d.RenderTarget()); err != nil {
		return err
	}
	if g.tex != nil {
		fb := g.d.Framebuffer()
		r := g.tex.Bounds().Add(image.Pt(16, 16)).Intersect(fb.Bounds())
		draw.Draw(fb, r, g.tex, image.Point{}, draw.Src)
	}
	if g.frame%60 == 0 {
		s := g.m.Stats()
		fmt.Fprintf(g.con, "frame %d: %d renders, %d commands\n", g.frame, s.Renders, s.Commands)
	}
	return g.d.Present()
}

// sweep returns the background color of frame n.
func sweep(n int) color.Color {
	v := uint8(n)
	return color.RGBA{v, 0x20, 0xff - v, 0xff}
}

// submitScene sends a triangle to every list.
func (g *game) submitScene() error {
	w, h := float32(g.d.Width()), float32(g.d.Height())
	for i, l := range []ta.List{ta.Opaque, ta.Transparent, ta.PunchThrough} {
		x := float32(i) * w / 3
		g.p.CommitBegin()
		hdr := ta.PolygonHeader(l, ta.Mode1DepthGreater|ta.Mode1Gouraud,
			ta.Mode2SrcBlendOne|ta.Mode2DstBlendZero|ta.Mode2FogDisabled, 0)
		cmds := []ta.Command{
			hdr,
			ta.Vertex(x, h, 1, 0xffff0000, false),
			ta.Vertex(x+w/6, h/2, 1, 0xff00ff00, false),
			ta.Vertex(x+w/3, h, 1, 0xff0000ff, true),
		}
		for _, cmd := range cmds {
			if err := g.p.Submit(cmd[:]); err != nil {
				return err
			}
		}
		if err := g.p.CommitEnd(); err != nil {
			return err
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	front := g.d.Front()
	buf, err := g.m.Frame(front.Addr(), front.Region().Size)
	if err != nil {
		return
	}
	if g.rgba == nil {
		g.rgba = image.NewRGBA(image.Rect(0, 0, g.d.Width(), g.d.Height()))
	}
	decode(g.rgba, buf, front.Depth())
	screen.WritePixels(g.rgba.Pix)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.d.Width(), g.d.Height()
}

// decode converts raw framebuffer pixels to dst.
func decode(dst *image.RGBA, src []byte, depth video.ColorDepth) {
	n := min(len(dst.Pix)/4, len(src)/int(depth))
	for i := range n {
		var c color.Color
		if depth == video.RGB1555 {
			c = video.RGB555(binary.LittleEndian.Uint16(src[2*i:]))
		} else {
			c = video.RGB888(binary.LittleEndian.Uint32(src[4*i:]))
		}
		r, g, b, _ := c.RGBA()
		dst.Pix[4*i+0] = uint8(r >> 8)
		dst.Pix[4*i+1] = uint8(g >> 8)
		dst.Pix[4*i+2] = uint8(b >> 8)
		dst.Pix[4*i+3] = 0xff
	}
}
