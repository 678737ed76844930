// Package console draws the tail of a text log over the framebuffer. Install
// it with [video.Display.SetOverlay] to get debug output on screen.
package console

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/embeddedgo/display/font/subfont"
	"github.com/embeddedgo/display/pix"
	"golang.org/x/image/font/basicfont"
)

const maxSize = 16 << 10

type Console struct {
	mu  sync.Mutex
	buf bytes.Buffer

	fg, bg color.Color
	face   *subfont.Face
}

func NewConsole() *Console {
	return &Console{
		fg:   color.White,
		face: newFace(basicfont.Face7x13),
	}
}

// SetColors sets the text and background color. A nil background draws the
// text over the frame.
func (v *Console) SetColors(fg, bg color.Color) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fg, v.bg = fg, bg
}

func (v *Console) Write(p []byte) (n int, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	n, err = v.buf.Write(p)
	if v.buf.Len() > maxSize {
		v.buf.Next(v.buf.Len() - maxSize)
	}
	return
}

// Reset clears the console.
func (v *Console) Reset() {
	v.mu.Lock()
	v.buf.Reset()
	v.mu.Unlock()
}

// tail returns the last lines of the log.
func (v *Console) tail(lines int) []byte {
	b := bytes.TrimSuffix(v.buf.Bytes(), []byte{'\n'})
	idx := len(b)
	for ; lines > 0; lines-- {
		idx = bytes.LastIndexByte(b[:idx], '\n')
		if idx < 0 {
			return b
		}
	}
	return b[idx+1:]
}

// Draw draws as many of the latest lines as fit on dst.
func (v *Console) Draw(dst draw.Image) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.buf.Len() == 0 {
		return
	}

	disp := pix.NewDisplay(&driver{dst: dst})
	a := disp.NewArea(disp.Bounds())
	text := v.tail(a.Bounds().Dy() / int(v.face.Height))

	if v.bg != nil {
		lines := bytes.Count(text, []byte{'\n'}) + 1
		r := a.Bounds()
		r.Max.Y = r.Min.Y + lines*int(v.face.Height)
		a.SetColor(v.bg)
		a.Fill(r)
	}

	tw := a.NewTextWriter(v.face)
	tw.SetColor(v.fg)
	tw.Pos = image.Point{}
	tw.Wrap = pix.BreakSpace
	tw.WriteString(string(text))
	a.Flush()
}
