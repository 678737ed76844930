// Package video sets up the display and presents double buffered frames in
// sync with the vertical blank.
//
// Two framebuffers alternate between being displayed and drawn to. A third,
// smaller scratch region follows them and is free for any use. The tile
// accelerator's buffers start after the scratch region.
package video

import (
	"errors"
	"fmt"
	"image/color"
	"image/draw"
	"sync/atomic"

	"github.com/clktmr/naomi/holly"
)

// ScratchSize is the size of the scratch region.
const ScratchSize = 128 << 10

var ErrColorDepth = errors.New("video: color depth must be RGB1555 or RGB0888")

// Render and display pixel formats.
const (
	renderRGB0555 = 0
	renderRGB0888 = 5
	renderDither  = 1 << 3

	displayRGB1555 = 0
	displayRGB0888 = 3
)

const (
	scalerProgressive = 0x400
	scalerInterlaced  = 0x1_0400
)

// Display is the active video mode together with its framebuffers.
type Display struct {
	dev      *holly.Device
	sync     holly.SyncSource
	mode     Mode
	depth    ColorDepth
	vertical bool
	dither   bool

	renderCfg  uint32
	offset     [3]uint32 // front/back buffers and scratch
	back       int       // buffer currently drawn to
	savedVIntr uint32

	overlay func(draw.Image)
	bgSet   bool
	bgWord  uint32

	swapReq *holly.IntrInput[int] // consumed by the vblank handler
	swapped holly.Note
	vblanks atomic.Uint64
}

// Option configures a Display.
type Option func(*Display)

// Vertical rotates all surfaces for monitors mounted in portrait
// orientation.
func Vertical() Option { return func(d *Display) { d.vertical = true } }

// NoDither disables dithering of rendered RGB1555 frames.
func NoDither() Option { return func(d *Display) { d.dither = false } }

// WithSync makes Present wait as s decides instead of following the
// interrupt enable state. With [holly.Spin] the beam is polled even while
// interrupts are enabled.
func WithSync(s holly.SyncSource) Option { return func(d *Display) { d.sync = s } }

// Init activates mode and clears both framebuffers. It returns after the
// first vertical blank.
func Init(dev *holly.Device, mode Mode, depth ColorDepth, opts ...Option) (*Display, error) {
	if depth != RGB1555 && depth != RGB0888 {
		return nil, ErrColorDepth
	}
	if mode.Width <= 0 || mode.Height <= 0 {
		return nil, fmt.Errorf("video: invalid mode %v", mode)
	}
	d := &Display{
		dev:     dev,
		sync:    dev.IRQ,
		mode:    mode,
		depth:   depth,
		dither:  true,
		swapReq: holly.NewIntrInput(0),
	}
	for _, opt := range opts {
		opt(d)
	}

	switch {
	case depth == RGB0888:
		d.renderCfg = renderRGB0888
	case d.dither:
		d.renderCfg = renderDither | renderRGB0555
	default:
		d.renderCfg = renderRGB0555
	}

	size := uint32(depth.Bytes(mode.Width * mode.Height))
	d.offset[0] = 0
	d.offset[1] = d.offset[0] + size
	d.offset[2] = d.offset[1] + size

	// Keep the scratch region at the same place for smaller modes, textures
	// placed after it must not move.
	if ref := uint32(depth.Bytes(640 * 480)); d.offset[2] < d.offset[0]+2*ref {
		d.offset[2] = d.offset[0] + 2*ref
	}

	restore := dev.IRQ.Disable()
	defer restore()

	if err := d.fill(holly.Region{Addr: d.addr(0), Size: int(2 * size)}, 0); err != nil {
		return nil, err
	}

	d.initRegisters()

	// Entering the vblank above latched the interrupt.
	dev.IRQ.Clear(holly.IntrVBlankIn)
	dev.IRQ.SetHandler(holly.IntrVBlankIn, d.vblankHandler)
	dev.IRQ.Enable(holly.IntrVBlankIn)

	holly.Logger().Info("video: initialized", "mode", mode, "depth", depth, "vertical", d.vertical)
	return d, nil
}

func (d *Display) initRegisters() {
	regs := d.dev.Regs
	mode := &d.mode

	// Timings as set up by the BIOS.
	regs.Store(holly.VRAMCfg3, 0x15d1_c955)
	regs.Store(holly.VRAMCfg1, 0x0000_0020)

	regs.Store(holly.SoftReset, 0)
	regs.Store(holly.BorderColor, 0)

	videoCfg := uint32(0x16 << 16)
	if mode.PixelDouble {
		videoCfg |= 1 << 8
	}
	regs.Store(holly.VideoCfg, videoCfg)

	displayCfg := uint32(displayRGB1555 << 2)
	if d.depth == RGB0888 {
		displayCfg = displayRGB0888 << 2
	}
	if mode.PixelClockDouble {
		displayCfg |= 1 << 23
	}
	if mode.LineDouble {
		displayCfg |= 1 << 1
	}
	regs.Store(holly.FBDisplayCfg, displayCfg)

	d.SetTARegisters()

	d.show(0)
	d.back = 1

	d.savedVIntr = regs.Load(holly.VBlankIntr)

	words := uint32(mode.Width / 4 * int(d.depth))
	if mode.Interlaced {
		regs.Store(holly.FBDisplaySize, (words+1)<<20|uint32(mode.Height-1)/2<<10|(words-1))
	} else {
		regs.Store(holly.FBDisplaySize, 1<<20|uint32(mode.Height-1)<<10|(words-1))
	}

	regs.Store(holly.VBlankIntr, mode.VBlankIntEnd<<16|mode.VBlankIntStart)
	regs.Store(holly.HPos, mode.HPos)
	regs.Store(holly.VPos, mode.VPos<<16|mode.VPos)
	regs.Store(holly.VBlank, mode.VBlankEnd<<16|mode.VBlankStart)
	regs.Store(holly.HBlank, mode.HBlankEnd<<16|mode.HBlankStart)
	regs.Store(holly.SyncLoad, mode.VSync<<16|mode.HSync)

	syncCfg := uint32(1 << 8) // enable sync generator
	if mode.Interlaced {
		syncCfg |= 1<<6 | 1<<4 // NTSC, interlace
	}
	regs.Store(holly.SyncCfg, syncCfg)

	regs.Store(holly.VideoCfg, regs.Load(holly.VideoCfg)&^(1<<3)) // video output
	regs.Store(holly.FBDisplayCfg, regs.Load(holly.FBDisplayCfg)|1)

	d.waitVBlank()
}

// SetTARegisters programs the render target format. The TA resets these
// registers, so they are applied again before every render pass.
func (d *Display) SetTARegisters() {
	regs := d.dev.Regs
	regs.Store(holly.FBRenderCfg, d.renderCfg)
	regs.Store(holly.FBRenderModulo, uint32(d.depth.Bytes(d.mode.Width)/8))
	regs.Store(holly.FBClipX, uint32(d.mode.Width-1)<<16)
	if d.mode.Interlaced {
		regs.Store(holly.Scaler, scalerInterlaced)
	} else {
		regs.Store(holly.Scaler, scalerProgressive)
	}
	regs.Store(holly.FBClipY, uint32(d.mode.Height-1)<<16)
}

// Close restores the vblank configuration found by Init and stops handling
// vblank interrupts.
func (d *Display) Close() {
	restore := d.dev.IRQ.Disable()
	defer restore()
	d.dev.Regs.Store(holly.VBlankIntr, d.savedVIntr)
	d.dev.IRQ.Mask(holly.IntrVBlankIn)
	d.dev.IRQ.SetHandler(holly.IntrVBlankIn, nil)
	holly.Logger().Info("video: closed")
}

func (d *Display) addr(i int) holly.Addr {
	return holly.VRAM32 | holly.Addr(d.offset[i])
}

func (d *Display) surface(i int) *Surface {
	return &Surface{
		mem:      d.dev.VRAM,
		addr:     d.addr(i),
		width:    d.mode.Width,
		height:   d.mode.Height,
		depth:    d.depth,
		vertical: d.vertical,
	}
}

// Framebuffer returns the surface currently drawn to.
func (d *Display) Framebuffer() *Surface { return d.surface(d.back) }

// Front returns the surface currently on screen.
func (d *Display) Front() *Surface { return d.surface(d.back ^ 1) }

// RenderTarget returns the address the next frame is rendered to.
func (d *Display) RenderTarget() holly.Addr { return d.addr(d.back) }

// Scratch returns the scratch region following the framebuffers.
func (d *Display) Scratch() holly.Region {
	return holly.Region{Addr: d.addr(2), Size: ScratchSize}
}

// Width and Height return the framebuffer size. Use Framebuffer().Bounds()
// for the size as seen by the player.
func (d *Display) Width() int  { return d.mode.Width }
func (d *Display) Height() int { return d.mode.Height }

// Depth returns the size of a pixel in bytes.
func (d *Display) Depth() int { return int(d.depth) }

func (d *Display) Mode() Mode          { return d.mode }
func (d *Display) Vertical() bool      { return d.vertical }
func (d *Display) Interlaced() bool    { return d.mode.Interlaced }
func (d *Display) VBlankCount() uint64 { return d.vblanks.Load() }

// SetOverlay registers fn to draw into every frame right before it's
// presented.
func (d *Display) SetOverlay(fn func(draw.Image)) { d.overlay = fn }

// FillScreen fills the framebuffer currently drawn to with c.
func (d *Display) FillScreen(c color.Color) error {
	return d.fill(d.Framebuffer().Region(), d.depth.Pattern(c))
}

// SetBackgroundColor fills the screen with c and clears every following
// frame to c while waiting for the vertical blank. Frames rendered by the TA
// don't need this, they use the TA's background plane.
func (d *Display) SetBackgroundColor(c color.Color) error {
	d.bgWord = d.depth.Pattern(c)
	d.bgSet = true
	return d.FillScreen(c)
}

// ClearBackground stops clearing frames on present.
func (d *Display) ClearBackground() { d.bgSet = false }

func (d *Display) fill(r holly.Region, word uint32) error {
	return d.dev.Accel.Fill(r.Addr, word, r.Size)
}
