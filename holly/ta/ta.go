// Package ta drives the PowerVR2 tile accelerator. It owns the TA buffers in
// video memory, tracks which polygon lists a frame populates and sequences
// list submission and render passes with the interrupt handlers that signal
// their completion.
//
// A frame is produced by one goroutine:
//
//	p.CommitBegin()
//	p.Submit(header[:]) // polygon headers and vertices
//	p.CommitEnd()
//	p.Render(target)
//
// Every blocking call decides once whether to spin on the status bits or to
// sleep until the interrupt handler wakes it, see [holly.Sync].
package ta

import (
	"fmt"
	"image/color"

	"github.com/clktmr/naomi/holly"
)

// ModeInfo describes the active video mode.
type ModeInfo interface {
	Width() int
	Height() int
	Depth() int // bytes per pixel

	// Scratch is the last region used by the display. TA buffers start at
	// the next megabyte boundary after it.
	Scratch() holly.Region
}

// FrameRegisters re-applies the render target registers owned by the video
// mode. They appear to be reset by every render pass.
type FrameRegisters interface {
	SetTARegisters()
}

// TA is the tile accelerator state of a single [holly.Device].
type TA struct {
	dev   *holly.Device
	sync  holly.SyncSource
	mode  ModeInfo
	frame FrameRegisters
	cfg   Config

	layout  Layout
	grid    Grid
	lists   tracker
	bgColor uint32

	listDone   [ListCount]holly.Note
	renderDone holly.Note
}

const taInterrupts = holly.IntrRenderTSP | holly.IntrOpaqueList |
	holly.IntrTransparentList | holly.IntrPunchThroughList

// Palette formats.
const (
	paletteARGB1555 = 0
	paletteARGB8888 = 3
)

// New initializes the tile accelerator for the given video mode and places
// its buffers after the display's scratch region.
func New(dev *holly.Device, mode ModeInfo, frame FrameRegisters, cfg Config) (*TA, error) {
	p := &TA{
		dev:   dev,
		sync:  dev.IRQ,
		mode:  mode,
		frame: frame,
		cfg:   cfg,
		grid:  GridFor(mode.Width(), mode.Height()),
	}
	if p.grid.W > MaxGrid.W || p.grid.H > MaxGrid.H {
		return nil, fmt.Errorf("ta: %dx%d exceeds maximum resolution", mode.Width(), mode.Height())
	}

	base := holly.VRAM32 | holly.Addr(holly.AlignUp(mode.Scratch().End().Offset(), BaseAlign))
	layout, err := NewLayout(base, MaxGrid, cfg)
	if err != nil {
		return nil, err
	}
	p.layout = layout

	restore := dev.IRQ.Disable()
	defer restore()

	p.initRegisters()

	for l := Opaque; l < ListCount; l++ {
		dev.IRQ.SetHandler(l.endOfList(), p.listHandler(l))
	}
	dev.IRQ.SetHandler(holly.IntrRenderTSP, p.renderHandler)
	dev.IRQ.Clear(taInterrupts)
	dev.IRQ.Enable(taInterrupts)

	if err := p.initBuffers(); err != nil {
		p.close()
		return nil, err
	}

	holly.Logger().Info("ta: initialized", "grid", p.grid, "textures", p.layout.TextureRAM.Addr)
	holly.Logger().Debug("ta: layout", "layout", &p.layout)
	return p, nil
}

func (p *TA) initRegisters() {
	regs := p.dev.Regs

	// Translucent cache 0x200, punch-through cache 0x40, polygon discard,
	// auto sort.
	regs.Store(holly.CacheSizes, 0x200<<14|0x40<<4|1<<3)
	regs.Store(holly.PolygonCull, 0x3f80_0000) // 1.0
	regs.Store(holly.PerpendicularTri, 0)
	regs.Store(holly.SpanSortCfg, 1<<8|1<<0)

	regs.Store(holly.FogTableColor, rgb0888(color.Gray{127}))
	regs.Store(holly.FogVertexColor, rgb0888(color.Gray{127}))
	regs.Store(holly.ColorClampMin, 0x0000_0000)
	regs.Store(holly.ColorClampMax, 0xffff_ffff)

	regs.Store(holly.PixelSample, 0x7) // sample at pixel centers
	regs.Store(holly.ShadowScaling, 0)
	regs.Store(holly.FPUParams, 0x0027_df77)

	p.reset()

	regs.Store(holly.TSPCfg, 0)
	regs.Store(holly.FogDensity, 0xff07)

	palette := uint32(paletteARGB8888)
	if p.mode.Depth() == 2 {
		palette = paletteARGB1555
	}
	regs.Store(holly.PaletteMode, palette)

	// Wait for the start of the next frame.
	for regs.Load(holly.SyncStat)&holly.ScanlineMask == 0 {
	}
	for regs.Load(holly.SyncStat)&holly.ScanlineMask != 0 {
	}
}

func (p *TA) reset() {
	p.dev.Regs.Store(holly.SoftReset, 1)
	p.dev.Regs.Store(holly.SoftReset, 0)
}

// initBuffers zeroes all TA buffers and writes the background plane.
func (p *TA) initBuffers() error {
	span := p.layout.Span()
	if err := p.dev.Accel.Fill(span.Addr, 0, span.Size); err != nil {
		return err
	}
	return p.writeBackground()
}

// Close masks the TA interrupts and removes their handlers.
func (p *TA) Close() {
	restore := p.dev.IRQ.Disable()
	defer restore()
	p.close()
	holly.Logger().Info("ta: closed")
}

func (p *TA) close() {
	p.dev.IRQ.Mask(taInterrupts)
	for l := Opaque; l < ListCount; l++ {
		p.dev.IRQ.SetHandler(l.endOfList(), nil)
	}
	p.dev.IRQ.SetHandler(holly.IntrRenderTSP, nil)
}

// SetSync overrides how blocking calls wait. By default they follow the
// interrupt enable state of the device. A nil s restores the default.
//
// Forcing [holly.Spin] also turns off list classification, see Submit.
func (p *TA) SetSync(s holly.SyncSource) {
	if s == nil {
		s = p.dev.IRQ
	}
	p.sync = s
}

// Layout returns the placement of the TA buffers.
func (p *TA) Layout() Layout { return p.layout }

// Grid returns the size of the render target in tiles.
func (p *TA) Grid() Grid { return p.grid }

// Waiting returns the lists the current commit cycle will wait for.
func (p *TA) Waiting() ListSet { return p.lists.waiting }

// Populated returns the lists with content in the current frame.
func (p *TA) Populated() ListSet { return p.lists.populated }

// TextureBase returns the start of the video memory free for textures.
func (p *TA) TextureBase() holly.Addr { return p.layout.TextureRAM.Addr }
