package ta

import (
	"math"

	"github.com/clktmr/naomi/holly"
)

// BackgroundZ is the depth of the background plane. Polygons must be in front
// of it to be visible.
const BackgroundZ float32 = 0.000001

// ZClipBits returns the ISP_BACKGND_D encoding of a depth value, which
// ignores the lowest four mantissa bits.
func ZClipBits(z float32) uint32 {
	return math.Float32bits(z) &^ 0xf
}

// RenderBegin starts rendering the lists of the current frame into the
// framebuffer at target. It doesn't wait for the render pass to finish.
func (p *TA) RenderBegin(target holly.Addr) error {
	if p.sync.Sync() == holly.Suspend {
		p.renderDone.Clear()
	}
	return p.beginRender(target, BackgroundZ)
}

func (p *TA) beginRender(target holly.Addr, zclip float32) error {
	// Descriptors are rebuilt every frame to leave out unpopulated lists.
	if err := p.writeDescriptors(); err != nil {
		return err
	}

	regs := p.dev.Regs
	cmdl := p.layout.CmdList.Addr.Offset()
	scn := target.Offset()
	bgl := uint32(p.layout.Background.Addr - p.layout.CmdList.Addr)

	regs.Store(holly.RegionBase, p.layout.Tiles.Addr.Offset())
	regs.Store(holly.ParamBase, cmdl)
	regs.Store(holly.FBRenderAddr1, scn)
	regs.Store(holly.FBRenderAddr2, scn+uint32(p.mode.Width()*p.mode.Depth()))

	// Background plane vertices are skip+3 words apart.
	const skip = 1
	regs.Store(holly.BackgroundInstr, skip<<24|(bgl&0xff_fffc)<<1)
	regs.Store(holly.BackgroundClip, ZClipBits(zclip))

	p.frame.SetTARegisters()

	regs.Store(holly.StartRender, 0xffff_ffff)
	p.lists.populated = 0
	return nil
}

// RenderWait waits for the render pass started by RenderBegin.
func (p *TA) RenderWait() {
	if p.sync.Sync() == holly.Spin {
		p.spin(holly.IntrRenderTSP)
		return
	}
	p.renderDone.Sleep()
}

// Render renders the current frame into target and waits until it's done.
func (p *TA) Render(target holly.Addr) error {
	if err := p.RenderBegin(target); err != nil {
		return err
	}
	p.RenderWait()
	return nil
}

func (p *TA) renderHandler() {
	p.dev.IRQ.Clear(holly.IntrRenderTSP)
	p.renderDone.Wakeup()
}
