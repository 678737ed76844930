package video

import (
	"github.com/clktmr/naomi/debug"
	"github.com/clktmr/naomi/holly"
)

// Present shows the current framebuffer at the next vertical blank and
// returns the other one for drawing the next frame. If a background color
// is set, the returned framebuffer is cleared to it.
//
// With interrupts enabled the calling goroutine sleeps until the vblank
// handler swapped the buffers. Otherwise the scanline counter is polled.
func (d *Display) Present() error {
	if d.overlay != nil {
		d.overlay(d.Framebuffer())
	}

	var clear holly.Region
	if d.bgSet {
		clear = d.surface(d.back ^ 1).Region()
	}

	if d.sync.Sync() == holly.Spin {
		d.waitVBlank()
		d.show(d.back)
	} else {
		d.swapped.Clear()
		d.swapReq.Store(d.back)
		d.swapped.Sleep()
	}
	d.back ^= 1

	// The caller expects to draw right after we return, so finish clearing
	// now, fast or slow.
	if clear.Size > 0 {
		return d.fill(clear, d.bgWord)
	}
	return nil
}

// waitVBlank polls until the beam enters the vertical blank. This is where
// the vblank interrupt would be raised.
func (d *Display) waitVBlank() {
	regs := d.dev.Regs
	line := regs.Load(holly.VBlankIntr) & holly.ScanlineMask
	for regs.Load(holly.SyncStat)&holly.ScanlineMask != line {
	}
}

// show displays framebuffer i. Both fields start one line apart.
func (d *Display) show(i int) {
	debug.Assert(i == 0 || i == 1, "video: scratch buffer can't be shown")
	regs := d.dev.Regs
	regs.Store(holly.FBDisplayAddr1, d.offset[i])
	regs.Store(holly.FBDisplayAddr2, d.offset[i]+uint32(d.depth.Bytes(d.mode.Width)))
}

func (d *Display) vblankHandler() {
	d.dev.IRQ.Clear(holly.IntrVBlankIn)
	d.vblanks.Add(1)
	if i, ok := d.swapReq.Load(); ok {
		d.show(i)
		d.swapped.Wakeup()
	}
}
