// Package sim simulates the parts of Holly the tile accelerator and video
// packages depend on. Registers are plain memory with side effects hooked to
// the addresses that trigger hardware activity: the render start, interrupt
// acknowledge, scanline counter and the TA command FIFO.
//
// Both VRAM access paths alias the same memory, the 64-bit path's
// interleaving isn't simulated. Rendering only draws the background plane.
package sim

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/clktmr/naomi/holly"
)

// Machine is a simulated Holly. Its zero value isn't usable, use New.
type Machine struct {
	mu   sync.Mutex
	regs map[holly.Reg]uint32
	vram []byte
	line uint32

	list      int // list type of the open list, -1 if none
	acked     []holly.InterruptFlag
	stats     Stats
	onCommand func(cmd []byte)

	dev *holly.Device
}

// Stats counts hardware activity since the machine was created.
type Stats struct {
	Commands   int // records written to the FIFO, including end of list
	EndOfLists int
	Renders    int
	VBlanks    int
	StatusPoll int // reads of the interrupt status register
}

var errBusError = errors.New("sim: bus error")

// Default lines per frame if SyncLoad wasn't programmed.
const defaultLines = 525

func New() *Machine {
	m := &Machine{
		regs: make(map[holly.Reg]uint32),
		vram: make([]byte, holly.VRAMSize),
		list: -1,
	}
	m.dev = holly.NewDevice(m, vram{m}, fifo{m})
	return m
}

// Device returns the device that is backed by m.
func (m *Machine) Device() *holly.Device { return m.dev }

// Stats returns a snapshot of the activity counters.
func (m *Machine) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Acknowledged returns all interrupt flags that were cleared by writes to
// the status register, in order.
func (m *Machine) Acknowledged() []holly.InterruptFlag {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]holly.InterruptFlag(nil), m.acked...)
}

// OnCommand registers fn to be called with a copy of every record written to
// the FIFO.
func (m *Machine) OnCommand(fn func(cmd []byte)) {
	m.mu.Lock()
	m.onCommand = fn
	m.mu.Unlock()
}

// Raise latches flags in the interrupt status register and signals the
// interrupt line.
func (m *Machine) Raise(flags holly.InterruptFlag) {
	m.mu.Lock()
	m.regs[holly.IntrStatus] |= uint32(flags)
	m.mu.Unlock()
	m.dev.IRQ.Signal()
}

// VBlank moves the beam to the start of the vertical blank.
func (m *Machine) VBlank() {
	m.mu.Lock()
	m.line = m.regs[holly.VBlankIntr] & holly.ScanlineMask
	m.stats.VBlanks++
	m.mu.Unlock()
	m.Raise(holly.IntrVBlankIn)
}

// Run raises a vertical blank every period until ctx is done.
func (m *Machine) Run(ctx context.Context, period time.Duration) {
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.VBlank()
		}
	}
}

func (m *Machine) Load(r holly.Reg) uint32 {
	m.mu.Lock()
	var raise holly.InterruptFlag
	v := m.regs[r]
	switch r {
	case holly.IntrStatus:
		m.stats.StatusPoll++
	case holly.SyncStat:
		raise = m.advanceBeam()
		v = m.line
	}
	m.mu.Unlock()

	if raise != 0 {
		m.Raise(raise)
	}
	return v
}

func (m *Machine) Store(r holly.Reg, v uint32) {
	m.mu.Lock()
	var raise holly.InterruptFlag
	switch r {
	case holly.IntrStatus:
		for bit := holly.InterruptFlag(1); bit != 0; bit <<= 1 {
			if v&uint32(bit) != 0 && m.regs[r]&uint32(bit) != 0 {
				m.acked = append(m.acked, bit)
			}
		}
		m.regs[r] &^= v
	case holly.SoftReset:
		m.regs[r] = v
		if v&1 != 0 {
			m.list = -1
		}
	case holly.StartRender:
		m.render()
		m.stats.Renders++
		raise = holly.IntrRenderTSP
	default:
		m.regs[r] = v
	}
	m.mu.Unlock()

	if raise != 0 {
		m.Raise(raise)
	}
}

// advanceBeam moves the beam one line further. Returns IntrVBlankIn when it
// enters the vertical blank.
func (m *Machine) advanceBeam() holly.InterruptFlag {
	lines := m.regs[holly.SyncLoad] >> 16 & 0x3ff
	if lines == 0 {
		lines = defaultLines
	}
	m.line = (m.line + 1) % (lines + 1)
	if m.line == m.regs[holly.VBlankIntr]&holly.ScanlineMask {
		m.stats.VBlanks++
		m.regs[holly.IntrStatus] |= uint32(holly.IntrVBlankIn)
		return holly.IntrVBlankIn
	}
	return 0
}

func (m *Machine) word(a holly.Addr) uint32 {
	off := a.Offset()
	if int(off)+4 > len(m.vram) {
		return 0
	}
	return binary.LittleEndian.Uint32(m.vram[off:])
}

// render draws the background plane into the render target. The plane's
// color is taken from the first vertex of the quad ISP_BACKGND_T points at.
func (m *Machine) render() {
	width := m.regs[holly.FBClipX]>>16&0x7ff + 1
	height := m.regs[holly.FBClipY]>>16&0x3ff + 1
	stride := m.regs[holly.FBRenderModulo] * 8
	if width == 0 || stride == 0 {
		return
	}
	depth := stride / width

	instr := m.regs[holly.BackgroundInstr]
	bg := holly.Addr(m.regs[holly.ParamBase] + (instr&0x00ff_ffff)>>1)
	color := m.word(bg.Add(4 * 6)) // 3 header words, then x, y, z, color

	// Background plane deeper than the clip value is culled.
	zbits := m.word(bg.Add(4 * 5))
	if math.Float32frombits(zbits) < math.Float32frombits(m.regs[holly.BackgroundClip]) {
		return
	}

	var pix [4]byte
	if depth == 2 {
		r, g, b := color>>19&0x1f, color>>11&0x1f, color>>3&0x1f
		binary.LittleEndian.PutUint16(pix[:], uint16(r<<10|g<<5|b))
	} else {
		binary.LittleEndian.PutUint32(pix[:], color&0x00ff_ffff)
	}

	target := holly.Addr(m.regs[holly.FBRenderAddr1]).Offset()
	for y := uint32(0); y < height; y++ {
		for x := uint32(0); x < width; x++ {
			off := target + y*stride + x*depth
			if int(off+depth) > len(m.vram) {
				return
			}
			copy(m.vram[off:off+depth], pix[:depth])
		}
	}
}

// vram implements holly.Memory for both VRAM access paths.
type vram struct{ m *Machine }

func (v vram) span(off int64, n int) ([]byte, error) {
	a := holly.Addr(off)
	for _, base := range []holly.Addr{holly.VRAM64, holly.VRAM32} {
		if a >= base && int64(a)+int64(n) <= int64(base)+holly.VRAMSize {
			start := int(a - base)
			return v.m.vram[start : start+n], nil
		}
	}
	return nil, errBusError
}

func (v vram) ReadAt(p []byte, off int64) (int, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	mem, err := v.span(off, len(p))
	if err != nil {
		return 0, err
	}
	return copy(p, mem), nil
}

func (v vram) WriteAt(p []byte, off int64) (int, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	mem, err := v.span(off, len(p))
	if err != nil {
		return 0, err
	}
	return copy(mem, p), nil
}

// Frame returns a copy of n bytes of video memory at a, e.g. the currently
// displayed surface.
func (m *Machine) Frame(a holly.Addr, n int) ([]byte, error) {
	buf := make([]byte, n)
	_, err := vram{m}.ReadAt(buf, int64(a))
	return buf, err
}
