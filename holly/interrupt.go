package holly

import (
	"sync"
	"sync/atomic"
)

// Holly has many interrupt sources, which are all latched in the IntrStatus
// register and routed to the CPU's level 2 interrupt line. So all of these
// must be handled by [Interrupts.Dispatch].
type InterruptFlag uint32

const (
	IntrRenderVideo InterruptFlag = 1 << iota // video render end
	IntrRenderISP                             // ISP render end
	IntrRenderTSP                             // TSP render end, the render pass is finished
	IntrVBlankIn
	IntrVBlankOut
	IntrHBlank
	IntrYUV
	IntrOpaqueList // TA finished loading the opaque list
	IntrOpaqueModList
	IntrTransparentList
	IntrTransparentModList

	IntrPunchThroughList InterruptFlag = 1 << 21
)

// Sync selects how a caller waits for hardware events. It depends on the
// execution context the caller runs in.
type Sync int

const (
	// Suspend parks the calling goroutine on a [Note] that is woken by an
	// interrupt handler.
	Suspend Sync = iota
	// Spin busy-waits on hardware status bits. Used when interrupts are
	// disabled, because no handler would ever wake a parked goroutine.
	Spin
)

func (s Sync) String() string {
	if s == Spin {
		return "spin"
	}
	return "suspend"
}

// SyncSource decides the wait strategy for the current call.
type SyncSource interface {
	Sync() Sync
}

// Sync implements SyncSource, so a fixed strategy can be injected, see
// ta.TA.SetSync and video.WithSync.
func (s Sync) Sync() Sync { return s }

// Interrupts models the interrupt controller together with the CPU's interrupt
// enable state.
type Interrupts struct {
	regs Registers

	disabled atomic.Int32 // nesting depth of Disable

	mu       sync.Mutex // serializes dispatch, there is a single CPU
	handlers [32]func()
}

func NewInterrupts(regs Registers) *Interrupts {
	return &Interrupts{regs: regs}
}

// Sync returns Spin while interrupts are disabled and Suspend otherwise.
func (p *Interrupts) Sync() Sync {
	if p.disabled.Load() > 0 {
		return Spin
	}
	return Suspend
}

// Disabled reports whether interrupts are currently disabled.
func (p *Interrupts) Disabled() bool {
	return p.disabled.Load() > 0
}

// Disable disables interrupts until the returned restore function is called.
// Calls can be nested. Interrupts that became pending in the meantime are
// dispatched when the outermost restore is called.
func (p *Interrupts) Disable() (restore func()) {
	p.disabled.Add(1)
	return func() {
		if p.disabled.Add(-1) == 0 {
			p.Signal()
		}
	}
}

// Enable unmasks the interrupt sources in mask. Sources already latched in
// the status register fire right away, Clear them first to drop stale
// events.
func (p *Interrupts) Enable(mask InterruptFlag) {
	restore := p.Disable()
	defer restore()
	p.regs.Store(IntrMaskLevel2, p.regs.Load(IntrMaskLevel2)|uint32(mask))
}

// Mask masks the interrupt sources in mask.
func (p *Interrupts) Mask(mask InterruptFlag) {
	restore := p.Disable()
	defer restore()
	p.regs.Store(IntrMaskLevel2, p.regs.Load(IntrMaskLevel2)&^uint32(mask))
}

// Pending returns the latched interrupt status bits.
func (p *Interrupts) Pending() InterruptFlag {
	return InterruptFlag(p.regs.Load(IntrStatus))
}

// Clear acknowledges the interrupts in flags.
func (p *Interrupts) Clear(flags InterruptFlag) {
	p.regs.Store(IntrStatus, uint32(flags))
}

// SetHandler installs handler for a single interrupt flag. A nil handler
// uninstalls it.
func (p *Interrupts) SetHandler(flag InterruptFlag, handler func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for irq := range p.handlers {
		if flag&(1<<irq) != 0 {
			p.handlers[irq] = handler
			return
		}
	}
}

func (p *Interrupts) Handler(flag InterruptFlag) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for irq := range p.handlers {
		if flag&(1<<irq) != 0 {
			return p.handlers[irq]
		}
	}
	return nil
}

// Signal is called by the interrupt line whenever a status bit was latched.
// The handlers run immediately unless interrupts are disabled.
func (p *Interrupts) Signal() {
	if p.Disabled() {
		return
	}
	p.Dispatch()
}

// Dispatch is the level 2 interrupt handler. It calls the handler of every
// pending and unmasked interrupt. Handlers must acknowledge their interrupt
// and must not block or wait for other interrupts.
func (p *Interrupts) Dispatch() {
	p.mu.Lock()
	defer p.mu.Unlock()

	pending := p.regs.Load(IntrStatus) & p.regs.Load(IntrMaskLevel2)
	for irq := range p.handlers {
		if pending&(1<<irq) == 0 {
			continue
		}
		handler := p.handlers[irq]
		if handler == nil {
			panic("unhandled interrupt")
		}
		handler()
	}
}
