package ta

import (
	"encoding/binary"
	"fmt"

	"github.com/clktmr/naomi/holly"
)

// CommitBegin starts a commit cycle. The first cycle of a frame points the TA
// at the buffers, following cycles append to the same frame.
func (p *TA) CommitBegin() {
	if p.lists.populated.Empty() {
		p.setTarget()
	}
	p.lists.waiting = 0
}

// setTarget tells the TA where to store the command list and object buffers.
func (p *TA) setTarget() uint32 {
	regs := p.dev.Regs
	cmdl := p.layout.CmdList.Addr.Offset()
	objbuf := p.layout.Overflow.Addr.Offset()
	overflow := uint32(p.layout.Overflow.Size)

	p.reset()

	// Object buffers grow downward from the end of the overflow buffer.
	regs.Store(holly.TAObjBufBase, objbuf+overflow)
	regs.Store(holly.TAObjBufLimit, objbuf)

	// The command list grows upward.
	regs.Store(holly.TACmdListBase, cmdl)
	regs.Store(holly.TACmdListLimit, cmdl+uint32(p.layout.CmdList.Size))

	regs.Store(holly.TATileClip, uint32(p.grid.H-1)<<16|uint32(p.grid.W-1))
	regs.Store(holly.TAAdditionalOPB, objbuf+overflow)

	var bs [ListCount]uint32
	for l, size := range p.layout.ObjectSize {
		bs[l], _ = blockSize(size) // validated by NewLayout
	}
	const notUsed = 0
	regs.Store(holly.TABlockSize, 1<<20| // grow downward
		bs[PunchThrough]<<16|
		notUsed<<12| // transparent modifier
		bs[Transparent]<<8|
		notUsed<<4| // opaque modifier
		bs[Opaque])

	regs.Store(holly.TAConfirm, 0x8000_0000)
	return regs.Load(holly.TAConfirm)
}

// Submit writes a single command record to the TA. Records must be 32 or 64
// bytes long.
//
// Outside of interrupt context, polygon headers are classified to know which
// lists CommitEnd has to wait for. Mixing lists in one commit cycle or
// sending modifier volumes returns a [debug.InvariantError] which the caller
// must treat as fatal. Nothing is written to the TA in that case.
func (p *TA) Submit(cmd []byte) error {
	if len(cmd) != ShortCommand && len(cmd) != LongCommand {
		return fmt.Errorf("ta: invalid command size %d", len(cmd))
	}
	if p.sync.Sync() == holly.Suspend {
		l, ok, err := classify(binary.LittleEndian.Uint32(cmd))
		if err != nil {
			return invariant(err)
		}
		if ok {
			opened, err := p.lists.open(l)
			if err != nil {
				return err
			}
			if opened {
				p.listDone[l].Clear()
			}
		}
	}
	_, err := p.dev.FIFO.Write(cmd)
	return err
}

// CommitEnd terminates the current list and waits until the TA finished
// loading every list opened since CommitBegin. The commit cycle ends even if
// the end of list can't be written.
func (p *TA) CommitEnd() error {
	defer func() { p.lists.waiting = 0 }()

	eol := EndOfList()
	if _, err := p.dev.FIFO.Write(eol[:]); err != nil {
		return err
	}

	if p.sync.Sync() == holly.Spin {
		for l := Opaque; l < ListCount; l++ {
			if p.lists.waiting.Has(l) {
				p.spin(l.endOfList())
			}
		}
	} else {
		for l := Opaque; l < ListCount; l++ {
			if p.lists.waiting.Has(l) {
				p.listDone[l].Sleep()
			}
		}
	}
	return nil
}

// spin busy-waits for flag and acknowledges it.
func (p *TA) spin(flag holly.InterruptFlag) {
	for p.dev.IRQ.Pending()&flag == 0 {
	}
	p.dev.IRQ.Clear(flag)
}

func (p *TA) listHandler(l List) func() {
	flag := l.endOfList()
	return func() {
		p.dev.IRQ.Clear(flag)
		p.listDone[l].Wakeup()
	}
}
