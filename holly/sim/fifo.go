package sim

import (
	"encoding/binary"
	"errors"

	"github.com/clktmr/naomi/holly"
)

var errCommandSize = errors.New("sim: TA commands must be 32 or 64 bytes")

// Parameter control word fields.
const (
	paraTypeMask     = 0xe000_0000
	paraEndOfList    = 0x0000_0000
	paraPolygon      = 0x8000_0000
	paraSprite       = 0xa000_0000
	listTypeMask     = 0x0700_0000
	listTypeShift    = 24
	listOpaque       = 0
	listTransparent  = 2
	listPunchThrough = 4
)

var listEnd = map[int]holly.InterruptFlag{
	listOpaque:       holly.IntrOpaqueList,
	listTransparent:  holly.IntrTransparentList,
	listPunchThrough: holly.IntrPunchThroughList,
}

// fifo decodes the records written to the TA polygon path. The TA opens a
// list with the first global parameter and signals the list's end interrupt
// when it receives the end of list parameter.
type fifo struct{ m *Machine }

func (f fifo) Write(p []byte) (int, error) {
	if len(p) != 32 && len(p) != 64 {
		return 0, errCommandSize
	}
	m := f.m

	m.mu.Lock()
	m.stats.Commands++
	onCommand := m.onCommand

	var raise holly.InterruptFlag
	word := binary.LittleEndian.Uint32(p)
	switch word & paraTypeMask {
	case paraEndOfList:
		m.stats.EndOfLists++
		if m.list >= 0 {
			raise = listEnd[m.list]
			m.regs[holly.IntrStatus] |= uint32(raise)
			m.list = -1
		}
	case paraPolygon, paraSprite:
		if m.list < 0 {
			m.list = int(word&listTypeMask) >> listTypeShift
		}
	}
	m.mu.Unlock()

	if onCommand != nil {
		onCommand(append([]byte(nil), p...))
	}
	if raise != 0 {
		m.dev.IRQ.Signal()
	}
	return len(p), nil
}
