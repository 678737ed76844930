package holly

import "io"

// Device bundles the hardware resources of one Holly instance. There is
// exactly one on real hardware, but tests create as many as they like.
type Device struct {
	Regs  Registers
	VRAM  Memory
	FIFO  io.Writer // TA polygon path, see TAFIFO
	IRQ   *Interrupts
	Accel *Accel
}

// NewDevice wires the interrupt controller and accelerator to the given bus
// targets.
func NewDevice(regs Registers, vram Memory, fifo io.Writer) *Device {
	return &Device{
		Regs:  regs,
		VRAM:  vram,
		FIFO:  fifo,
		IRQ:   NewInterrupts(regs),
		Accel: NewAccel(vram),
	}
}
