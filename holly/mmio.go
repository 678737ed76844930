//go:build naomi

package holly

import (
	"errors"
	"sync/atomic"
	"unsafe"
)

// Hardware returns the Device backed by the memory mapped hardware.
func Hardware() *Device {
	return NewDevice(mmioRegisters{}, mmioMemory{}, mmioFIFO{})
}

//go:nosplit
func uncached(a uint32) unsafe.Pointer {
	return unsafe.Pointer(uintptr(P2 | a&0x1fff_ffff))
}

type mmioRegisters struct{}

func (mmioRegisters) Load(r Reg) uint32 {
	return atomic.LoadUint32((*uint32)(uncached(uint32(r))))
}

func (mmioRegisters) Store(r Reg, v uint32) {
	atomic.StoreUint32((*uint32)(uncached(uint32(r))), v)
}

var errVRAMRange = errors.New("holly: access outside of video memory")

type mmioMemory struct{}

func vram(off int64, n int) ([]byte, error) {
	a := Addr(off)
	in64 := a >= VRAM64 && a.Add(n) <= VRAM64.Add(VRAMSize)
	in32 := a >= VRAM32 && a.Add(n) <= VRAM32.Add(VRAMSize)
	if !in64 && !in32 {
		return nil, errVRAMRange
	}
	return unsafe.Slice((*byte)(uncached(uint32(a))), n), nil
}

func (mmioMemory) ReadAt(p []byte, off int64) (int, error) {
	mem, err := vram(off, len(p))
	if err != nil {
		return 0, err
	}
	return copy(p, mem), nil
}

func (mmioMemory) WriteAt(p []byte, off int64) (int, error) {
	mem, err := vram(off, len(p))
	if err != nil {
		return 0, err
	}
	return copy(mem, p), nil
}

// mmioFIFO writes whole commands to the TA polygon path.
type mmioFIFO struct{}

func (mmioFIFO) Write(p []byte) (int, error) {
	dst := unsafe.Slice((*uint32)(uncached(uint32(TAFIFO))), len(p)/4)
	for i := range dst {
		w := uint32(p[4*i]) | uint32(p[4*i+1])<<8 | uint32(p[4*i+2])<<16 | uint32(p[4*i+3])<<24
		atomic.StoreUint32(&dst[i], w)
	}
	return len(p), nil
}
