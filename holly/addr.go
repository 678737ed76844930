package holly

import "fmt"

// Addr represents a physical address on the system bus.
type Addr uint32

// VRAM access paths. Both address the same 16MiB of video memory, textures
// are accessed through the 64-bit path, framebuffers and TA buffers through
// the 32-bit path.
const (
	VRAM64   Addr = 0x0400_0000
	VRAM32   Addr = 0x0500_0000
	VRAMSize      = 16 << 20

	// Polygon path of the TA command FIFO. Write-only.
	TAFIFO Addr = 0x1000_0000
)

// Memory regions in the SH-4 P-area address space.
const (
	P1 uint32 = 0x8000_0000 // cached
	P2 uint32 = 0xa000_0000 // uncached
)

// Offset returns the offset of a into video memory as expected by the
// PowerVR2 address registers.
func (a Addr) Offset() uint32 {
	return uint32(a) & 0x00ff_ffff
}

// Add returns a advanced by n bytes.
func (a Addr) Add(n int) Addr {
	return a + Addr(n)
}

func (a Addr) String() string {
	return fmt.Sprintf("%#08x", uint32(a))
}

// Region is a contiguous range of bus addresses.
type Region struct {
	Addr Addr
	Size int
}

// End returns the first address after r.
func (r Region) End() Addr { return r.Addr.Add(r.Size) }

// Contains reports whether a lies inside r.
func (r Region) Contains(a Addr) bool {
	return a >= r.Addr && a < r.End()
}

// Overlaps reports whether r and s share at least one address.
func (r Region) Overlaps(s Region) bool {
	if r.Size == 0 || s.Size == 0 {
		return false
	}
	return r.Addr < s.End() && s.Addr < r.End()
}

// AlignUp rounds n up to the next multiple of align, which must be a power of
// two.
func AlignUp(n, align uint32) uint32 {
	return (n + align - 1) &^ (align - 1)
}
