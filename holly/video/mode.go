package video

import "fmt"

// Mode describes the timing of a video mode. Positions and blanking are in
// lines or pixel clocks.
type Mode struct {
	Width, Height int // framebuffer size

	HPos, VPos uint32 // start of the displayed raster

	Interlaced       bool
	LineDouble       bool
	PixelDouble      bool
	PixelClockDouble bool // required for 31kHz

	HBlankStart, HBlankEnd       uint32
	VBlankIntStart, VBlankIntEnd uint32 // lines raising vblank in/out
	VBlankStart, VBlankEnd       uint32
	HSync                        uint32 // clocks per line
	VSync                        uint32 // lines per frame minus one
}

// HighRes is 640x480 progressive at 31kHz.
var HighRes = Mode{
	Width:            640,
	Height:           480,
	HPos:             166,
	VPos:             35,
	PixelClockDouble: true,
	HBlankStart:      0x345,
	HBlankEnd:        0x7e,
	VBlankIntStart:   480 + 40,
	VBlankIntEnd:     40,
	VBlankStart:      480 + 40,
	VBlankEnd:        40,
	HSync:            857,
	VSync:            524,
}

// LowRes is 640x480 interlaced at 15kHz.
var LowRes = Mode{
	Width:          640,
	Height:         480,
	HPos:           164,
	VPos:           22,
	Interlaced:     true,
	HBlankStart:    0x345,
	HBlankEnd:      0x7e,
	VBlankIntStart: (480 + 40) / 2,
	VBlankIntEnd:   40,
	VBlankStart:    480 + 40,
	VBlankEnd:      40,
	HSync:          851,
	VSync:          536,
}

func (m Mode) String() string {
	scan := "p"
	if m.Interlaced {
		scan = "i"
	}
	return fmt.Sprintf("%dx%d%s", m.Width, m.Height, scan)
}

// ColorDepth is the framebuffer's pixel format, its value is the size of a
// pixel in bytes.
type ColorDepth int

const (
	RGB1555 ColorDepth = 2
	RGB0888 ColorDepth = 4
)

func (d ColorDepth) String() string {
	switch d {
	case RGB1555:
		return "RGB1555"
	case RGB0888:
		return "RGB0888"
	}
	return fmt.Sprintf("ColorDepth(%d)", int(d))
}

// Bytes returns the size of n pixels in bytes.
func (d ColorDepth) Bytes(n int) int { return n * int(d) }
