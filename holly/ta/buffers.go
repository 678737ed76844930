package ta

import (
	"errors"
	"fmt"

	"github.com/clktmr/naomi/debug"
	"github.com/clktmr/naomi/holly"
)

const (
	// BaseAlign is the required alignment of the first TA buffer.
	BaseAlign = 1 << 20
	// BufferAlign is the alignment of every TA buffer.
	BufferAlign = 128
	// TileSize is the edge length of a tile in pixels.
	TileSize = 32
)

var (
	ErrAlignment     = errors.New("buffer misaligned")
	ErrBlockSize     = errors.New("object block size must be 0, 32, 64 or 128")
	ErrVRAMExhausted = errors.New("buffers exceed video memory")
)

// Grid is the size of a render target in tiles.
type Grid struct {
	W, H int
}

// MaxGrid is the largest grid the buffers are sized for, 640x480 pixels.
var MaxGrid = Grid{640 / TileSize, 480 / TileSize}

// GridFor returns the grid covering a framebuffer of the given size.
func GridFor(width, height int) Grid {
	return Grid{(width + TileSize - 1) / TileSize, (height + TileSize - 1) / TileSize}
}

func (g Grid) Tiles() int { return g.W * g.H }

func (g Grid) String() string { return fmt.Sprintf("%dx%d", g.W, g.H) }

// Config sizes the TA buffers.
type Config struct {
	CmdListSize    int
	BackgroundSize int
	OverflowSize   int

	// Bytes per tile in each list's object buffer. A size of zero disables
	// the list.
	ObjectSize [ListCount]int
}

func DefaultConfig() Config {
	return Config{
		CmdListSize:    1 << 20,
		BackgroundSize: 256,
		OverflowSize:   1 << 20,
		ObjectSize: [ListCount]int{
			Opaque:       128,
			Transparent:  128,
			PunchThrough: 64,
		},
	}
}

// blockSize returns the TA_ALLOC_CTRL encoding of an object block size.
func blockSize(size int) (uint32, error) {
	switch size {
	case 0:
		return 0, nil
	case 32:
		return 1, nil
	case 64:
		return 2, nil
	case 128:
		return 3, nil
	}
	return 0, ErrBlockSize
}

// Layout is the placement of all TA buffers in video memory. Everything
// between Span().Addr and TextureRAM is owned by the TA.
type Layout struct {
	CmdList    holly.Region
	Background holly.Region
	Overflow   holly.Region
	Object     [ListCount]holly.Region
	Tiles      holly.Region
	TextureRAM holly.Region

	// ObjectSize is the per tile size of each object buffer.
	ObjectSize [ListCount]int
}

const layoutFailure = "buffer layout failure"

// NewLayout places the TA buffers starting at base, which must be in the 32
// bit VRAM path and aligned to BaseAlign. Object buffers are sized for max,
// so every smaller grid fits into the same layout.
func NewLayout(base holly.Addr, max Grid, cfg Config) (l Layout, err error) {
	if uint32(base)%BaseAlign != 0 {
		return l, debug.Invariant(layoutFailure, fmt.Errorf("%w: base %v", ErrAlignment, base))
	}
	for i, size := range cfg.ObjectSize {
		if _, err := blockSize(size); err != nil {
			return l, fmt.Errorf("%v list: %w", List(i), err)
		}
	}

	cur := base
	place := func(size int) (holly.Region, error) {
		r := holly.Region{Addr: cur, Size: size}
		if uint32(r.Addr)%BufferAlign != 0 {
			return r, debug.Invariant(layoutFailure, fmt.Errorf("%w: %v", ErrAlignment, r.Addr))
		}
		cur = holly.Addr(holly.AlignUp(uint32(r.End()), BufferAlign))
		return r, nil
	}

	tiles := max.Tiles()
	regions := []struct {
		r    *holly.Region
		size int
	}{
		{&l.CmdList, cfg.CmdListSize},
		{&l.Background, cfg.BackgroundSize},
		{&l.Overflow, cfg.OverflowSize},
		{&l.Object[Opaque], cfg.ObjectSize[Opaque] * tiles},
		{&l.Object[Transparent], cfg.ObjectSize[Transparent] * tiles},
		{&l.Object[PunchThrough], cfg.ObjectSize[PunchThrough] * tiles},
		{&l.Tiles, (tiles + 1) * DescriptorWords * 4},
	}
	for _, e := range regions {
		if *e.r, err = place(e.size); err != nil {
			return l, err
		}
	}
	l.ObjectSize = cfg.ObjectSize

	// Textures are accessed through the 64 bit path.
	off := base.Offset() + uint32(cur-base)
	if off > holly.VRAMSize {
		return l, fmt.Errorf("%w: %v", ErrVRAMExhausted, cur)
	}
	l.TextureRAM = holly.Region{
		Addr: holly.VRAM64 | holly.Addr(off),
		Size: holly.VRAMSize - int(off),
	}
	return l, nil
}

// Span returns the region occupied by the TA buffers.
func (l *Layout) Span() holly.Region {
	return holly.Region{Addr: l.CmdList.Addr, Size: int(l.Tiles.End() - l.CmdList.Addr)}
}

func (l *Layout) String() string {
	return fmt.Sprintf("cmdlist %v bg %v overflow %v opaque %v transparent %v punch %v tiles %v textures %v",
		l.CmdList.Addr, l.Background.Addr, l.Overflow.Addr, l.Object[Opaque].Addr,
		l.Object[Transparent].Addr, l.Object[PunchThrough].Addr, l.Tiles.Addr, l.TextureRAM.Addr)
}
