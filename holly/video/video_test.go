package video_test

import (
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"

	"github.com/clktmr/naomi/holly"
	"github.com/clktmr/naomi/holly/sim"
	"github.com/clktmr/naomi/holly/video"
	"golang.org/x/image/colornames"
)

func setup(t *testing.T, mode video.Mode, depth video.ColorDepth, opts ...video.Option) (*sim.Machine, *video.Display) {
	t.Helper()
	m := sim.New()
	d, err := video.Init(m.Device(), mode, depth, opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(d.Close)
	return m, d
}

func TestInit(t *testing.T) {
	m, d := setup(t, video.HighRes, video.RGB1555)
	regs := m.Device().Regs

	const size = 640 * 480 * 2
	if got := d.RenderTarget(); got != holly.VRAM32+size {
		t.Errorf("render target %v", got)
	}
	if got := regs.Load(holly.FBDisplayAddr1); got != 0 {
		t.Errorf("displayed %#x", got)
	}
	if got := regs.Load(holly.FBDisplayAddr2); got != 640*2 {
		t.Errorf("second field %#x", got)
	}
	if got := d.Scratch(); got.Addr != holly.VRAM32+2*size || got.Size != video.ScratchSize {
		t.Errorf("scratch %v", got)
	}
	if got := regs.Load(holly.VBlankIntr); got != 40<<16|520 {
		t.Errorf("vblank interrupt %#x", got)
	}
	if got := regs.Load(holly.SyncLoad); got != 524<<16|857 {
		t.Errorf("sync load %#x", got)
	}
	if got := regs.Load(holly.FBRenderModulo); got != 160 {
		t.Errorf("render modulo %d", got)
	}
	if got := regs.Load(holly.FBRenderCfg); got != 1<<3 {
		t.Errorf("render config %#x", got)
	}
	if got := regs.Load(holly.FBDisplayCfg); got != 1<<23|1 {
		t.Errorf("display config %#x", got)
	}
	if m.Device().IRQ.Handler(holly.IntrVBlankIn) == nil {
		t.Error("no vblank handler")
	}
	if n := d.VBlankCount(); n != 0 {
		t.Error("vblank latched during init was dispatched, count", n)
	}
}

func TestInitLowRes(t *testing.T) {
	m, _ := setup(t, video.LowRes, video.RGB0888, video.NoDither())
	regs := m.Device().Regs
	if got := regs.Load(holly.SyncCfg); got != 1<<8|1<<6|1<<4 {
		t.Errorf("sync config %#x", got)
	}
	if got := regs.Load(holly.FBRenderCfg); got != 5 {
		t.Errorf("render config %#x", got)
	}
	words := uint32(640 / 4 * 4)
	if got := regs.Load(holly.FBDisplaySize); got != (words+1)<<20|239<<10|(words-1) {
		t.Errorf("display size %#x", got)
	}
}

func TestScratchFixed(t *testing.T) {
	mode := video.HighRes
	mode.Width, mode.Height = 320, 240
	_, d := setup(t, mode, video.RGB1555)
	if got := d.Scratch().Addr; got != holly.VRAM32+2*640*480*2 {
		t.Fatal("scratch moved to", got)
	}
}

func TestInitDepth(t *testing.T) {
	m := sim.New()
	if _, err := video.Init(m.Device(), video.HighRes, 3); err != video.ErrColorDepth {
		t.Fatal("expected", video.ErrColorDepth, "got", err)
	}
}

func TestPresentSpin(t *testing.T) {
	m, d := setup(t, video.HighRes, video.RGB1555)
	regs := m.Device().Regs
	irq := m.Device().IRQ

	restore := irq.Disable()
	defer restore()
	for i := range 4 {
		target := d.RenderTarget()
		if err := d.Present(); err != nil {
			t.Fatal(err)
		}
		if got := regs.Load(holly.FBDisplayAddr1); got != target.Offset() {
			t.Fatalf("frame %d: displayed %#x, expected %#x", i, got, target.Offset())
		}
		if d.RenderTarget() == target {
			t.Fatalf("frame %d: buffers not swapped", i)
		}
	}
}

func TestPresentSuspend(t *testing.T) {
	m, d := setup(t, video.HighRes, video.RGB0888)
	regs := m.Device().Regs

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx, time.Millisecond)

	for i := range 4 {
		target := d.RenderTarget()
		if err := d.Present(); err != nil {
			t.Fatal(err)
		}
		if got := regs.Load(holly.FBDisplayAddr1); got != target.Offset() {
			t.Fatalf("frame %d: displayed %#x, expected %#x", i, got, target.Offset())
		}
	}
	if d.VBlankCount() < 4 {
		t.Fatal("vblank count", d.VBlankCount())
	}
}

func TestBackgroundColor(t *testing.T) {
	m, d := setup(t, video.HighRes, video.RGB1555)
	restore := m.Device().IRQ.Disable()
	defer restore()

	if err := d.SetBackgroundColor(colornames.Red); err != nil {
		t.Fatal(err)
	}
	for range 2 {
		fb := d.Framebuffer()
		fb.Set(10, 10, colornames.Blue)
		if err := d.Present(); err != nil {
			t.Fatal(err)
		}
		fb = d.Framebuffer()
		for _, p := range []image.Point{{0, 0}, {10, 10}, {639, 479}} {
			if got := fb.At(p.X, p.Y); got != video.RGB555(0x7c00) {
				t.Fatalf("%v: %v", p, got)
			}
		}
	}

	d.ClearBackground()
	d.Framebuffer().Set(10, 10, colornames.Blue)
	d.Present()
	d.Present()
	if got := d.Framebuffer().At(10, 10); got != video.RGB555(0x001f) {
		t.Fatal("cleared without background:", got)
	}
}

func TestOverlay(t *testing.T) {
	m, d := setup(t, video.HighRes, video.RGB0888)
	restore := m.Device().IRQ.Disable()
	defer restore()

	d.SetOverlay(func(dst draw.Image) {
		draw.Draw(dst, image.Rect(0, 0, 4, 4), image.NewUniform(colornames.Lime), image.Point{}, draw.Src)
	})
	target := d.RenderTarget()
	if err := d.Present(); err != nil {
		t.Fatal(err)
	}
	frame, err := m.Frame(target, 4*4)
	if err != nil {
		t.Fatal(err)
	}
	if got := binary.LittleEndian.Uint32(frame[4*3:]); got != 0x00ff00 {
		t.Fatalf("overlay pixel %#x", got)
	}
}

func TestSurfaceVertical(t *testing.T) {
	m, d := setup(t, video.HighRes, video.RGB1555, video.Vertical())
	fb := d.Framebuffer()
	if fb.Bounds() != image.Rect(0, 0, 480, 640) {
		t.Fatal("bounds", fb.Bounds())
	}

	fb.Set(0, 0, colornames.White)
	buf, err := m.Frame(fb.Addr().Add(639*2), 2)
	if err != nil {
		t.Fatal(err)
	}
	if binary.LittleEndian.Uint16(buf) != 0x7fff {
		t.Fatalf("top left pixel %x", buf)
	}

	if err := fb.Fill(image.Rect(10, 20, 12, 30), colornames.Red); err != nil {
		t.Fatal(err)
	}
	for y := 19; y <= 30; y++ {
		expected := color.Color(video.RGB555(0x7c00))
		if y < 20 || y >= 30 {
			expected = video.RGB555(0)
		}
		if got := fb.At(11, y); got != expected {
			t.Errorf("(11, %d): %v", y, got)
		}
	}
}

func TestColorModel(t *testing.T) {
	for _, tc := range []struct {
		c        color.Color
		expected uint32
		depth    video.ColorDepth
	}{
		{colornames.White, 0x7fff, video.RGB1555},
		{colornames.Red, 0x7c00, video.RGB1555},
		{colornames.Blue, 0x001f, video.RGB1555},
		{colornames.White, 0xffffff, video.RGB0888},
		{color.RGBA{0x12, 0x34, 0x56, 0xff}, 0x123456, video.RGB0888},
	} {
		if got := tc.depth.Pixel(tc.c); got != tc.expected {
			t.Errorf("%v %v: %#x", tc.depth, tc.c, got)
		}
	}

	for _, tc := range []struct {
		c       video.RGB555
		r, g, b uint32
	}{
		{0x7fff, 0xffff, 0xffff, 0xffff},
		{0xffff, 0xffff, 0xffff, 0xffff}, // top bit ignored
		{0x7c00, 0xffff, 0, 0},
		{0x03e0, 0, 0xffff, 0},
		{0x4210, 0x8421, 0x8421, 0x8421},
		{0x0001, 0, 0, 0x0842},
	} {
		r, g, b, a := tc.c.RGBA()
		if r != tc.r || g != tc.g || b != tc.b || a != 0xffff {
			t.Errorf("%#04x: %#x %#x %#x %#x", uint16(tc.c), r, g, b, a)
		}
	}
	if got := video.RGB1555.Pattern(colornames.Red); got != 0x7c00_7c00 {
		t.Errorf("pattern %#x", got)
	}
}

func TestClose(t *testing.T) {
	m := sim.New()
	regs := m.Device().Regs
	regs.Store(holly.VBlankIntr, 0x0015_0104)
	d, err := video.Init(m.Device(), video.HighRes, video.RGB1555)
	if err != nil {
		t.Fatal(err)
	}
	d.Close()
	if got := regs.Load(holly.VBlankIntr); got != 0x0015_0104 {
		t.Errorf("vblank interrupt %#x not restored", got)
	}
	if m.Device().IRQ.Handler(holly.IntrVBlankIn) != nil {
		t.Error("handler still installed")
	}
}

func TestPresentAccelBusy(t *testing.T) {
	m, d := setup(t, video.HighRes, video.RGB1555)
	dev := m.Device()
	restore := dev.IRQ.Disable()
	defer restore()

	if err := d.SetBackgroundColor(colornames.Red); err != nil {
		t.Fatal(err)
	}
	release, ok := dev.Accel.Claim()
	if !ok {
		t.Fatal("accelerator busy")
	}
	err := d.Present()
	release()
	if err != nil {
		t.Fatal(err)
	}

	// The new back buffer was black since init.
	fb := d.Framebuffer()
	for _, p := range []image.Point{{0, 0}, {320, 240}, {639, 479}} {
		if got := fb.At(p.X, p.Y); got != video.RGB555(0x7c00) {
			t.Fatalf("%v: %v", p, got)
		}
	}
}

func TestWithSync(t *testing.T) {
	m, d := setup(t, video.HighRes, video.RGB1555, video.WithSync(holly.Spin))
	regs := m.Device().Regs
	if m.Device().IRQ.Disabled() {
		t.Fatal("interrupts disabled")
	}

	// No vblank ticker runs, so this only returns by polling the beam.
	for i := range 2 {
		target := d.RenderTarget()
		if err := d.Present(); err != nil {
			t.Fatal(err)
		}
		if got := regs.Load(holly.FBDisplayAddr1); got != target.Offset() {
			t.Fatalf("frame %d: displayed %#x, expected %#x", i, got, target.Offset())
		}
	}
	if d.VBlankCount() == 0 {
		t.Fatal("vblank handler didn't see the polled vblanks")
	}
}
