package holly_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/clktmr/naomi/holly"
	"github.com/clktmr/naomi/holly/sim"
)

func TestRegion(t *testing.T) {
	r := holly.Region{Addr: holly.VRAM32 + 0x100, Size: 0x80}
	if r.End() != holly.VRAM32+0x180 {
		t.Error("end", r.End())
	}
	if !r.Contains(holly.VRAM32+0x100) || r.Contains(r.End()) {
		t.Error("contains")
	}
	tests := []struct {
		s       holly.Region
		overlap bool
	}{
		{holly.Region{Addr: holly.VRAM32, Size: 0x100}, false},
		{holly.Region{Addr: holly.VRAM32, Size: 0x101}, true},
		{holly.Region{Addr: holly.VRAM32 + 0x17f, Size: 1}, true},
		{holly.Region{Addr: holly.VRAM32 + 0x180, Size: 8}, false},
		{holly.Region{Addr: holly.VRAM32 + 0x120}, false},
	}
	for _, tc := range tests {
		if r.Overlaps(tc.s) != tc.overlap || tc.s.Overlaps(r) != tc.overlap {
			t.Errorf("%v overlaps %v: expected %v", r, tc.s, tc.overlap)
		}
	}
	if (holly.VRAM32 + 0x12345).Offset() != 0x12345 {
		t.Error("offset")
	}
}

func TestAlignUp(t *testing.T) {
	tests := []struct{ n, align, want uint32 }{
		{0, 128, 0}, {1, 128, 128}, {128, 128, 128}, {0x12_3456, 1 << 20, 0x20_0000},
	}
	for _, tc := range tests {
		if got := holly.AlignUp(tc.n, tc.align); got != tc.want {
			t.Errorf("AlignUp(%#x, %#x) = %#x, expected %#x", tc.n, tc.align, got, tc.want)
		}
	}
}

func TestNote(t *testing.T) {
	var n holly.Note
	n.Wakeup()
	n.Wakeup()
	if !n.Woken() {
		t.Fatal("not woken")
	}
	n.Sleep() // wakeup before sleep isn't lost

	n.Clear()
	if n.Woken() {
		t.Fatal("not cleared")
	}
	done := make(chan struct{})
	go func() {
		n.Sleep()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("sleep returned before wakeup")
	case <-time.After(time.Millisecond):
	}
	n.Wakeup()
	select {
	case <-done:
	case <-time.After(time.Minute):
		t.Fatal("sleeper not woken")
	}
}

func TestIntrInput(t *testing.T) {
	p := holly.NewIntrInput(1)
	if v, ok := p.Load(); v != 1 || ok {
		t.Fatal("initial", v, ok)
	}
	if p.Get() != 1 {
		t.Fatal("get initial", p.Get())
	}

	p.Store(2)
	if p.Get() != 2 {
		t.Fatal("get", p.Get())
	}
	if v, ok := p.Load(); v != 2 || !ok {
		t.Fatal("load", v, ok)
	}
	if v, ok := p.Load(); v != 2 || ok {
		t.Fatal("reload", v, ok)
	}

	p.Store(3)
	p.Store(4)
	if v, ok := p.Load(); v != 4 || !ok {
		t.Fatal("latest", v, ok)
	}
}

func TestDisable(t *testing.T) {
	m := sim.New()
	irq := m.Device().IRQ

	var calls int
	irq.SetHandler(holly.IntrVBlankIn, func() {
		calls++
		irq.Clear(holly.IntrVBlankIn)
	})
	irq.Enable(holly.IntrVBlankIn)

	m.Raise(holly.IntrVBlankIn)
	if calls != 1 {
		t.Fatal("enabled: handler calls", calls)
	}

	outer := irq.Disable()
	inner := irq.Disable()
	if irq.Sync() != holly.Spin || !irq.Disabled() {
		t.Fatal("disabled sync", irq.Sync())
	}
	m.Raise(holly.IntrVBlankIn)
	inner()
	if calls != 1 {
		t.Fatal("handler ran while disabled")
	}
	outer()
	if calls != 2 {
		t.Fatal("pending interrupt not dispatched on restore, calls", calls)
	}
	if irq.Sync() != holly.Suspend {
		t.Fatal("enabled sync", irq.Sync())
	}
	if irq.Pending()&holly.IntrVBlankIn != 0 {
		t.Fatal("not acknowledged")
	}
}

func TestMasked(t *testing.T) {
	m := sim.New()
	irq := m.Device().IRQ
	irq.SetHandler(holly.IntrVBlankIn, func() { t.Fatal("masked handler ran") })
	m.Raise(holly.IntrVBlankIn)
	if irq.Pending()&holly.IntrVBlankIn == 0 {
		t.Fatal("status not latched")
	}

	// Stale events are dropped before unmasking.
	irq.Clear(holly.IntrVBlankIn)
	irq.Enable(holly.IntrVBlankIn)
	irq.Mask(holly.IntrVBlankIn)
	m.Raise(holly.IntrVBlankIn)
	if irq.Pending()&holly.IntrVBlankIn == 0 {
		t.Fatal("status not latched after mask")
	}
}

func TestEnableLatched(t *testing.T) {
	m := sim.New()
	irq := m.Device().IRQ
	var calls int
	irq.SetHandler(holly.IntrVBlankIn, func() {
		calls++
		irq.Clear(holly.IntrVBlankIn)
	})
	m.Raise(holly.IntrVBlankIn)
	if calls != 0 {
		t.Fatal("masked handler ran")
	}
	irq.Enable(holly.IntrVBlankIn)
	if calls != 1 {
		t.Fatal("latched interrupt not dispatched on enable, calls", calls)
	}
}

func TestUnhandledInterrupt(t *testing.T) {
	m := sim.New()
	m.Device().IRQ.Enable(holly.IntrHBlank)
	defer func() {
		if recover() == nil {
			t.Fatal("no panic")
		}
	}()
	m.Raise(holly.IntrHBlank)
}

func TestHandler(t *testing.T) {
	irq := sim.New().Device().IRQ
	if irq.Handler(holly.IntrYUV) != nil {
		t.Fatal("handler installed")
	}
	irq.SetHandler(holly.IntrYUV, func() {})
	if irq.Handler(holly.IntrYUV) == nil {
		t.Fatal("handler not installed")
	}
	irq.SetHandler(holly.IntrYUV, nil)
	if irq.Handler(holly.IntrYUV) != nil {
		t.Fatal("handler not removed")
	}
}

func TestAccel(t *testing.T) {
	m := sim.New()
	dev := m.Device()
	a := holly.VRAM32 + 0x1000
	const n = 8192 + 64

	if !dev.Accel.TryFill(a, 0xdeadbeef, n) {
		t.Fatal("accelerator busy")
	}
	frame, _ := m.Frame(a, n+4)
	want := bytes.Repeat([]byte{0xef, 0xbe, 0xad, 0xde}, n/4)
	if !bytes.Equal(frame[:n], want) {
		t.Fatal("fill mismatch")
	}
	if !bytes.Equal(frame[n:], []byte{0, 0, 0, 0}) {
		t.Fatal("filled past the end")
	}

	release, ok := dev.Accel.Claim()
	if !ok {
		t.Fatal("claim")
	}
	if dev.Accel.TryFill(a, 0, n) {
		t.Fatal("filled while owned")
	}
	if frame, _ = m.Frame(a, 4); !bytes.Equal(frame, want[:4]) {
		t.Fatal("memory touched while owned")
	}

	// Fill falls back to software.
	if err := dev.Accel.Fill(a, 0x01020304, 100); err != nil {
		t.Fatal(err)
	}
	release()
	frame, _ = m.Frame(a, 104)
	if !bytes.Equal(frame[:100], bytes.Repeat([]byte{4, 3, 2, 1}, 25)) {
		t.Fatal("software fill mismatch")
	}
	if !bytes.Equal(frame[100:], want[:4]) {
		t.Fatal("software fill past the end")
	}
}

func TestAccelPartialWord(t *testing.T) {
	m := sim.New()
	dev := m.Device()
	a := holly.VRAM32 + 0x2000
	holly.StoreWords(dev.VRAM, a, []uint32{0xffff_ffff, 0xffff_ffff})

	for _, n := range []int{2, 6} {
		if !dev.Accel.TryFill(a, 0x0403_0201, n) {
			t.Fatal("accelerator busy")
		}
		frame, _ := m.Frame(a, 8)
		want := append(bytes.Repeat([]byte{1, 2, 3, 4}, 2)[:n], bytes.Repeat([]byte{0xff}, 8-n)...)
		if !bytes.Equal(frame, want) {
			t.Errorf("n=%d: % x, expected % x", n, frame, want)
		}
		holly.StoreWords(dev.VRAM, a, []uint32{0xffff_ffff, 0xffff_ffff})
	}
}

func TestMemory(t *testing.T) {
	m := sim.New()
	mem := m.Device().VRAM
	a := holly.VRAM32 + 0x40

	if err := holly.StoreWords(mem, a, []uint32{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if v, err := holly.Load32(mem, a.Add(8)); err != nil || v != 3 {
		t.Fatal(v, err)
	}
	if err := holly.Store32(mem, a, 0xcafe); err != nil {
		t.Fatal(err)
	}

	// The 64-bit path aliases the same memory.
	if v, _ := holly.Load32(mem, holly.VRAM64+0x40); v != 0xcafe {
		t.Fatalf("alias %#x", v)
	}
	if _, err := holly.Load32(mem, 0x0c00_0000); err == nil {
		t.Fatal("read outside video memory")
	}
}
