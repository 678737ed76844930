package holly

import (
	"encoding/binary"
	"sync"
)

// Accel is the bulk fill engine. It's shared by all execution contexts and
// never waited for: if another context owns it, callers fall back to
// [FillPattern].
type Accel struct {
	mu  sync.Mutex
	mem Memory
}

func NewAccel(mem Memory) *Accel {
	return &Accel{mem: mem}
}

// Claim takes ownership of the accelerator. It reports false if it's
// currently owned by someone else.
func (p *Accel) Claim() (release func(), ok bool) {
	if !p.mu.TryLock() {
		return nil, false
	}
	return p.mu.Unlock, true
}

// TryFill fills n bytes at a with the repeated word. A partial last word gets
// the leading bytes of word. It returns false without touching memory if the
// accelerator is busy.
func (p *Accel) TryFill(a Addr, word uint32, n int) bool {
	release, ok := p.Claim()
	if !ok {
		return false
	}
	defer release()

	const burst = 4096
	buf := make([]byte, min(n, burst)&^3)
	for i := 0; i+4 <= len(buf); i += 4 {
		binary.LittleEndian.PutUint32(buf[i:], word)
	}
	for n >= 4 {
		chunk := buf[:min(n&^3, len(buf))]
		if _, err := p.mem.WriteAt(chunk, int64(a)); err != nil {
			return false
		}
		a = a.Add(len(chunk))
		n -= len(chunk)
	}
	// The engine moves whole words, the CPU stores the rest.
	if n > 0 && FillPattern(p.mem, a, word, n) != nil {
		return false
	}
	return true
}

// Fill fills n bytes at a with the repeated word, using the accelerator if
// it's available and a software loop otherwise.
func (p *Accel) Fill(a Addr, word uint32, n int) error {
	if p.TryFill(a, word, n) {
		return nil
	}
	Logger().Debug("holly: accelerator busy, software fill", "addr", a, "len", n)
	return FillPattern(p.mem, a, word, n)
}
