package holly

import (
	"sync"
	"sync/atomic"
)

// Note is a one-shot notification between an interrupt handler and a single
// sleeping goroutine. The sleeper must Clear the note before it triggers the
// hardware, otherwise a completion that happens before Sleep is lost.
type Note struct {
	mu    sync.Mutex
	woken bool
	ch    chan struct{}
}

// Clear arms the note. Must not be called while someone sleeps on it.
func (n *Note) Clear() {
	n.mu.Lock()
	n.woken = false
	n.ch = nil
	n.mu.Unlock()
}

// Wakeup wakes the sleeper, or makes the next Sleep return immediately. Safe
// to call from interrupt handlers.
func (n *Note) Wakeup() {
	n.mu.Lock()
	if !n.woken {
		n.woken = true
		if n.ch != nil {
			close(n.ch)
		}
	}
	n.mu.Unlock()
}

// Woken reports whether Wakeup was called since the last Clear.
func (n *Note) Woken() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.woken
}

// Sleep waits until the note is woken.
func (n *Note) Sleep() {
	n.mu.Lock()
	if n.woken {
		n.mu.Unlock()
		return
	}
	if n.ch == nil {
		n.ch = make(chan struct{})
	}
	ch := n.ch
	n.mu.Unlock()
	<-ch
}

// IntrInput passes any value safely into an interrupt context. Only a single
// writer goroutine and a single reader are allowed. The reader must not be
// preemptible by the writer, i.e. an interrupt.
type IntrInput[T any] struct {
	next    int32 // owned by writer
	current int32 // owned by reader

	bufs [2]T
	ptr  atomic.Int32
}

func NewIntrInput[T any](v T) *IntrInput[T] {
	p := &IntrInput[T]{}
	p.bufs[0] = v
	p.next = 1
	p.ptr.Store(-1)
	return p
}

// Get can be used by the writer goroutine to read back the currently stored
// value.
func (p *IntrInput[T]) Get() (v T) {
	return p.bufs[(p.next+1)&0x1]
}

func (p *IntrInput[T]) Store(v T) {
	// Write alternating to bufs[0] and bufs[1] and set ptr to the latest
	// write. Will never write where ptr points at.
	p.bufs[p.next] = v
	p.ptr.Store(p.next)
	p.next = (p.next + 1) & 0x1
}

// Load returns the latest value and whether it was stored since the last
// Load.
func (p *IntrInput[T]) Load() (v T, updated bool) {
	ptr := p.ptr.Swap(-1)
	// Since we aren't preemptible by the writer, we can read *ptr safely.
	if ptr == -1 {
		return p.bufs[p.current], false
	}
	p.current = ptr
	return p.bufs[p.current], true
}
