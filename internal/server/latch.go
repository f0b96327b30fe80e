package server

import "sync"

// Latch is a one-shot signal: Fire closes the underlying channel exactly
// once, and repeat calls are no-ops. Waiters select on Done; pollers use
// Fired.
type Latch struct {
	once sync.Once
	ch   chan struct{}
}

// NewLatch returns an unfired latch.
func NewLatch() *Latch {
	return &Latch{ch: make(chan struct{})}
}

// Fire trips the latch. Idempotent.
func (l *Latch) Fire() {
	l.once.Do(func() { close(l.ch) })
}

// Done returns a channel that is closed once the latch has fired.
func (l *Latch) Done() <-chan struct{} {
	return l.ch
}

// Fired reports whether the latch has fired.
func (l *Latch) Fired() bool {
	select {
	case <-l.ch:
		return true
	default:
		return false
	}
}
