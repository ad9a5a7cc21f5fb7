package render

import (
	"sync"
	"time"
)

// Revealer schedules the staggered entrance of rendered cards: card i is
// revealed Step*i after Schedule is called.
type Revealer struct {
	Step time.Duration
}

// Enabled reports whether the reveal phase runs at all.
func (r *Revealer) Enabled() bool {
	return r != nil && r.Step > 0
}

// Schedule calls reveal(i) for every card index in [0, n) on its own timer.
// The returned func cancels reveals that have not fired yet; it is safe to
// call more than once.
func (r *Revealer) Schedule(n int, reveal func(index int)) (cancel func()) {
	if !r.Enabled() || n <= 0 {
		return func() {}
	}
	timers := make([]*time.Timer, n)
	for i := 0; i < n; i++ {
		idx := i
		timers[i] = time.AfterFunc(time.Duration(i)*r.Step, func() { reveal(idx) })
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			for _, t := range timers {
				t.Stop()
			}
		})
	}
}
