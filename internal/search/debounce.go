// Package search filters the video and download lists and debounces the
// recomputation behind a search box.
package search

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period after the last keystroke.
const DefaultDelay = 300 * time.Millisecond

// Debouncer runs fn with the most recent value once no new value has arrived
// for the configured delay. Calls to fn never overlap.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu      sync.Mutex
	timer   *time.Timer
	pending T
	has     bool
	gen     uint64
	stopped bool

	call sync.Mutex
}

func NewDebouncer[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Trigger schedules fn(v), replacing any pending value.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending, d.has = v, true
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.call.Lock()
	defer d.call.Unlock()

	d.mu.Lock()
	if gen != d.gen || !d.has || d.stopped {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.has = false
	d.mu.Unlock()

	d.fn(v)
}

// Flush runs the pending value now, if there is one.
func (d *Debouncer[T]) Flush() {
	d.call.Lock()
	defer d.call.Unlock()

	d.mu.Lock()
	if !d.has || d.stopped {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	v := d.pending
	d.has = false
	d.mu.Unlock()

	d.fn(v)
}

// Stop drops the pending value. Later triggers are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.has = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
}
