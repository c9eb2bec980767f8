// Package debounce collapses bursts of calls into the last one.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs at most one pending function at a time. Scheduling a new
// function cancels the previous one.
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

// Handle refers to one scheduled call.
type Handle struct {
	d   *Debouncer
	seq uint64
}

// New returns an idle Debouncer.
func New() *Debouncer {
	return &Debouncer{}
}

// Schedule arms fn to run after delay. Any call scheduled earlier on the same
// Debouncer is cancelled and will not run, even if its timer has already
// fired.
func (d *Debouncer) Schedule(fn func(), delay time.Duration) Handle {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	if delay < 0 {
		delay = 0
	}
	d.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		current := d.seq == seq
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		if current {
			fn()
		}
	})
	return Handle{d: d, seq: seq}
}

// Cancel stops the call if it is still pending. It reports whether the call
// was pending.
func (h Handle) Cancel() bool {
	if h.d == nil {
		return false
	}
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	if h.d.seq != h.seq || h.d.timer == nil {
		return false
	}
	h.d.timer.Stop()
	h.d.timer = nil
	h.d.seq++
	return true
}

// Pending reports whether a call is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}
