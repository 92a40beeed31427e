package service

import (
	"sync"
	"time"
)

// debouncer runs fn once a burst of Trigger calls has been quiet for delay.
// Flush and Cancel wait for a call that is already running.
type debouncer struct {
	delay time.Duration
	fn    func()

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64

	// held while fn runs
	runMu sync.Mutex
}

func newDebouncer(delay time.Duration, fn func()) *debouncer {
	return &debouncer{delay: delay, fn: fn}
}

// Trigger (re)starts the quiet period.
func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *debouncer) fire(gen uint64) {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	d.mu.Lock()
	current := d.gen == gen
	if current {
		d.timer = nil
	}
	d.mu.Unlock()

	if current {
		d.fn()
	}
}

// stop drops the pending call and reports whether there was one.
func (d *debouncer) stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	pending := d.timer != nil
	if pending {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	return pending
}

// Flush runs a pending call now. It reports whether one was pending.
func (d *debouncer) Flush() bool {
	pending := d.stop()

	d.runMu.Lock()
	defer d.runMu.Unlock()
	if pending {
		d.fn()
	}
	return pending
}

// Cancel drops a pending call and waits for a running one to finish.
func (d *debouncer) Cancel() {
	d.stop()
	d.runMu.Lock()
	d.runMu.Unlock()
}
