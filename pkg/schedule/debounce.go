package schedule

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period used by text controls.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer coalesces rapid triggers into one trailing call that runs after
// a quiet period. It is armed by Trigger and disarmed by Cancel or Stop.
type Debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	callback func()
	gen      uint64
	stopped  bool
}

// NewDebouncer creates a debouncer. A non-positive interval falls back to
// DefaultDebounce.
func NewDebouncer(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	return &Debouncer{interval: interval}
}

// Interval returns the quiet period.
func (d *Debouncer) Interval() time.Duration {
	if d == nil {
		return 0
	}
	return d.interval
}

// Trigger arms the debouncer. The callback runs once the interval elapses
// without another Trigger; only the latest callback runs.
func (d *Debouncer) Trigger(callback func()) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.callback = callback
	d.gen++
	gen := d.gen

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		if d.stopped || d.gen != gen {
			d.mu.Unlock()
			return
		}
		cb := d.callback
		d.callback = nil
		d.timer = nil
		d.mu.Unlock()

		if cb != nil {
			cb()
		}
	})
}

// Pending reports whether a callback is armed.
func (d *Debouncer) Pending() bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Cancel disarms a pending callback. The debouncer stays usable.
func (d *Debouncer) Cancel() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disarmLocked()
}

// Stop cancels any pending callback and ignores later triggers. It is safe
// to call more than once.
func (d *Debouncer) Stop() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disarmLocked()
	d.stopped = true
}

func (d *Debouncer) disarmLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
