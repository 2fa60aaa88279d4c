package utils

import (
	"sync"
	"time"
)

// Debouncer runs only the last of a burst of calls, once the burst has been
// quiet for the given duration.
type Debouncer struct {
	mutex   sync.Mutex
	timer   *time.Timer
	seq     uint64
	stopped bool
}

// Debounce schedules fn after duration, canceling any call still pending.
func (d *Debouncer) Debounce(duration time.Duration, fn func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(duration, func() {
		d.mutex.Lock()
		current := seq == d.seq && !d.stopped
		if current {
			d.timer = nil
		}
		d.mutex.Unlock()
		if current {
			fn()
		}
	})
}

// Stop cancels the pending call, if any, and ignores later ones.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
