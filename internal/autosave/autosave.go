// Package autosave collapses bursts of change notifications into a single
// delayed save.
package autosave

import (
	"log/slog"
	"sync"
	"time"
)

// Debouncer calls save once, delay after the last Trigger.
type Debouncer struct {
	delay time.Duration
	save  func() error

	mu    sync.Mutex
	timer *time.Timer
	gen   int // incremented on every Trigger and Cancel
}

// New returns a Debouncer that runs save after delay of quiet.
func New(delay time.Duration, save func() error) *Debouncer {
	return &Debouncer{delay: delay, save: save}
}

// Trigger schedules a save, pushing back any save already scheduled.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen int) {
	d.mu.Lock()
	if gen != d.gen || d.timer == nil {
		// superseded by a later Trigger, Cancel or Flush.
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	if err := d.save(); err != nil {
		slog.Error("autosave failed", "error", err)
	}
}

// Pending reports whether a save is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Cancel drops the scheduled save, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stop()
}

func (d *Debouncer) stop() bool {
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}

// Flush runs the scheduled save now and returns its error. It does nothing
// if no save is scheduled.
func (d *Debouncer) Flush() error {
	d.mu.Lock()
	pending := d.stop()
	d.mu.Unlock()
	if !pending {
		return nil
	}
	slog.Debug("flushing autosave")
	return d.save()
}
