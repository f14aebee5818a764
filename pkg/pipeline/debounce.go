package pipeline

import (
	"sync"
	"time"
)

// Timer is a cancellable pending call.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed calls. RealClock uses the runtime timers.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealClock is the wall-clock Clock.
var RealClock Clock = realClock{}

type debounceState int

const (
	idle debounceState = iota
	pending
)

// Debouncer collapses bursts of Trigger calls into one trailing call of fn.
//
// Each Trigger moves the debouncer to the pending state with the newest value
// and restarts the quiescence window. When the window elapses without another
// Trigger, the debouncer returns to idle and calls fn with the latest value.
// There is no leading-edge call and no maximum wait: a steady stream of
// triggers closer together than the window postpones fn indefinitely.
// Calls to fn never overlap.
type Debouncer[T any] struct {
	window time.Duration
	clock  Clock
	fn     func(T)

	mu     sync.Mutex
	state  debounceState
	latest T
	timer  Timer
	// gen identifies the current timer so a fire that lost the race against
	// Stop can recognize itself as stale.
	gen uint64

	// runMu serializes calls to fn. It is always taken before mu.
	runMu sync.Mutex
}

// NewDebouncer creates a Debouncer calling fn after window of quiescence.
// A nil clock means RealClock.
func NewDebouncer[T any](window time.Duration, clock Clock, fn func(T)) *Debouncer[T] {
	if clock == nil {
		clock = RealClock
	}
	return &Debouncer[T]{window: window, clock: clock, fn: fn}
}

// Trigger records v as the latest value and restarts the window.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.state = pending
	d.latest = v
	d.timer = d.clock.AfterFunc(d.window, func() { d.fire(gen) })
}

// fire runs fn with the latest value unless the timer identified by gen was
// superseded. runMu is held across take and fn so runs never overlap and a
// later run always sees a later value.
func (d *Debouncer[T]) fire(gen uint64) {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	if v, ok := d.take(gen); ok {
		d.fn(v)
	}
}

func (d *Debouncer[T]) take(gen uint64) (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		var zero T
		return zero, false
	}
	return d.takeLocked()
}

// takeLocked moves a pending debouncer back to idle and hands out the latest value.
func (d *Debouncer[T]) takeLocked() (T, bool) {
	var zero T
	if d.state != pending {
		return zero, false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	v := d.latest
	d.state = idle
	d.latest = zero
	d.timer = nil
	return v, true
}

// Pending reports whether a call is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state == pending
}

// Cancel drops the pending call, if any. A call already running is not interrupted.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	var zero T
	d.gen++
	d.state = idle
	d.latest = zero
}

// Flush runs the pending call immediately instead of waiting for the window.
// It reports whether there was a pending call. Flush must not be called from fn.
func (d *Debouncer[T]) Flush() bool {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	d.mu.Lock()
	v, ok := d.takeLocked()
	d.mu.Unlock()
	if ok {
		d.fn(v)
	}
	return ok
}
