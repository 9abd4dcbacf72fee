// Package debounce delays a callback until its input has stopped changing for
// a fixed interval.
package debounce

import (
	"sync"
	"time"
)

// Timer is the subset of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it once wrapped.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Option[T any] func(*Debouncer[T])

// WithAfterFunc replaces the timer source, mainly for deterministic tests.
func WithAfterFunc[T any](af AfterFunc) Option[T] {
	return func(d *Debouncer[T]) {
		d.afterFunc = af
	}
}

// Debouncer emits the latest triggered value once no new value has arrived for
// the configured delay. After Stop nothing is ever emitted again.
type Debouncer[T any] struct {
	mu        sync.Mutex
	delay     time.Duration
	fn        func(T)
	afterFunc AfterFunc

	timer   Timer
	pending bool
	value   T
	gen     uint64
	stopped bool
}

func New[T any](delay time.Duration, fn func(T), opts ...Option[T]) *Debouncer[T] {
	d := &Debouncer[T]{
		delay:     delay,
		fn:        fn,
		afterFunc: realAfterFunc,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Trigger records v as the latest value and restarts the settle timer.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}

	d.value = v
	d.pending = true
	d.gen++
	gen := d.gen
	d.timer = d.afterFunc(d.delay, func() { d.fire(gen) })
}

// fire runs on the timer goroutine. A timer that was superseded or stopped
// after it had already started still carries its old generation and is ignored.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.value
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	d.fn(v)
}

// Flush emits the pending value immediately, if there is one.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	v := d.value
	d.pending = false
	d.gen++
	d.mu.Unlock()

	d.fn(v)
	return true
}

// Cancel drops the pending value without emitting it. The debouncer stays usable.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
}

// Stop cancels any pending emission and disables the debouncer for good.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	d.stopped = true
}

func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.pending
}

func (d *Debouncer[T]) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	var zero T
	d.value = zero
	d.pending = false
	d.gen++
}
