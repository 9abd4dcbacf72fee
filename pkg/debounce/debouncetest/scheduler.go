// Package debouncetest provides a manually driven timer source for tests of
// code built on package debounce.
package debouncetest

import (
	"sync"
	"time"

	"mindconnect/pkg/debounce"
)

// Scheduler hands out timers that only fire when the test advances time.
type Scheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*timer
}

type timer struct {
	s        *Scheduler
	deadline time.Duration
	f        func()
	stopped  bool
	fired    bool
}

func (t *timer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func New() *Scheduler {
	return &Scheduler{}
}

// AfterFunc matches debounce.AfterFunc.
func (s *Scheduler) AfterFunc(d time.Duration, f func()) debounce.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &timer{s: s, deadline: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward and runs, in deadline order, every timer
// that became due. Callbacks run on the caller's goroutine.
func (s *Scheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	s.now += d
	var due []*timer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.deadline <= s.now {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for i := 1; i < len(due); i++ {
		for j := i; j > 0 && due[j].deadline < due[j-1].deadline; j-- {
			due[j], due[j-1] = due[j-1], due[j]
		}
	}
	for _, t := range due {
		t.f()
	}
	return len(due)
}

// Active reports timers that are neither stopped nor fired.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
