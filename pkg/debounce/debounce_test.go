package debounce_test

import (
	"sync"
	"testing"
	"time"

	"mindconnect/pkg/debounce"
	"mindconnect/pkg/debounce/debouncetest"
)

type recorder struct {
	mu     sync.Mutex
	values []string
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

func newDebouncer(delay time.Duration) (*debounce.Debouncer[string], *debouncetest.Scheduler, *recorder) {
	sched := debouncetest.New()
	rec := &recorder{}
	d := debounce.New(delay, rec.record, debounce.WithAfterFunc[string](sched.AfterFunc))
	return d, sched, rec
}

func TestDebouncer_RapidTriggersEmitOnceWithLastValue(t *testing.T) {
	d, sched, rec := newDebouncer(500 * time.Millisecond)

	for _, v := range []string{"a", "an", "anx", "anxi", "anxiety"} {
		d.Trigger(v)
		sched.Advance(100 * time.Millisecond)
	}

	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("emitted before settle: %v", got)
	}

	sched.Advance(500 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 1 || got[0] != "anxiety" {
		t.Fatalf("emitted %v, want [anxiety]", got)
	}
}

func TestDebouncer_EachTriggerRestartsDelay(t *testing.T) {
	d, sched, rec := newDebouncer(500 * time.Millisecond)

	d.Trigger("first")
	sched.Advance(499 * time.Millisecond)
	d.Trigger("second")
	sched.Advance(499 * time.Millisecond)

	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("emitted too early: %v", got)
	}

	sched.Advance(time.Millisecond)
	if got := rec.snapshot(); len(got) != 1 || got[0] != "second" {
		t.Fatalf("emitted %v, want [second]", got)
	}
}

func TestDebouncer_SeparateBurstsEmitSeparately(t *testing.T) {
	d, sched, rec := newDebouncer(500 * time.Millisecond)

	d.Trigger("one")
	sched.Advance(time.Second)
	d.Trigger("two")
	sched.Advance(time.Second)

	got := rec.snapshot()
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Fatalf("emitted %v", got)
	}
}

func TestDebouncer_StopDiscardsPending(t *testing.T) {
	d, sched, rec := newDebouncer(500 * time.Millisecond)

	d.Trigger("stale")
	d.Stop()
	sched.Advance(time.Second)

	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("emitted after stop: %v", got)
	}

	d.Trigger("ignored")
	sched.Advance(time.Second)
	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("emitted after stop: %v", got)
	}
	if sched.Active() != 0 {
		t.Fatalf("active timers after stop: %d", sched.Active())
	}
}

func TestDebouncer_CancelKeepsDebouncerUsable(t *testing.T) {
	d, sched, rec := newDebouncer(500 * time.Millisecond)

	d.Trigger("dropped")
	d.Cancel()
	sched.Advance(time.Second)

	d.Trigger("kept")
	sched.Advance(time.Second)

	if got := rec.snapshot(); len(got) != 1 || got[0] != "kept" {
		t.Fatalf("emitted %v, want [kept]", got)
	}
}

func TestDebouncer_Flush(t *testing.T) {
	d, sched, rec := newDebouncer(500 * time.Millisecond)

	if d.Flush() {
		t.Fatal("flush with nothing pending reported true")
	}

	d.Trigger("now")
	if !d.Pending() {
		t.Fatal("expected pending value")
	}
	if !d.Flush() {
		t.Fatal("flush reported false")
	}
	sched.Advance(time.Second)

	if got := rec.snapshot(); len(got) != 1 || got[0] != "now" {
		t.Fatalf("emitted %v, want [now]", got)
	}
}

func TestDebouncer_RealTimer(t *testing.T) {
	done := make(chan string, 1)
	d := debounce.New(10*time.Millisecond, func(v string) { done <- v })
	defer d.Stop()

	d.Trigger("x")
	d.Trigger("y")

	select {
	case v := <-done:
		if v != "y" {
			t.Fatalf("got %q, want y", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never fired")
	}
}
