package pipeline

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, v)
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestDebounceCollapsesBurst(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	d := NewDebouncer(50*time.Millisecond, clock, rec.record)

	d.Trigger("t0")
	clock.Advance(5 * time.Millisecond)
	d.Trigger("t5")
	clock.Advance(3 * time.Millisecond)
	d.Trigger("t8")

	clock.Advance(49 * time.Millisecond)
	if got := rec.get(); len(got) != 0 {
		t.Fatalf("ran before the window elapsed: %q", got)
	}
	clock.Advance(time.Millisecond)
	clock.Advance(time.Second)

	if got := rec.get(); !reflect.DeepEqual(got, []string{"t8"}) {
		t.Fatalf("calls = %q, want exactly one call with t8", got)
	}
	if d.Pending() {
		t.Error("debouncer should be idle after firing")
	}
}

func TestDebounceNoLeadingEdge(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	d := NewDebouncer(50*time.Millisecond, clock, rec.record)

	d.Trigger("x")
	if len(rec.get()) != 0 {
		t.Fatal("leading-edge call observed")
	}
	if !d.Pending() {
		t.Fatal("expected pending state")
	}
}

func TestDebounceStarvesUnderSteadyStream(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	d := NewDebouncer(50*time.Millisecond, clock, rec.record)

	for i := 0; i < 20; i++ {
		d.Trigger("x")
		clock.Advance(40 * time.Millisecond)
	}
	if got := rec.get(); len(got) != 0 {
		t.Fatalf("expected no call while triggers keep arriving, got %q", got)
	}
	clock.Advance(10 * time.Millisecond)
	if got := rec.get(); len(got) != 1 {
		t.Fatalf("expected the trailing call once the stream stops, got %q", got)
	}
}

func TestDebounceSeparateBursts(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	d := NewDebouncer(50*time.Millisecond, clock, rec.record)

	d.Trigger("a")
	clock.Advance(60 * time.Millisecond)
	d.Trigger("b")
	d.Trigger("c")
	clock.Advance(60 * time.Millisecond)

	if got := rec.get(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("calls = %q", got)
	}
}

func TestDebounceCancel(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	d := NewDebouncer(50*time.Millisecond, clock, rec.record)

	d.Trigger("x")
	d.Cancel()
	clock.Advance(time.Second)

	if got := rec.get(); len(got) != 0 {
		t.Fatalf("canceled call ran: %q", got)
	}
	if d.Pending() {
		t.Error("expected idle after Cancel")
	}
}

func TestDebounceFlush(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	d := NewDebouncer(50*time.Millisecond, clock, rec.record)

	if d.Flush() {
		t.Fatal("Flush on idle debouncer reported a call")
	}
	d.Trigger("x")
	if !d.Flush() {
		t.Fatal("Flush did not run the pending call")
	}
	clock.Advance(time.Second)
	if got := rec.get(); !reflect.DeepEqual(got, []string{"x"}) {
		t.Fatalf("calls = %q", got)
	}
}

func TestDebounceRealClock(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(20*time.Millisecond, nil, rec.record)

	d.Trigger("a")
	d.Trigger("b")
	d.Trigger("c")

	deadline := time.Now().Add(2 * time.Second)
	for len(rec.get()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	if got := rec.get(); !reflect.DeepEqual(got, []string{"c"}) {
		t.Fatalf("calls = %q", got)
	}
}

func TestDebounceRunsNeverOverlap(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	var runs atomic.Int32
	d := NewDebouncer(time.Millisecond, nil, func(string) {
		n := inFlight.Add(1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(3 * time.Millisecond)
		inFlight.Add(-1)
		runs.Add(1)
	})

	for i := 0; i < 30; i++ {
		d.Trigger("x")
		time.Sleep(2 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)

	if runs.Load() == 0 {
		t.Fatal("expected at least one run")
	}
	if maxInFlight.Load() != 1 {
		t.Fatalf("runs overlapped: max in flight %d", maxInFlight.Load())
	}
}
