package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestBurstCoalescesToOneFiring(t *testing.T) {
	s := New(40 * time.Millisecond)
	defer s.Stop()

	var fired int32
	for i := 0; i < 5; i++ {
		s.Schedule(func() { atomic.AddInt32(&fired, 1) })
		time.Sleep(10 * time.Millisecond)
	}

	// Still inside the quiet period of the last call.
	if n := atomic.LoadInt32(&fired); n != 0 {
		t.Fatalf("fired %d times before delay elapsed", n)
	}

	time.Sleep(100 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Fatalf("expected exactly 1 firing for the burst, got %d", n)
	}
}

func TestFiresFromLastCall(t *testing.T) {
	s := New(50 * time.Millisecond)
	defer s.Stop()

	var firedAt atomic.Value
	s.Schedule(func() { firedAt.Store(time.Now()) })
	time.Sleep(30 * time.Millisecond)
	last := time.Now()
	s.Schedule(func() { firedAt.Store(time.Now()) })

	time.Sleep(120 * time.Millisecond)
	at, ok := firedAt.Load().(time.Time)
	if !ok {
		t.Fatal("action never fired")
	}
	if elapsed := at.Sub(last); elapsed < 40*time.Millisecond {
		t.Errorf("fired %v after last call, want the full delay from the last call", elapsed)
	}
}

func TestCancelDropsPendingAction(t *testing.T) {
	s := New(20 * time.Millisecond)
	defer s.Stop()

	var fired int32
	s.Schedule(func() { atomic.AddInt32(&fired, 1) })
	s.Cancel()

	time.Sleep(60 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 0 {
		t.Fatalf("cancelled action fired %d times", n)
	}

	// Scheduler remains usable after Cancel.
	s.Schedule(func() { atomic.AddInt32(&fired, 1) })
	time.Sleep(60 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Fatalf("expected 1 firing after re-schedule, got %d", n)
	}
}

func TestStopIsTerminal(t *testing.T) {
	s := New(20 * time.Millisecond)

	var fired int32
	s.Schedule(func() { atomic.AddInt32(&fired, 1) })
	s.Stop()
	s.Schedule(func() { atomic.AddInt32(&fired, 1) })

	time.Sleep(60 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 0 {
		t.Fatalf("stopped scheduler fired %d times", n)
	}
}
