// Package debounce coalesces bursts of events into a single deferred action.
package debounce

import (
	"sync"
	"time"
)

// Scheduler arms a timer on each Schedule call, cancelling any previously
// armed action. For a burst of calls within the delay window, exactly one
// action fires, timed from the last call. A stopped scheduler never fires.
type Scheduler struct {
	mu      sync.Mutex
	delay   time.Duration
	gen     uint64
	timer   *time.Timer
	stopped bool
}

// New creates a scheduler with the given quiet-period delay.
func New(delay time.Duration) *Scheduler {
	return &Scheduler{delay: delay}
}

// Schedule cancels any pending action and arms action to fire after the
// configured delay. Side effect only; the action runs on the timer goroutine.
func (s *Scheduler) Schedule(action func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		// A later Schedule, Cancel or Stop invalidates this firing even if
		// the timer already expired and is waiting on the lock.
		stale := s.stopped || gen != s.gen
		s.mu.Unlock()
		if !stale {
			action()
		}
	})
}

// Cancel drops any pending action without stopping the scheduler.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// Stop cancels any pending action and permanently disables the scheduler.
// Used on session teardown so no timer outlives its view.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.stopped = true
}
