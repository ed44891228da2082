// Package testutil provides deterministic test doubles for the actor's
// timer scheduler.
package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/helios-os/helios/internal/actor"
)

// ManualScheduler is a Scheduler whose clock only moves when the test
// calls Advance. Callbacks due at or before the new time fire in
// deadline order, ties in schedule order, on the caller's goroutine.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	nextSeq int
	pending []*manualTimer
}

type manualTimer struct {
	due       time.Duration
	seq       int
	fn        func()
	cancelled bool
}

// NewManualScheduler creates a scheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// After schedules fn at now+d.
func (s *ManualScheduler) After(d time.Duration, fn func()) actor.CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &manualTimer{due: s.now + d, seq: s.nextSeq, fn: fn}
	s.nextSeq++
	s.pending = append(s.pending, t)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		t.cancelled = true
	}
}

// Advance moves the clock forward and fires every due, uncancelled
// callback. Callbacks may schedule further timers; those fire too if
// they fall within the advanced window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	deadline := s.now + d
	s.mu.Unlock()

	for {
		t := s.popDue(deadline)
		if t == nil {
			break
		}
		t.fn()
	}

	s.mu.Lock()
	if deadline > s.now {
		s.now = deadline
	}
	s.mu.Unlock()
}

// popDue removes and returns the earliest due timer at or before
// deadline, or nil. The clock lands on the popped timer's due time, so
// a callback that schedules a follow-up measures from its own virtual
// fire time, not from the end of the window.
func (s *ManualScheduler) popDue(deadline time.Duration) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	sort.SliceStable(s.pending, func(i, j int) bool {
		if s.pending[i].due != s.pending[j].due {
			return s.pending[i].due < s.pending[j].due
		}
		return s.pending[i].seq < s.pending[j].seq
	})
	for i, t := range s.pending {
		if t.cancelled {
			continue
		}
		if t.due <= deadline {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			if t.due > s.now {
				s.now = t.due
			}
			return t
		}
		break
	}
	return nil
}

// Pending counts scheduled, uncancelled, unfired timers.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}
