package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceFiresDueCallbacksInDeadlineOrder(t *testing.T) {
	s := NewManualScheduler()

	var fired []string
	s.After(2*time.Second, func() { fired = append(fired, "b") })
	s.After(time.Second, func() { fired = append(fired, "a") })
	s.After(3*time.Second, func() { fired = append(fired, "c") })

	s.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, 1, s.Pending())

	s.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, fired)
	assert.Equal(t, 0, s.Pending())
}

func TestTiesFireInScheduleOrder(t *testing.T) {
	s := NewManualScheduler()

	var fired []string
	s.After(time.Second, func() { fired = append(fired, "first") })
	s.After(time.Second, func() { fired = append(fired, "second") })

	s.Advance(time.Second)
	assert.Equal(t, []string{"first", "second"}, fired)
}

func TestCancelPreventsFiring(t *testing.T) {
	s := NewManualScheduler()

	fired := false
	cancel := s.After(time.Second, func() { fired = true })
	cancel()

	s.Advance(time.Minute)
	assert.False(t, fired)
	assert.Equal(t, 0, s.Pending())
}

func TestCallbacksMayScheduleWithinTheWindow(t *testing.T) {
	s := NewManualScheduler()

	var fired []string
	s.After(time.Second, func() {
		fired = append(fired, "outer")
		s.After(time.Second, func() { fired = append(fired, "inner") })
	})

	// The inner timer lands at t=2s, inside the advanced window.
	s.Advance(3 * time.Second)
	assert.Equal(t, []string{"outer", "inner"}, fired)
}

func TestFollowUpsMeasureFromVirtualFireTime(t *testing.T) {
	s := NewManualScheduler()

	var fired []string
	s.After(2*time.Second, func() {
		fired = append(fired, "first")
		s.After(2*time.Second, func() {
			fired = append(fired, "second")
			s.After(2*time.Second, func() { fired = append(fired, "third") })
		})
		// Due at 2s+5s=7s, beyond the window below.
		s.After(5*time.Second, func() { fired = append(fired, "late") })
	})

	// One advance walks the whole chain: dues at 2s, 4s, 6s.
	s.Advance(6 * time.Second)
	assert.Equal(t, []string{"first", "second", "third"}, fired)
	assert.Equal(t, 1, s.Pending())

	s.Advance(time.Second)
	assert.Equal(t, []string{"first", "second", "third", "late"}, fired)
}

func TestAdvanceEndsAtTheWindowBoundary(t *testing.T) {
	s := NewManualScheduler()

	s.After(time.Second, func() {})
	s.Advance(3 * time.Second)

	// Timers scheduled after the advance measure from the boundary,
	// not from the last fired timer.
	fired := false
	s.After(2*time.Second, func() { fired = true })
	s.Advance(time.Second)
	assert.False(t, fired)
	s.Advance(time.Second)
	assert.True(t, fired)
}

func TestTimersOutsideWindowWait(t *testing.T) {
	s := NewManualScheduler()

	fired := false
	s.After(5*time.Second, func() { fired = true })

	s.Advance(4 * time.Second)
	assert.False(t, fired)
	assert.Equal(t, 1, s.Pending())
}
