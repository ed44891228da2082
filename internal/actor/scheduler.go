package actor

import "time"

// CancelFunc cancels a scheduled callback. Safe to call after firing.
type CancelFunc func()

// Scheduler schedules one-shot deferred callbacks. The production
// implementation uses wall-clock timers; tests inject a manual
// scheduler and advance time explicitly.
//
// Callbacks must be cheap: the actor's implementation only enqueues a
// timer event, so the actual work still runs on the single-writer loop.
type Scheduler interface {
	After(d time.Duration, fn func()) CancelFunc
}

// WallClock is the production Scheduler backed by time.AfterFunc.
type WallClock struct{}

// After schedules fn after d.
func (WallClock) After(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
