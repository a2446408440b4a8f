package scheduler

import "time"

// Timer schedules continuations with time.AfterFunc.
type Timer struct{}

// NewTimer returns a Timer scheduler.
func NewTimer() Timer { return Timer{} }

// AfterFunc runs fn on its own goroutine once d has elapsed.
func (Timer) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
