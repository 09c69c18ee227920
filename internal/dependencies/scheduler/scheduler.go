package scheduler

import "time"

// Scheduler defers an action by a wall-clock duration. The round lifecycle
// uses it for the roundOver -> pickingWord and roundOver -> gameOver delays;
// scheduled actions re-validate lobby state when they fire, so firing late
// (or never, in tests) is always safe.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// RealScheduler implements Scheduler with time.AfterFunc
type RealScheduler struct{}

// New creates a new RealScheduler
func New() *RealScheduler {
	return &RealScheduler{}
}

// After runs fn on its own goroutine after d has elapsed
func (s *RealScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
