package mocks

import (
	"time"

	"github.com/drawhive/drawhive/internal/dependencies/scheduler"
)

// ScheduledAction is one deferred action captured by the MockScheduler
type ScheduledAction struct {
	Delay time.Duration
	Fn    func()
}

// MockScheduler captures deferred actions instead of running them, so tests
// can fire them deterministically (or leave them unfired)
type MockScheduler struct {
	Scheduled []ScheduledAction
}

// Ensure MockScheduler implements Scheduler
var _ scheduler.Scheduler = (*MockScheduler)(nil)

// NewMockScheduler creates a new MockScheduler
func NewMockScheduler() *MockScheduler {
	return &MockScheduler{}
}

// After records the action without running it
func (s *MockScheduler) After(d time.Duration, fn func()) {
	s.Scheduled = append(s.Scheduled, ScheduledAction{Delay: d, Fn: fn})
}

// FireNext runs the oldest pending action and removes it from the queue.
// Returns false if nothing is pending.
func (s *MockScheduler) FireNext() bool {
	if len(s.Scheduled) == 0 {
		return false
	}
	action := s.Scheduled[0]
	s.Scheduled = s.Scheduled[1:]
	action.Fn()
	return true
}

// FireAll runs every pending action in scheduling order, including actions
// scheduled by the actions themselves
func (s *MockScheduler) FireAll() {
	for s.FireNext() {
	}
}

// PendingCount returns the number of captured, unfired actions
func (s *MockScheduler) PendingCount() int {
	return len(s.Scheduled)
}
