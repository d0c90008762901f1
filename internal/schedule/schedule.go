// Package schedule provides deferred execution for replies that should
// arrive later, such as a character answering a diary entry overnight.
package schedule

import (
	"log/slog"
	"sync"
	"time"
)

// Scheduler runs a callback at a given time on behalf of an entity.
// The returned cancel function stops the callback if it has not fired.
type Scheduler interface {
	ScheduleAt(at time.Time, entityID string, fn func()) (cancel func())
}

// TimerScheduler is a Scheduler backed by in-process timers.
type TimerScheduler struct {
	logger *slog.Logger

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
	closed bool
}

// NewTimerScheduler creates an empty timer scheduler.
func NewTimerScheduler(logger *slog.Logger) *TimerScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimerScheduler{
		logger: logger,
		timers: make(map[*time.Timer]struct{}),
	}
}

// ScheduleAt arms a timer for the callback. A time in the past fires
// immediately on the timer goroutine.
func (s *TimerScheduler) ScheduleAt(at time.Time, entityID string, fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}

	d := time.Until(at)
	if d < 0 {
		d = 0
	}

	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.timers, timer)
		s.mu.Unlock()
		s.logger.Debug("scheduled callback firing", "entity", entityID, "at", at)
		fn()
	})
	s.timers[timer] = struct{}{}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if timer.Stop() {
			delete(s.timers, timer)
		}
	}
}

// Close cancels all pending callbacks.
func (s *TimerScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for timer := range s.timers {
		timer.Stop()
		delete(s.timers, timer)
	}
}
