package history

import "time"

// Timer is a pending deferred callback.
type Timer interface {
	Stop() bool
}

// Scheduler creates deferred callbacks. Tests substitute a manual one.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemScheduler runs callbacks on time.AfterFunc goroutines.
type SystemScheduler struct{}

// AfterFunc implements Scheduler.
func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler fires callbacks only when told to.
type ManualScheduler struct {
	pending []*manualTimer
}

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// AfterFunc implements Scheduler.
func (s *ManualScheduler) AfterFunc(_ time.Duration, f func()) Timer {
	t := &manualTimer{f: f}
	s.pending = append(s.pending, t)
	return t
}

// Fire runs every callback that was scheduled and not stopped, and reports
// how many ran.
func (s *ManualScheduler) Fire() int {
	timers := s.pending
	s.pending = nil
	n := 0
	for _, t := range timers {
		if !t.stopped {
			t.stopped = true
			t.f()
			n++
		}
	}
	return n
}

// Pending reports how many live callbacks are waiting.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}
