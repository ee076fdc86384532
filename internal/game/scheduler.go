package game

import "sort"

// timer is a one-shot callback due at a game time.
type timer struct {
	due float64
	seq int
	fn  func()
}

// Scheduler runs one-shot callbacks against the session's game clock.
// It is polled once per tick; nothing blocks.
type Scheduler struct {
	now    float64
	seq    int
	timers []timer
}

// NewScheduler creates a scheduler whose clock starts at start seconds.
func NewScheduler(start float64) *Scheduler {
	return &Scheduler{now: start}
}

// Now returns the current game time in seconds.
func (s *Scheduler) Now() float64 {
	return s.now
}

// After schedules fn to run once, delay seconds from now.
func (s *Scheduler) After(delay float64, fn func()) {
	if delay < 0 {
		delay = 0
	}
	s.seq++
	s.timers = append(s.timers, timer{due: s.now + delay, seq: s.seq, fn: fn})
}

// Pending returns the number of callbacks not yet fired.
func (s *Scheduler) Pending() int {
	return len(s.timers)
}

// Advance moves the clock forward by dt seconds and fires every due callback
// once, in due order (ties in scheduling order).
func (s *Scheduler) Advance(dt float64) {
	s.now += dt

	var due []timer
	kept := s.timers[:0]
	for _, t := range s.timers {
		if t.due <= s.now {
			due = append(due, t)
		} else {
			kept = append(kept, t)
		}
	}
	// Clear trailing references so fired closures can be collected
	for i := len(kept); i < len(s.timers); i++ {
		s.timers[i] = timer{}
	}
	s.timers = kept

	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		t.fn()
	}
}
