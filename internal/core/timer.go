package core

import "time"

// StepClock paces automatic simulation steps in interactive front ends. It
// allows at most one step per interval and never queues a backlog.
type StepClock struct {
	interval time.Duration
	last     time.Time
	paused   bool
	now      func() time.Time
}

// NewStepClock returns a clock firing at most perSecond times a second.
func NewStepClock(perSecond int) *StepClock {
	c := &StepClock{now: time.Now}
	c.SetRate(perSecond)
	return c
}

// SetRate changes the step rate. Non-positive rates fall back to 4 per second.
func (c *StepClock) SetRate(perSecond int) {
	if perSecond <= 0 {
		perSecond = 4
	}
	c.interval = time.Second / time.Duration(perSecond)
}

// Interval returns the minimum time between two steps.
func (c *StepClock) Interval() time.Duration { return c.interval }

// SetPaused stops or resumes the clock.
func (c *StepClock) SetPaused(paused bool) { c.paused = paused }

// Paused reports whether the clock is stopped.
func (c *StepClock) Paused() bool { return c.paused }

// Due reports whether a step should run now and, if so, restarts the interval.
func (c *StepClock) Due() bool {
	if c.paused {
		return false
	}
	now := c.now()
	if !c.last.IsZero() && now.Sub(c.last) < c.interval {
		return false
	}
	c.last = now
	return true
}
