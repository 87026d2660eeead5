package trial

import (
	"sync"
	"time"
)

// Clock is the time source the engine schedules phases against.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealClock uses wall-clock time.
type RealClock struct{}

// Now returns time.Now().
func (RealClock) Now() time.Time { return time.Now() }

// Sleep blocks for d.
func (RealClock) Sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// VirtualClock is a manually advanced clock. Sleep returns immediately
// after moving the clock forward, so whole runs complete instantly.
type VirtualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewVirtualClock returns a VirtualClock reading start.
func NewVirtualClock(start time.Time) *VirtualClock {
	return &VirtualClock{now: start}
}

// Now returns the current virtual time.
func (c *VirtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep advances the clock by d.
func (c *VirtualClock) Sleep(d time.Duration) {
	c.Advance(d)
}

// Advance moves the clock forward by d. Negative durations are ignored.
func (c *VirtualClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// holdUntil sleeps on clock until deadline. It never sleeps when the
// deadline has already passed.
func holdUntil(clock Clock, deadline time.Time) {
	if d := deadline.Sub(clock.Now()); d > 0 {
		clock.Sleep(d)
	}
}
