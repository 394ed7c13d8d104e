package engine

import (
	"sync"
	"time"
)

// VirtualClock is a deterministic Ticker for tests
// Time only moves through Advance; due handlers fire in due-time order, ties in registration order
type VirtualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*virtualTimer
}

type virtualTimer struct {
	due    time.Duration
	period time.Duration // zero for one-shot
	seq    uint64
	fn     func()
	dead   bool
}

// NewVirtualClock creates a clock at time zero
func NewVirtualClock() *VirtualClock {
	return &VirtualClock{}
}

// Now returns the current virtual time
func (c *VirtualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Every schedules fn at now+period, now+2*period, ...
func (c *VirtualClock) Every(period time.Duration, fn func()) Cancel {
	return c.add(clampPeriod(period), clampPeriod(period), fn)
}

// After schedules fn once at now+delay
func (c *VirtualClock) After(delay time.Duration, fn func()) Cancel {
	if delay < 0 {
		delay = 0
	}
	return c.add(delay, 0, fn)
}

// Post runs fn immediately; the caller is the dispatcher
func (c *VirtualClock) Post(fn func()) bool {
	fn()
	return true
}

func (c *VirtualClock) add(delay, period time.Duration, fn func()) Cancel {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &virtualTimer{due: c.now + delay, period: period, seq: c.seq, fn: fn}
	c.timers = append(c.timers, t)
	return onceCancel(func() {
		c.mu.Lock()
		t.dead = true
		c.mu.Unlock()
	})
}

// Advance moves time forward by d, firing every handler that falls due
func (c *VirtualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		t := c.nextDue(target)
		if t == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = t.due
		if t.period > 0 {
			t.due += t.period
		} else {
			t.dead = true
		}
		fn := t.fn
		c.mu.Unlock()

		fn()
	}
}

// AdvanceTo moves time to an absolute instant; no-op if already past it
func (c *VirtualClock) AdvanceTo(at time.Duration) {
	now := c.Now()
	if at > now {
		c.Advance(at - now)
	}
}

// nextDue returns the earliest live timer due at or before target and prunes dead ones
func (c *VirtualClock) nextDue(target time.Duration) *virtualTimer {
	live := c.timers[:0]
	var best *virtualTimer
	for _, t := range c.timers {
		if t.dead {
			continue
		}
		live = append(live, t)
		if t.due > target {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.seq < best.seq) {
			best = t
		}
	}
	c.timers = live
	return best
}

// Pending returns the number of live timers
func (c *VirtualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.dead {
			n++
		}
	}
	return n
}
