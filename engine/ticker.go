package engine

import (
	"sync"
	"time"
)

// Cancel stops a scheduled handler; safe to call more than once
// A delivery already handed to the dispatcher may still run once after Cancel returns
type Cancel func()

// Ticker schedules handlers on a single cooperative dispatcher
// Handlers run to completion one at a time and must not block
type Ticker interface {
	// Every runs fn each period until cancelled
	Every(period time.Duration, fn func()) Cancel

	// After runs fn once after delay unless cancelled first
	After(delay time.Duration, fn func()) Cancel

	// Now returns time elapsed since the ticker was created
	Now() time.Duration
}

func onceCancel(fn func()) Cancel {
	var once sync.Once
	return func() { once.Do(fn) }
}

// NopCancel is returned when nothing was scheduled
func NopCancel() {}

// minPeriod guards against zero or negative periods spinning the dispatcher
const minPeriod = time.Millisecond

func clampPeriod(d time.Duration) time.Duration {
	if d < minPeriod {
		return minPeriod
	}
	return d
}
