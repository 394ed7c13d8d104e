package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/beltwaltz/core"
	"github.com/lixenwraith/beltwaltz/status"
)

// DefaultQueueSize bounds posted work waiting for the dispatcher
const DefaultQueueSize = 256

// Loop is the real-time Ticker: timer goroutines post handlers onto one dispatch goroutine
// All game, music and input handlers execute on that goroutine
type Loop struct {
	tasks chan func()
	epoch time.Time

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	statTicks *atomic.Int64
}

// NewLoop creates a stopped loop; reg may be nil
func NewLoop(queueSize int, reg *status.Registry) *Loop {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	l := &Loop{
		tasks:    make(chan func(), queueSize),
		epoch:    time.Now(),
		stopChan: make(chan struct{}),
	}
	if reg != nil {
		l.statTicks = reg.Ints.Get(status.EngineTicks)
	}
	return l
}

// Start launches the dispatch goroutine
func (l *Loop) Start() {
	if l.running.CompareAndSwap(false, true) {
		l.wg.Add(1)
		core.Go(l.dispatch)
	}
}

// Stop halts dispatch and all timers; pending work is discarded
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
		if l.running.CompareAndSwap(true, false) {
			l.wg.Wait()
		}
	})
}

// Running reports whether the dispatcher is active
func (l *Loop) Running() bool {
	return l.running.Load()
}

// Now returns time since the loop was created
func (l *Loop) Now() time.Duration {
	return time.Since(l.epoch)
}

func (l *Loop) dispatch() {
	defer l.wg.Done()
	for {
		select {
		case <-l.stopChan:
			return
		case fn := <-l.tasks:
			fn()
			if l.statTicks != nil {
				l.statTicks.Add(1)
			}
		}
	}
}

// Post enqueues fn for the dispatcher, blocking while the queue is full
// Returns false once the loop is stopped
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stopChan:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.stopChan:
		return false
	}
}

// Do runs fn on the dispatcher and waits for it to finish
// Must not be called from the dispatcher itself
func (l *Loop) Do(fn func()) bool {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return false
	}
	select {
	case <-done:
		return true
	case <-l.stopChan:
		return false
	}
}

// Every schedules fn each period with drift-corrected deadlines
func (l *Loop) Every(period time.Duration, fn func()) Cancel {
	period = clampPeriod(period)
	cancelled := make(chan struct{})
	var dead atomic.Bool

	core.Go(func() {
		next := time.Now().Add(period)
		timer := time.NewTimer(period)
		defer timer.Stop()

		for {
			select {
			case <-l.stopChan:
				return
			case <-cancelled:
				return
			case <-timer.C:
			}

			posted := l.Post(func() {
				if !dead.Load() {
					fn()
				}
			})
			if !posted {
				return
			}

			now := time.Now()
			next = next.Add(period)
			// Fell too far behind: resynchronize instead of bursting
			if now.Sub(next) > period*2 {
				next = now.Add(period)
			}
			wait := next.Sub(now)
			if wait < 0 {
				wait = 0
			}
			timer.Reset(wait)
		}
	})

	return onceCancel(func() {
		dead.Store(true)
		close(cancelled)
	})
}

// After schedules fn once after delay
func (l *Loop) After(delay time.Duration, fn func()) Cancel {
	var dead atomic.Bool
	t := time.AfterFunc(delay, func() {
		l.Post(func() {
			if !dead.Load() {
				fn()
			}
		})
	})
	return onceCancel(func() {
		dead.Store(true)
		t.Stop()
	})
}
