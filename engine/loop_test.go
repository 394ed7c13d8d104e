package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/beltwaltz/status"
)

func TestLoopRunsHandlersSerially(t *testing.T) {
	reg := status.NewRegistry()
	l := NewLoop(0, reg)
	l.Start()
	defer l.Stop()

	var inside, overlap atomic.Int32
	var count atomic.Int32
	handler := func() {
		if inside.Add(1) > 1 {
			overlap.Add(1)
		}
		count.Add(1)
		inside.Add(-1)
	}
	c1 := l.Every(2*time.Millisecond, handler)
	c2 := l.Every(3*time.Millisecond, handler)
	defer c1()
	defer c2()

	require.Eventually(t, func() bool { return count.Load() >= 20 }, 2*time.Second, time.Millisecond)
	assert.Zero(t, overlap.Load())
	assert.Positive(t, reg.Ints.Get(status.EngineTicks).Load())
}

func TestLoopAfterAndCancel(t *testing.T) {
	l := NewLoop(8, nil)
	l.Start()
	defer l.Stop()

	var fired, cancelled atomic.Bool
	l.After(time.Millisecond, func() { fired.Store(true) })
	cancel := l.After(50*time.Millisecond, func() { cancelled.Store(true) })
	cancel()

	require.Eventually(t, fired.Load, time.Second, time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	assert.False(t, cancelled.Load())
}

func TestLoopDoWaits(t *testing.T) {
	l := NewLoop(8, nil)
	l.Start()

	x := 0
	ok := l.Do(func() { x = 42 })
	assert.True(t, ok)
	assert.Equal(t, 42, x)

	l.Stop()
	l.Stop()
	assert.False(t, l.Post(func() {}))
	assert.False(t, l.Running())
}
