package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVirtualClockEvery(t *testing.T) {
	c := NewVirtualClock()
	n := 0
	c.Every(50*time.Millisecond, func() { n++ })

	c.Advance(49 * time.Millisecond)
	assert.Equal(t, 0, n)
	c.Advance(time.Millisecond)
	assert.Equal(t, 1, n)
	c.Advance(200 * time.Millisecond)
	assert.Equal(t, 5, n)
	assert.Equal(t, 250*time.Millisecond, c.Now())
}

func TestVirtualClockOrdering(t *testing.T) {
	c := NewVirtualClock()
	var order []string
	c.Every(30*time.Millisecond, func() { order = append(order, "a") })
	c.Every(20*time.Millisecond, func() { order = append(order, "b") })
	c.After(60*time.Millisecond, func() { order = append(order, "once") })

	c.Advance(60 * time.Millisecond)
	// 20:b 30:a 40:b 60:a(seq1) 60:b(seq2) 60:once(seq3)
	assert.Equal(t, []string{"b", "a", "b", "a", "b", "once"}, order)
}

func TestVirtualClockCancel(t *testing.T) {
	c := NewVirtualClock()
	n := 0
	cancel := c.Every(10*time.Millisecond, func() { n++ })
	c.Advance(35 * time.Millisecond)
	cancel()
	cancel()
	c.Advance(100 * time.Millisecond)

	assert.Equal(t, 3, n)
	assert.Equal(t, 0, c.Pending())
}

func TestVirtualClockScheduleFromHandler(t *testing.T) {
	c := NewVirtualClock()
	fired := time.Duration(-1)
	c.After(10*time.Millisecond, func() {
		c.After(5*time.Millisecond, func() { fired = c.Now() })
	})

	c.Advance(20 * time.Millisecond)
	assert.Equal(t, 15*time.Millisecond, fired)
}

func TestVirtualClockClampsPeriod(t *testing.T) {
	c := NewVirtualClock()
	n := 0
	c.Every(0, func() { n++ })
	c.Advance(5 * time.Millisecond)
	assert.Equal(t, 5, n)
}
