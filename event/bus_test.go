package event

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/beltwaltz/core"
)

type recorder struct {
	types []Type
	got   []Event
}

func (r *recorder) HandleEvent(ev Event) { r.got = append(r.got, ev) }
func (r *recorder) EventTypes() []Type  { return r.types }

func TestBusDeliversOnFlushOnly(t *testing.T) {
	b := NewBus(nil)
	r := &recorder{types: []Type{CubePlace}}
	b.Register(r)

	b.Emit(Event{Type: CubePlace, Color: core.Red, PlacementID: 2})
	assert.Empty(t, r.got)
	assert.Equal(t, 1, b.Pending())

	b.Flush()
	assert.Len(t, r.got, 1)
	assert.Equal(t, 2, r.got[0].PlacementID)
	assert.Equal(t, 0, b.Pending())
}

func TestBusRoutesByType(t *testing.T) {
	b := NewBus(nil)
	picks := &recorder{types: []Type{CubePick, BeltRelease}}
	wins := &recorder{types: []Type{Win}}
	b.Register(picks)
	b.Register(wins)

	b.Emit(Event{Type: CubePick})
	b.Emit(Event{Type: Win})
	b.Emit(Event{Type: BeltRelease})
	b.Emit(Event{Type: Lose})
	b.Flush()

	assert.Len(t, picks.got, 2)
	assert.Equal(t, BeltRelease, picks.got[1].Type)
	assert.Len(t, wins.got, 1)
	assert.Equal(t, 2, b.HandlerCount(CubePick)+b.HandlerCount(Win))
}

func TestBusNestedEmitDeliveredInSameFlush(t *testing.T) {
	b := NewBus(nil)
	var order []Type
	b.Register(HandlerFunc{Types: []Type{VictoryLap}, Fn: func(ev Event) {
		order = append(order, ev.Type)
		b.Emit(Event{Type: Win})
		b.Flush()
	}})
	b.Register(HandlerFunc{Types: []Type{Win}, Fn: func(ev Event) {
		order = append(order, ev.Type)
	}})

	b.Emit(Event{Type: VictoryLap})
	b.Flush()

	assert.Equal(t, []Type{VictoryLap, Win}, order)
}

func TestBusCountsEmitted(t *testing.T) {
	var n atomic.Int64
	b := NewBus(&n)
	b.Emit(Event{Type: PixelFill})
	b.Emit(Event{Type: RowComplete})
	b.Drop()

	assert.Equal(t, int64(2), n.Load())
	assert.Equal(t, 0, b.Pending())
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "layer_complete", LayerComplete.String())
	assert.Equal(t, "event(99)", Type(99).String())
}
