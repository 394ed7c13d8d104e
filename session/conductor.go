package session

import (
	log "github.com/sirupsen/logrus"

	"github.com/lixenwraith/beltwaltz/conveyor"
	"github.com/lixenwraith/beltwaltz/core"
	"github.com/lixenwraith/beltwaltz/event"
	"github.com/lixenwraith/beltwaltz/music"
	"github.com/lixenwraith/beltwaltz/pixelbelt"
)

// Conductor turns gameplay events into music engine calls
type Conductor struct {
	music *music.Engine
	sort  *conveyor.Game
	belt  *pixelbelt.Game
}

// NewConductor subscribes to both games
func NewConductor(m *music.Engine, sort *conveyor.Game, belt *pixelbelt.Game) *Conductor {
	c := &Conductor{music: m, sort: sort, belt: belt}
	sort.Subscribe(event.HandlerFunc{
		Types: []event.Type{
			event.CubePick, event.BeltRelease, event.CubePlace, event.LayerComplete,
			event.VictoryLap, event.Win, event.Lose, event.StateChange,
		},
		Fn: c.onSort,
	})
	belt.Subscribe(event.HandlerFunc{
		Types: []event.Type{event.PixelFill, event.RowComplete, event.Win, event.Lose, event.StateChange},
		Fn:    c.onBelt,
	})
	return c
}

func (c *Conductor) onSort(ev event.Event) {
	switch ev.Type {
	case event.CubePick, event.BeltRelease:
		c.music.PlayPick(ev.Color)
	case event.CubePlace:
		c.music.PlayPlace(ev.Color)
	case event.LayerComplete:
		c.music.PlayBoxMelody(ev.Color, ev.PlacementID)
	case event.VictoryLap:
		c.music.SetOnLoopComplete(func() { c.sort.CompleteVictoryLap() })
	case event.Win:
		c.music.SetOnLoopComplete(nil)
	case event.Lose:
		c.lose()
	case event.StateChange:
		c.follow(ev.From, ev.To)
	}
}

func (c *Conductor) onBelt(ev event.Event) {
	switch ev.Type {
	case event.PixelFill:
		c.music.PlayPixelNote(ev.X, ev.Y, ev.Width, ev.Height)
	case event.RowComplete:
		p := c.belt.PhraseOfRow(ev.Row)
		if c.belt.PhraseComplete(p) {
			c.music.Unlock(p)
		}
	case event.Win:
		c.music.PlayWinFanfare()
	case event.Lose:
		c.lose()
	case event.StateChange:
		c.follow(ev.From, ev.To)
	}
}

func (c *Conductor) lose() {
	c.music.StopLoop()
	c.music.SetOnLoopComplete(nil)
	c.music.PlayLoseSound()
}

// follow keeps the loop running in every state where belts move
func (c *Conductor) follow(from, to core.GameState) {
	log.WithFields(log.Fields{"from": from, "to": to}).Debug("conductor")
	if to.Running() {
		c.music.StartLoop()
		return
	}
	c.music.StopLoop()
	c.music.SetOnLoopComplete(nil)
}
