package main

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"

	"github.com/lixenwraith/beltwaltz/core"
	"github.com/lixenwraith/beltwaltz/session"
)

// slotKeys map to Pixel Belt slots left to right
const slotKeys = "zxcvb"

// controller translates key presses into session calls; runs on the loop goroutine
type controller struct {
	sess     *session.Session
	selected int // sort placement index, -1 when none
}

func newController(s *session.Session) *controller {
	return &controller{sess: s, selected: -1}
}

// handleKey applies one key event and returns false when the player quits
func (c *controller) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		if c.selected >= 0 {
			c.selected = -1
			return true
		}
		return false
	case tcell.KeyTab:
		c.selected = -1
		c.switchGame()
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	r := ev.Rune()
	switch r {
	case 'q', 'Q':
		return false
	case 'r', 'R':
		c.selected = -1
		c.sess.Retry()
		return true
	case 'n', 'N':
		c.selected = -1
		c.sess.Next()
		return true
	case 'm', 'M':
		c.sess.ToggleMute()
		return true
	}

	if c.playing(session.KindSort) {
		c.sortKey(r)
		return true
	}
	if c.playing(session.KindBelt) {
		c.beltKey(r)
		return true
	}
	if r >= '1' && r <= '9' {
		c.selectLevel(int(r - '1'))
	}
	return true
}

// playing reports whether kind is loaded and accepting taps
func (c *controller) playing(kind session.Kind) bool {
	if !c.sess.Loaded() || c.sess.Kind() != kind {
		return false
	}
	st := c.sess.Game().State()
	return st == core.StatePlaying || st == core.StateVictoryLap
}

func (c *controller) sortKey(r rune) {
	switch {
	case r >= 'a' && r <= 'i':
		i := int(r - 'a')
		if i < len(c.sess.Sort().Placements()) {
			c.selected = i
		}
	case r >= '1' && r <= '9':
		d := int(r - '1')
		if c.selected < 0 {
			c.selectLevel(d)
			return
		}
		palette := c.sess.Sort().Level().Palette()
		if d >= len(palette) {
			return
		}
		p := c.sess.Sort().Placements()[c.selected]
		if !c.sess.TapCube(p.ID, palette[d]) {
			log.WithFields(log.Fields{"placement": p.ID, "color": palette[d]}).Debug("pick rejected")
		}
		c.selected = -1
	}
}

func (c *controller) beltKey(r rune) {
	switch {
	case r >= '1' && r <= '5':
		c.sess.TapQueue(int(r - '1'))
	default:
		if i := strings.IndexRune(slotKeys, r); i >= 0 {
			c.sess.TapSlot(i)
		}
	}
}

func (c *controller) selectLevel(i int) {
	kind := c.sess.Kind()
	if i >= c.sess.LevelCount(kind) {
		return
	}
	c.selected = -1
	if err := c.sess.SelectLevel(kind, i); err != nil {
		log.WithError(err).Warn("select level")
	}
}

func (c *controller) switchGame() {
	next := session.KindBelt
	if c.sess.Kind() == session.KindBelt {
		next = session.KindSort
	}
	if err := c.sess.SelectLevel(next, 0); err != nil {
		log.WithError(err).Warn("switch game")
	}
}
