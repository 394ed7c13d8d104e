package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/beltwaltz/engine"
	"github.com/lixenwraith/beltwaltz/music"
	"github.com/lixenwraith/beltwaltz/session"
)

type silentSynth struct{}

func (silentSynth) Play(music.Tone, time.Duration) {}

func newTestController(t *testing.T) *controller {
	t.Helper()
	s := session.New(session.Config{
		Ticker: engine.NewVirtualClock(),
		Synth:  silentSynth{},
		Rand:   rand.New(rand.NewSource(1)),
	})
	return newController(s)
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestQuitKeys(t *testing.T) {
	c := newTestController(t)
	assert.False(t, c.handleKey(key('q')))
	assert.False(t, c.handleKey(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))
	assert.False(t, c.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestSortKeys(t *testing.T) {
	c := newTestController(t)
	s := c.sess

	require.True(t, c.handleKey(key('2')))
	require.True(t, s.Loaded())
	assert.Equal(t, session.KindSort, s.Kind())
	assert.Equal(t, 1, s.Level())

	assert.True(t, c.handleKey(key('a')))
	assert.Equal(t, 0, c.selected)
	assert.True(t, c.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)), "escape clears the selection first")
	assert.Equal(t, -1, c.selected)

	c.handleKey(key('b'))
	assert.Equal(t, 1, c.selected)
	c.handleKey(key('1'))
	assert.Equal(t, -1, c.selected, "a color pick ends the selection")
	assert.Equal(t, 1, s.Level())

	c.handleKey(key('3'))
	assert.Equal(t, 2, s.Level(), "digits select levels without a placement")

	c.handleKey(key('i'))
	assert.Equal(t, -1, c.selected, "no ninth placement on this level")
}

func TestBeltKeys(t *testing.T) {
	c := newTestController(t)
	s := c.sess

	require.True(t, c.handleKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)))
	require.Equal(t, session.KindBelt, s.Kind())
	assert.Equal(t, 0, s.Level())

	c.handleKey(key('1'))
	assert.Len(t, s.Belt().Blobs(), 1)
	c.handleKey(key('2'))
	assert.Len(t, s.Belt().Blobs(), 1, "entry still occupied")
	c.handleKey(key('z'))
	assert.Len(t, s.Belt().Blobs(), 1, "empty slot")

	c.handleKey(key('m'))
	assert.True(t, s.Music().Muted())

	c.handleKey(key('n'))
	assert.Equal(t, 1, s.Level())
	assert.Empty(t, s.Belt().Blobs())

	c.handleKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	assert.Equal(t, session.KindSort, s.Kind())
	assert.Equal(t, 0, s.Level())
}
