package music

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/beltwaltz/core"
	"github.com/lixenwraith/beltwaltz/engine"
	"github.com/lixenwraith/beltwaltz/parameter"
	"github.com/lixenwraith/beltwaltz/status"
)

func TestMain(m *testing.M) {
	engine.StrictInvariants = true
	os.Exit(m.Run())
}

type scheduled struct {
	tone  Tone
	delay time.Duration
}

// recordingSynth captures every tone handed to the synthesizer
type recordingSynth struct {
	notes []scheduled
}

func (r *recordingSynth) Play(t Tone, delay time.Duration) {
	r.notes = append(r.notes, scheduled{t, delay})
}

func (r *recordingSynth) reset() { r.notes = nil }

func (r *recordingSynth) melody() []scheduled {
	var out []scheduled
	for _, n := range r.notes {
		if n.tone.Kind == KindMelody && n.tone.Volume == parameter.MelodyVolume {
			out = append(out, n)
		}
	}
	return out
}

func (r *recordingSynth) count(k Kind) int {
	n := 0
	for _, s := range r.notes {
		if s.tone.Kind == k {
			n++
		}
	}
	return n
}

func newTestEngine() (*Engine, *recordingSynth, *engine.VirtualClock) {
	synth := &recordingSynth{}
	clock := engine.NewVirtualClock()
	return NewEngine(synth, clock, status.NewRegistry()), synth, clock
}

// playLoop advances exactly one full musical loop
func playLoop(e *Engine, clock *engine.VirtualClock) {
	beats := BeatsPerPhrase(e.PhraseCount()) * e.PhraseCount()
	clock.Advance(time.Duration(beats) * e.BeatPeriod())
}

func TestPhraseUnlockScenario(t *testing.T) {
	e, synth, clock := newTestEngine()
	e.SetLevelTempo(120, 42*time.Millisecond)
	e.SetPhraseCount(4)
	e.StartLoop()

	// Nothing unlocked: accompaniment only
	playLoop(e, clock)
	assert.Empty(t, synth.melody())
	assert.Equal(t, 4, synth.count(KindBass))
	assert.Equal(t, 20*3, synth.count(KindChord), "5 off-beats per phrase, 3 notes each")

	// Phrases 0 and 2
	e.Unlock(0)
	e.Unlock(2)
	synth.reset()
	playLoop(e, clock)
	want := len(PhraseMelody(0, 4)) + len(PhraseMelody(2, 4))
	assert.Len(t, synth.melody(), want)
	assert.Equal(t, 16, want)
	assert.Equal(t, 4, synth.count(KindBass))

	// Everything: the full melody
	e.Unlock(1)
	e.Unlock(3)
	synth.reset()
	playLoop(e, clock)
	assert.Len(t, synth.melody(), len(Melody))
}

func TestFullMelodyForEveryPhraseCount(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 6, 8, 9, 12, 22, 24} {
		e, synth, clock := newTestEngine()
		e.SetPhraseCount(n)
		e.StartLoop()
		for i := 0; i < n; i++ {
			e.Unlock(i)
		}
		synth.reset()
		playLoop(e, clock)
		assert.Len(t, synth.melody(), len(Melody), "phrase count %d", n)

		phrase, beat := e.Cursor()
		assert.Equal(t, 0, phrase)
		assert.Equal(t, 0, beat)
	}
}

func TestMelodyDelaysFollowBeatOffsets(t *testing.T) {
	e, synth, clock := newTestEngine()
	e.SetLevelTempo(120, 0)
	e.SetPhraseCount(4)
	e.StartLoop()
	e.Unlock(0)
	synth.reset()

	clock.Advance(e.BeatPeriod())
	mel := synth.melody()
	require.Len(t, mel, 8)
	// E5 at beat 0, E5 at 1, F5 at 1.5 ...
	assert.Equal(t, time.Duration(0), mel[0].delay)
	assert.Equal(t, 500*time.Millisecond, mel[1].delay)
	assert.Equal(t, 750*time.Millisecond, mel[2].delay)
	assert.InDelta(t, Frequency("F5"), mel[2].tone.Freq, 1e-9)
	assert.Equal(t, 250*time.Millisecond, mel[2].tone.Duration)
}

func TestChordStrum(t *testing.T) {
	e, synth, clock := newTestEngine()
	e.SetLevelTempo(120, 0)
	e.SetPhraseCount(4)
	e.StartLoop()

	clock.Advance(2 * e.BeatPeriod())
	var chord []scheduled
	for _, s := range synth.notes {
		if s.tone.Kind == KindChord {
			chord = append(chord, s)
		}
	}
	require.Len(t, chord, 3)
	assert.Equal(t, 8*time.Millisecond, chord[1].delay)
	assert.Equal(t, 16*time.Millisecond, chord[2].delay)
	assert.InDelta(t, parameter.ChordVolume*0.8, chord[2].tone.Volume, 1e-9)
	// Beat 1 of phrase 0 is in the Am measure
	assert.InDelta(t, Frequency("E4"), chord[0].tone.Freq, 1e-9)
}

func TestUnlockIdempotent(t *testing.T) {
	e, synth, _ := newTestEngine()
	e.SetPhraseCount(4)

	assert.True(t, e.Unlock(1))
	n := len(synth.notes)
	assert.Equal(t, 3, n, "arpeggio")
	assert.False(t, e.Unlock(1))
	assert.Len(t, synth.notes, n)
	assert.Equal(t, []int{1}, e.Unlocked())

	assert.False(t, e.Unlock(4), "out of range")
	assert.False(t, e.Unlock(-1))
}

func TestStartLoopIdempotent(t *testing.T) {
	e, _, clock := newTestEngine()
	e.SetPhraseCount(4)
	e.StartLoop()
	clock.Advance(3 * e.BeatPeriod())
	e.StartLoop()

	phrase, beat := e.Cursor()
	assert.Equal(t, 0, phrase)
	assert.Equal(t, 3, beat, "second start must not reset the cursor")
	assert.Equal(t, 1, clock.Pending())

	e.StopLoop()
	e.StopLoop()
	assert.False(t, e.Running())
	assert.Equal(t, 0, clock.Pending())
}

func TestLoopCompleteCallback(t *testing.T) {
	e, _, clock := newTestEngine()
	e.SetPhraseCount(4)
	wraps := 0
	e.SetOnLoopComplete(func() { wraps++ })
	e.StartLoop()

	clock.Advance(23 * e.BeatPeriod())
	assert.Equal(t, 0, wraps)
	clock.Advance(e.BeatPeriod())
	assert.Equal(t, 1, wraps)

	e.SetOnLoopComplete(nil)
	playLoop(e, clock)
	assert.Equal(t, 1, wraps)
}

func TestMuteKeepsCursorMoving(t *testing.T) {
	e, synth, clock := newTestEngine()
	e.SetPhraseCount(4)
	e.StartLoop()
	assert.True(t, e.ToggleMute())

	wraps := 0
	e.SetOnLoopComplete(func() { wraps++ })
	playLoop(e, clock)

	assert.Empty(t, synth.notes)
	assert.Equal(t, 1, wraps)
	assert.False(t, e.ToggleMute())
}

func TestSetLevelTempoResetsUnlocked(t *testing.T) {
	e, _, clock := newTestEngine()
	e.SetPhraseCount(4)
	e.Unlock(2)
	e.StartLoop()

	speed := e.SetLevelTempo(150, 32*time.Millisecond)
	assert.Equal(t, 32*time.Millisecond, speed)
	assert.Empty(t, e.Unlocked())
	assert.Equal(t, 400*time.Millisecond, e.BeatPeriod())
	assert.Equal(t, 1, clock.Pending(), "rescheduled, not duplicated")
}

func TestSetPhraseCountDropsOutOfRange(t *testing.T) {
	e, _, _ := newTestEngine()
	e.SetPhraseCount(8)
	e.Unlock(1)
	e.Unlock(6)
	e.SetPhraseCount(4)
	assert.Equal(t, []int{1}, e.Unlocked())

	e.SetPhraseCount(0)
	assert.Equal(t, 1, e.PhraseCount())
	e.SetPhraseCount(100)
	assert.Equal(t, parameter.MaxPhraseCount, e.PhraseCount())
}

func TestSoundEffects(t *testing.T) {
	e, synth, _ := newTestEngine()

	e.PlayPick(core.Blue)
	require.Len(t, synth.notes, 1)
	assert.InDelta(t, Frequency("B4"), synth.notes[0].tone.Freq, 1e-9)

	synth.reset()
	e.PlayPick(core.Color("teal"))
	assert.InDelta(t, Frequency("E5"), synth.notes[0].tone.Freq, 1e-9)

	synth.reset()
	e.PlayPlace(core.Red)
	require.Len(t, synth.notes, 2)
	assert.InDelta(t, 440*1.5, synth.notes[1].tone.Freq, 1e-9)
	assert.Equal(t, 20*time.Millisecond, synth.notes[1].delay)

	synth.reset()
	e.PlayWinFanfare()
	assert.Len(t, synth.notes, 10)
	assert.Equal(t, 700*time.Millisecond, synth.notes[6].delay)

	synth.reset()
	e.PlayLoseSound()
	require.Len(t, synth.notes, 5)
	assert.Equal(t, 800*time.Millisecond, synth.notes[4].delay)
	assert.InDelta(t, Frequency("A4"), synth.notes[4].tone.Freq, 1e-9)

	synth.reset()
	e.PlayClick()
	assert.Len(t, synth.notes, 1)
}

func TestPixelTone(t *testing.T) {
	left := PixelTone(0, 0, 24, 22)
	assert.InDelta(t, Frequency("C4"), left.Freq, 1e-9)
	assert.InDelta(t, 0.18, left.Volume, 1e-9)

	right := PixelTone(23, 21, 24, 22)
	assert.InDelta(t, Frequency("G5"), right.Freq, 1e-9)
	assert.Less(t, right.Volume, left.Volume)
}
