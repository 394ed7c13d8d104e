package music

import (
	"sync/atomic"
	"time"

	"github.com/kamstrup/intmap"
	log "github.com/sirupsen/logrus"

	"github.com/lixenwraith/beltwaltz/core"
	"github.com/lixenwraith/beltwaltz/engine"
	"github.com/lixenwraith/beltwaltz/parameter"
	"github.com/lixenwraith/beltwaltz/status"
)

// DefaultPhraseCount applies until a level sets its unit count
const DefaultPhraseCount = 4

// Engine owns the musical loop: tempo, phrase map, unlocked phrases and the beat cursor
// All methods run on the dispatcher goroutine
type Engine struct {
	synth  Synth
	ticker engine.Ticker

	tempo     int
	beltSpeed time.Duration
	phrases   int
	unlocked  *intmap.Map[int, struct{}]

	phrase int // cursor phrase index
	beat   int // cursor beat within phrase

	onLoopComplete func()
	muted          bool
	running        bool
	cancelBeat     engine.Cancel

	statBeats    *atomic.Int64
	statNotes    *atomic.Int64
	statUnlocked *atomic.Int64
}

// NewEngine creates a stopped engine at the default tempo; reg may be nil
func NewEngine(synth Synth, ticker engine.Ticker, reg *status.Registry) *Engine {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Engine{
		synth:        synth,
		ticker:       ticker,
		tempo:        parameter.DefaultTempo,
		beltSpeed:    parameter.DefaultBeltSpeed,
		phrases:      DefaultPhraseCount,
		unlocked:     intmap.New[int, struct{}](parameter.MaxPhraseCount),
		statBeats:    reg.Ints.Get(status.MusicBeats),
		statNotes:    reg.Ints.Get(status.MusicNotes),
		statUnlocked: reg.Ints.Get(status.MusicUnlocked),
	}
}

// Tempo returns beats per minute
func (e *Engine) Tempo() int { return e.tempo }

// BeltSpeed returns the gameplay tick period paired with the tempo
func (e *Engine) BeltSpeed() time.Duration { return e.beltSpeed }

// PhraseCount returns N
func (e *Engine) PhraseCount() int { return e.phrases }

// Running reports whether the beat timer is active
func (e *Engine) Running() bool { return e.running }

// Muted reports whether output is silenced
func (e *Engine) Muted() bool { return e.muted }

// Cursor returns the phrase index and beat within phrase of the next beat
func (e *Engine) Cursor() (phrase, beat int) { return e.phrase, e.beat }

// BeatPeriod returns the duration of one beat
func (e *Engine) BeatPeriod() time.Duration {
	return time.Minute / time.Duration(max(e.tempo, 1))
}

// SetLevelTempo applies a level's tempo and belt speed and clears unlocked phrases
// A running loop is rescheduled at the new period without moving the cursor
func (e *Engine) SetLevelTempo(tempo int, beltSpeed time.Duration) time.Duration {
	if tempo <= 0 {
		tempo = parameter.DefaultTempo
	}
	if beltSpeed <= 0 {
		beltSpeed = parameter.DefaultBeltSpeed
	}
	e.tempo = tempo
	e.beltSpeed = beltSpeed
	e.ResetUnlocked()

	if e.running {
		e.cancelBeat()
		e.cancelBeat = e.ticker.Every(e.BeatPeriod(), e.Beat)
	}

	log.WithFields(log.Fields{"tempo": tempo, "beltSpeed": beltSpeed}).Debug("level tempo")
	return beltSpeed
}

// SetPhraseCount sets N, clamped to [1,24]; unlocked phrases beyond N are dropped
func (e *Engine) SetPhraseCount(n int) {
	n = clampPhrases(n)
	e.phrases = n

	for i := n; i < parameter.MaxPhraseCount; i++ {
		e.unlocked.Del(i)
	}
	e.statUnlocked.Store(int64(e.unlocked.Len()))

	if e.phrase >= n {
		e.phrase, e.beat = 0, 0
	}
	if e.beat >= BeatsPerPhrase(n) {
		e.beat = 0
	}
}

// StartLoop resets the cursor and starts the beat timer; no-op while running
func (e *Engine) StartLoop() {
	if e.running {
		return
	}
	e.running = true
	e.phrase, e.beat = 0, 0
	e.cancelBeat = e.ticker.Every(e.BeatPeriod(), e.Beat)
}

// StopLoop cancels the beat timer and resets the cursor; no-op while stopped
func (e *Engine) StopLoop() {
	if !e.running {
		return
	}
	e.running = false
	if e.cancelBeat != nil {
		e.cancelBeat()
		e.cancelBeat = nil
	}
	e.phrase, e.beat = 0, 0
}

// SetOnLoopComplete registers the callback fired when the cursor wraps to phrase 0; nil clears it
func (e *Engine) SetOnLoopComplete(cb func()) {
	e.onLoopComplete = cb
}

// Unlock adds phrase i to the loop and plays the unlock arpeggio the first time
func (e *Engine) Unlock(i int) bool {
	if i < 0 || i >= e.phrases {
		log.WithFields(log.Fields{"phrase": i, "phrases": e.phrases}).Debug("unlock out of range")
		return false
	}
	if _, ok := e.unlocked.Get(i); ok {
		return false
	}
	e.unlocked.Put(i, struct{}{})
	e.statUnlocked.Store(int64(e.unlocked.Len()))

	for j, name := range [...]string{"C5", "E5", "G5"} {
		e.play(Tone{
			Freq:     Frequency(name),
			Duration: parameter.UnlockDuration,
			Volume:   parameter.UnlockVolume,
			Kind:     KindMelody,
		}, time.Duration(j)*parameter.UnlockSpacing)
	}
	return true
}

// IsUnlocked reports whether phrase i plays its melody
func (e *Engine) IsUnlocked(i int) bool {
	_, ok := e.unlocked.Get(i)
	return ok
}

// Unlocked returns unlocked phrase indices in ascending order
func (e *Engine) Unlocked() []int {
	var out []int
	for i := 0; i < e.phrases; i++ {
		if e.IsUnlocked(i) {
			out = append(out, i)
		}
	}
	return out
}

// ResetUnlocked clears the unlocked set
func (e *Engine) ResetUnlocked() {
	e.unlocked.Clear()
	e.statUnlocked.Store(0)
}

// ToggleMute flips the mute flag and returns the new value
// The cursor keeps advancing while muted so loop callbacks still fire
func (e *Engine) ToggleMute() bool {
	e.muted = !e.muted
	return e.muted
}

// SetMuted sets the mute flag
func (e *Engine) SetMuted(m bool) {
	e.muted = m
}

// Beat is the beat handler: accompaniment, unlocked melody, cursor advance
func (e *Engine) Beat() {
	if !e.running {
		return
	}
	e.statBeats.Add(1)

	period := e.BeatPeriod()
	noteDur := scale(period, parameter.NoteDurationFactor)

	if e.beat == 0 {
		e.play(Tone{
			Freq:     Frequency(BassFor(e.phrase, e.phrases)),
			Duration: noteDur,
			Volume:   parameter.BassVolume,
			Kind:     KindBass,
		}, 0)

		if e.IsUnlocked(e.phrase) {
			for _, n := range PhraseMelody(e.phrase, e.phrases) {
				e.play(Tone{
					Freq:     Frequency(n.Name),
					Duration: scale(period, n.Duration),
					Volume:   parameter.MelodyVolume,
					Kind:     KindMelody,
				}, scale(period, n.Beat))
			}
		}
	} else {
		chord := ChordFor(AbsoluteBeat(e.phrase, e.beat, e.phrases))
		e.playChord(chord[:], scale(noteDur, parameter.ChordDurationFactor), parameter.ChordVolume, 0)
	}

	e.beat++
	if e.beat >= BeatsPerPhrase(e.phrases) {
		e.beat = 0
		e.phrase = (e.phrase + 1) % e.phrases
		if e.phrase == 0 && e.onLoopComplete != nil {
			cb := e.onLoopComplete
			cb()
		}
	}
}

// PlayPick plays the short pick/release note for a color
func (e *Engine) PlayPick(c core.Color) {
	e.play(Tone{
		Freq:     Frequency(PickNote(c)),
		Duration: parameter.PickDuration,
		Volume:   parameter.PickVolume,
		Kind:     KindMelody,
	}, 0)
}

// PlayPlace plays the placement note followed by a quieter fifth
func (e *Engine) PlayPlace(c core.Color) {
	f := Frequency(PickNote(c))
	e.play(Tone{Freq: f, Duration: parameter.PlaceDuration, Volume: parameter.PlaceVolume, Kind: KindMelody}, 0)
	e.play(Tone{
		Freq:     f * parameter.PlaceEchoRate,
		Duration: parameter.PlaceEchoDur,
		Volume:   parameter.PlaceEchoVol,
		Kind:     KindChord,
	}, parameter.PlaceEcho)
}

// PlayBoxMelody unlocks the completed box's phrase
func (e *Engine) PlayBoxMelody(_ core.Color, box int) bool {
	return e.Unlock(box)
}

// PlayWinFanfare plays the rising A minor arpeggio and closing chord
func (e *Engine) PlayWinFanfare() {
	for i, name := range [...]string{"A4", "C5", "E5", "A5", "C6", "E6"} {
		e.play(Tone{
			Freq:     Frequency(name),
			Duration: parameter.FanfareDuration,
			Volume:   parameter.FanfareVolume,
			Kind:     KindMelody,
		}, time.Duration(i)*parameter.FanfareSpacing)
	}
	e.playChord([]string{"A4", "C5", "E5", "A5"}, parameter.FanfareChordDur, parameter.FanfareChordVolume, parameter.FanfareChordAt)
}

// PlayLoseSound plays the descending pentad
func (e *Engine) PlayLoseSound() {
	for i, name := range [...]string{"E5", "D5", "C5", "B4", "A4"} {
		e.play(Tone{
			Freq:     Frequency(name),
			Duration: parameter.LoseDuration,
			Volume:   parameter.LoseVolume,
			Kind:     KindMelody,
		}, time.Duration(i)*parameter.LoseSpacing)
	}
}

// PlayClick plays the UI click
func (e *Engine) PlayClick() {
	e.play(Tone{Freq: Frequency("E5"), Duration: parameter.ClickDuration, Volume: parameter.ClickVolume, Kind: KindMelody}, 0)
}

// PlayPixelNote plays the fill note for a pixel position
func (e *Engine) PlayPixelNote(x, y, w, h int) {
	e.play(PixelTone(x, y, w, h), 0)
}

// playChord strums notes 8 ms apart, each a little quieter than the last
func (e *Engine) playChord(notes []string, dur time.Duration, vol float64, at time.Duration) {
	for i, name := range notes {
		e.play(Tone{
			Freq:     Frequency(name),
			Duration: dur,
			Volume:   vol * (1 - float64(i)*parameter.ChordStrumFalloff),
			Kind:     KindChord,
		}, at+time.Duration(i)*parameter.ChordStrum)
	}
}

func (e *Engine) play(t Tone, delay time.Duration) {
	if e.muted || e.synth == nil {
		return
	}
	e.statNotes.Add(1)
	e.synth.Play(t, delay)
}

func scale(d time.Duration, f float64) time.Duration {
	return time.Duration(float64(d) * f)
}
