package parameter

import "time"

// Song layout
const (
	SongBeats     = 24
	BeatsPerChord = 3
)

// Beat handler volumes and durations
const (
	NoteDurationFactor  = 0.8 // of one beat
	ChordDurationFactor = 0.6 // of the note duration
	BassVolume          = 0.12
	MelodyVolume        = 0.18
	ChordVolume         = 0.05
	ChordStrum          = 8 * time.Millisecond
	ChordStrumFalloff   = 0.1
)

// Sound effects
const (
	PickDuration  = 100 * time.Millisecond
	PickVolume    = 0.08
	PlaceDuration = 200 * time.Millisecond
	PlaceVolume   = 0.1
	PlaceEcho     = 20 * time.Millisecond
	PlaceEchoDur  = 150 * time.Millisecond
	PlaceEchoVol  = 0.06
	PlaceEchoRate = 1.5 // a fifth above

	UnlockDuration = 150 * time.Millisecond
	UnlockVolume   = 0.12
	UnlockSpacing  = 60 * time.Millisecond

	FanfareDuration     = 800 * time.Millisecond
	FanfareVolume       = 0.15
	FanfareSpacing      = 100 * time.Millisecond
	FanfareChordAt      = 700 * time.Millisecond
	FanfareChordDur     = 1500 * time.Millisecond
	FanfareChordVolume  = 0.1
	LoseDuration        = 500 * time.Millisecond
	LoseVolume          = 0.1
	LoseSpacing         = 200 * time.Millisecond
	ClickDuration       = 80 * time.Millisecond
	ClickVolume         = 0.05
	PixelNoteDuration   = 200 * time.Millisecond
	PixelNoteBaseVolume = 0.1
	PixelNoteTopBoost   = 0.08
)
