package parameter

import "time"

// Audio hardware settings
const (
	AudioSampleRate     = 44100
	AudioBufferDuration = 50 * time.Millisecond
)

// Piano voice
const (
	PianoAttack       = 5 * time.Millisecond
	PianoKnee         = 0.3 // envelope knee, fraction of decay time and of peak
	PianoFloor        = 0.001
	PianoTail         = 100 * time.Millisecond // oscillator runs past the decay
	MelodyDecayFactor = 1.5
	BassDecayFactor   = 2.0
	ChordDecayFactor  = 0.8
	BassGain          = 1.2
	ChordGain         = 0.1

	LowpassRatio = 8.0
	LowpassMaxHz = 8000.0
	LowpassQ     = 0.5

	HammerLength    = 20 * time.Millisecond
	HammerAmplitude = 0.3
	HammerRatio     = 2.0 // band-pass center relative to the fundamental
	HammerQ         = 2.0
	HammerGain      = 0.15
	HammerDecay     = 30 * time.Millisecond
)

// PianoHarmonics holds amplitude and relative decay per partial, fundamental first
var PianoHarmonics = [...]struct{ Amp, Decay float64 }{
	{1.0, 1.0},
	{0.5, 0.8},
	{0.25, 0.6},
	{0.15, 0.5},
	{0.08, 0.4},
	{0.04, 0.3},
}
