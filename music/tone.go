package music

import (
	"time"

	"github.com/lixenwraith/beltwaltz/core"
	"github.com/lixenwraith/beltwaltz/parameter"
)

// Kind selects the synthesis preset of a tone
type Kind int

const (
	KindMelody Kind = iota
	KindBass
	KindChord
)

func (k Kind) String() string {
	switch k {
	case KindMelody:
		return "melody"
	case KindBass:
		return "bass"
	case KindChord:
		return "chord"
	default:
		return "unknown"
	}
}

// DecayFactor scales the note duration into the envelope decay time
func (k Kind) DecayFactor() float64 {
	switch k {
	case KindBass:
		return parameter.BassDecayFactor
	case KindChord:
		return parameter.ChordDecayFactor
	default:
		return parameter.MelodyDecayFactor
	}
}

// Gain scales the requested volume
func (k Kind) Gain() float64 {
	switch k {
	case KindBass:
		return parameter.BassGain
	case KindChord:
		return parameter.ChordGain
	default:
		return 1
	}
}

// Tone is a single synthesized note request
type Tone struct {
	Freq     float64
	Duration time.Duration
	Volume   float64
	Kind     Kind
}

// Synth renders tones; delay is measured on the audio clock and Play must not block
type Synth interface {
	Play(t Tone, delay time.Duration)
}

// pickNotes maps sort colors to the SFX scale A4..A5
var pickNotes = [...]string{"A4", "B4", "C5", "D5", "E5", "F5", "G5", "A5"}

// PickNote returns the SFX note for a color, E5 for colors outside the sort set
func PickNote(c core.Color) string {
	if i := c.SortIndex(); i >= 0 && i < len(pickNotes) {
		return pickNotes[i]
	}
	return "E5"
}

// pixelScale is the 12-note diatonic scale used for pixel fills
var pixelScale = [...]string{"C4", "D4", "E4", "F4", "G4", "A4", "B4", "C5", "D5", "E5", "F5", "G5"}

// PixelTone maps a grid position to pitch by column and volume by row
func PixelTone(x, y, w, h int) Tone {
	idx := 0
	if w > 0 {
		idx = x * len(pixelScale) / w
	}
	idx = min(max(idx, 0), len(pixelScale)-1)

	vol := parameter.PixelNoteBaseVolume
	if h > 0 {
		vol += (1 - float64(y)/float64(h)) * parameter.PixelNoteTopBoost
	}
	return Tone{
		Freq:     Frequency(pixelScale[idx]),
		Duration: parameter.PixelNoteDuration,
		Volume:   vol,
		Kind:     KindMelody,
	}
}
