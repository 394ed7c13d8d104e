// Package music implements the phrase-indexed waltz loop and gameplay sound effects
package music

import (
	"math"

	"github.com/lixenwraith/beltwaltz/parameter"
)

// Note is one melody note, positions in beats
type Note struct {
	Name     string
	Beat     float64
	Duration float64
}

// Melody is the complete 24-beat waltz
var Melody = [...]Note{
	// Opening theme
	{"E5", 0, 1}, {"E5", 1, 0.5}, {"F5", 1.5, 0.5}, {"E5", 2, 1},
	{"D5", 3, 1}, {"C5", 4, 0.5}, {"D5", 4.5, 0.5}, {"E5", 5, 1},
	// Response
	{"D5", 6, 1}, {"D5", 7, 0.5}, {"E5", 7.5, 0.5}, {"D5", 8, 1},
	{"C5", 9, 1}, {"B4", 10, 0.5}, {"C5", 10.5, 0.5}, {"A4", 11, 1},
	// Climax
	{"E5", 12, 0.5}, {"G5", 12.5, 0.5}, {"A5", 13, 1}, {"G5", 14, 1},
	{"F5", 15, 0.5}, {"E5", 15.5, 0.5}, {"D5", 16, 1}, {"E5", 17, 1},
	// Resolution
	{"D5", 18, 0.5}, {"C5", 18.5, 0.5}, {"B4", 19, 1}, {"A4", 20, 1},
	{"C5", 21, 0.5}, {"B4", 21.5, 0.5}, {"A4", 22, 2},
}

// Bass holds one note per absolute beat
var Bass = [parameter.SongBeats]string{
	"A3", "A3", "A3", "D3", "D3", "D3",
	"G3", "G3", "G3", "C3", "C3", "C3",
	"F3", "F3", "F3", "E3", "E3", "E3",
	"E3", "E3", "E3", "A3", "A3", "A3",
}

// Chords holds one triad per 3-beat measure
var Chords = [parameter.SongBeats / parameter.BeatsPerChord][3]string{
	{"E4", "A4", "C5"},  // Am
	{"F4", "A4", "D5"},  // Dm
	{"G4", "B4", "D5"},  // G
	{"C4", "E4", "G4"},  // C
	{"F4", "A4", "C5"},  // F
	{"E4", "G#4", "B4"}, // E
	{"E4", "G#4", "B4"}, // E
	{"E4", "A4", "C5"},  // Am
}

var frequencies = map[string]float64{
	"C3": 130.81, "D3": 146.83, "E3": 164.81, "F3": 174.61, "G3": 196.00,
	"A3": 220.00, "B3": 246.94,
	"C4": 261.63, "D4": 293.66, "E4": 329.63, "F4": 349.23, "G4": 392.00,
	"G#4": 415.30, "A4": 440.00, "B4": 493.88,
	"C5": 523.25, "D5": 587.33, "E5": 659.25, "F5": 698.46, "G5": 783.99,
	"A5": 880.00, "B5": 987.77,
	"C6": 1046.50, "D6": 1174.66, "E6": 1318.51,
}

// Frequency returns the pitch of a note name, A4 for unknown names
func Frequency(name string) float64 {
	if f, ok := frequencies[name]; ok {
		return f
	}
	return 440
}

// clampPhrases keeps n within the playable range
func clampPhrases(n int) int {
	return max(1, min(n, parameter.MaxPhraseCount))
}

// PhraseBounds returns the absolute beat span [start, end) of phrase i out of n
func PhraseBounds(i, n int) (float64, float64) {
	n = clampPhrases(n)
	size := float64(parameter.SongBeats) / float64(n)
	return float64(i) * size, float64(i+1) * size
}

// BeatsPerPhrase returns the cursor length of a phrase; 24/n rounded up when n does not divide 24
func BeatsPerPhrase(n int) int {
	n = clampPhrases(n)
	return int(math.Ceil(float64(parameter.SongBeats) / float64(n)))
}

// PhraseMelody returns the notes of phrase i with beats relative to the phrase start
func PhraseMelody(i, n int) []Note {
	start, end := PhraseBounds(i, n)
	var out []Note
	for _, note := range Melody {
		if note.Beat >= start && note.Beat < end {
			note.Beat -= start
			out = append(out, note)
		}
	}
	return out
}

// AbsoluteBeat maps a cursor position to a song beat in [0, 24)
func AbsoluteBeat(phrase, beat, n int) int {
	start, _ := PhraseBounds(phrase, n)
	abs := int(math.Floor(start)) + beat
	return min(max(abs, 0), parameter.SongBeats-1)
}

// BassFor returns the bass note sounding on the downbeat of phrase i
func BassFor(i, n int) string {
	return Bass[AbsoluteBeat(i, 0, n)]
}

// ChordFor returns the triad of the measure containing absolute beat abs
func ChordFor(abs int) [3]string {
	idx := (abs / parameter.BeatsPerChord) % len(Chords)
	if idx < 0 {
		idx = 0
	}
	return Chords[idx]
}
