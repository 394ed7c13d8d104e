package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/beltwaltz/music"
	"github.com/lixenwraith/beltwaltz/parameter"
)

// partial is one sine harmonic with its own decay curve
type partial struct {
	phase float64
	inc   float64 // cycles per sample
	peak  float64
	knee  int // sample where the level reaches PianoKnee*peak
	end   int // sample where the level reaches floor
	floor float64
}

// level returns the envelope gain at sample i
func (p *partial) level(i, attack int) float64 {
	switch {
	case i < attack:
		return p.peak * float64(i) / float64(attack)
	case i < p.knee:
		frac := float64(i-attack) / float64(p.knee-attack)
		return p.peak * math.Pow(parameter.PianoKnee, frac)
	case i < p.end:
		kneeLevel := p.peak * parameter.PianoKnee
		frac := float64(i-p.knee) / float64(p.end-p.knee)
		return kneeLevel * math.Pow(p.floor/kneeLevel, frac)
	default:
		return p.floor
	}
}

// pianoVoice renders one note: additive harmonics, lowpass, optional hammer noise
type pianoVoice struct {
	partials []partial
	attack   int
	total    int
	pos      int
	lp       *biquad
	hammer   []float64
}

// newPianoVoice builds a finite streamer for t at the given sample rate
func newPianoVoice(rate int, t music.Tone) *pianoVoice {
	sr := beep.SampleRate(rate)
	decay := time.Duration(float64(t.Duration) * t.Kind.DecayFactor())
	peak := t.Volume * t.Kind.Gain()

	v := &pianoVoice{
		attack: max(sr.N(parameter.PianoAttack), 1),
		total:  sr.N(decay + parameter.PianoTail),
		lp:     newLowpass(math.Min(t.Freq*parameter.LowpassRatio, parameter.LowpassMaxHz), parameter.LowpassQ, rate),
	}

	for k, h := range parameter.PianoHarmonics {
		inc := t.Freq * float64(k+1) / float64(rate)
		if inc >= 0.5 || h.Amp*peak <= 0 {
			continue
		}
		d := sr.N(time.Duration(float64(decay) * h.Decay))
		knee := max(int(float64(d)*parameter.PianoKnee), v.attack+1)
		end := max(d, knee+1)
		amp := h.Amp * peak
		v.partials = append(v.partials, partial{
			inc:   inc,
			peak:  amp,
			knee:  knee,
			end:   end,
			floor: math.Min(parameter.PianoFloor, amp*parameter.PianoKnee),
		})
	}

	if t.Kind == music.KindMelody {
		v.hammer = renderHammer(rate, t.Freq, t.Volume)
	}
	return v
}

// renderHammer returns band-passed white noise with a fast exponential decay
func renderHammer(rate int, freq, volume float64) []float64 {
	sr := beep.SampleRate(rate)
	n := sr.N(parameter.HammerLength)
	decay := float64(sr.N(parameter.HammerDecay))
	bp := newBandpass(freq*parameter.HammerRatio, parameter.HammerQ, rate)
	gain := parameter.HammerGain * volume

	buf := make([]float64, n)
	for i := range buf {
		noise := (rand.Float64()*2 - 1) * parameter.HammerAmplitude
		env := gain * math.Pow(parameter.PianoFloor/parameter.HammerGain, float64(i)/decay)
		buf[i] = bp.process(noise) * env
	}
	return buf
}

func (v *pianoVoice) Stream(samples [][2]float64) (n int, ok bool) {
	if v.pos >= v.total {
		return 0, false
	}
	for i := range samples {
		if v.pos >= v.total {
			return i, true
		}

		s := 0.0
		for j := range v.partials {
			p := &v.partials[j]
			s += math.Sin(2*math.Pi*p.phase) * p.level(v.pos, v.attack)
			p.phase += p.inc
			if p.phase >= 1 {
				p.phase -= 1
			}
		}
		s = v.lp.process(s)
		if v.pos < len(v.hammer) {
			s += v.hammer[v.pos]
		}

		samples[i][0] = s
		samples[i][1] = s
		v.pos++
	}
	return len(samples), true
}

func (v *pianoVoice) Err() error { return nil }

// Len returns the voice length in samples
func (v *pianoVoice) Len() int { return v.total }
