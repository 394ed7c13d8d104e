package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/beltwaltz/music"
	"github.com/lixenwraith/beltwaltz/parameter"
)

const testRate = 44100

// render drains a streamer into a mono buffer
func render(s beep.Streamer) []float64 {
	var out []float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			out = append(out, buf[i][0])
		}
		if !ok {
			return out
		}
	}
}

func peakIndex(buf []float64) (int, float64) {
	idx, peak := 0, 0.0
	for i, v := range buf {
		if math.Abs(v) > peak {
			idx, peak = i, math.Abs(v)
		}
	}
	return idx, peak
}

func rms(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range buf {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(buf)))
}

func TestPianoVoiceShape(t *testing.T) {
	sr := beep.SampleRate(testRate)
	tone := music.Tone{Freq: 440, Duration: 500 * time.Millisecond, Volume: 0.18, Kind: music.KindMelody}
	v := newPianoVoice(testRate, tone)
	out := render(v)

	require.Len(t, out, sr.N(750*time.Millisecond+parameter.PianoTail))
	for _, s := range out {
		require.False(t, math.IsNaN(s) || math.IsInf(s, 0))
	}

	idx, peak := peakIndex(out)
	assert.Greater(t, idx, sr.N(2*time.Millisecond), "attack ramps in")
	assert.Less(t, idx, sr.N(30*time.Millisecond), "peak right after the attack")
	assert.Less(t, peak, 1.0)

	head := rms(out[:sr.N(100*time.Millisecond)])
	tail := rms(out[len(out)-sr.N(100*time.Millisecond):])
	assert.Less(t, tail, head/20)
}

func TestPianoKindGain(t *testing.T) {
	base := music.Tone{Freq: 330, Duration: 300 * time.Millisecond, Volume: 0.1}

	melody := base
	melody.Kind = music.KindMelody
	chord := base
	chord.Kind = music.KindChord
	bass := base
	bass.Kind = music.KindBass

	_, pm := peakIndex(render(newPianoVoice(testRate, melody)))
	_, pc := peakIndex(render(newPianoVoice(testRate, chord)))
	outB := render(newPianoVoice(testRate, bass))
	_, pb := peakIndex(outB)

	assert.Less(t, pc, pm/5)
	assert.Greater(t, pb, pm)
	assert.Greater(t, len(outB), len(render(newPianoVoice(testRate, melody))), "bass decays longer")
}

func TestPianoSkipsPartialsAboveNyquist(t *testing.T) {
	v := newPianoVoice(8000, music.Tone{Freq: 1500, Duration: 100 * time.Millisecond, Volume: 0.1, Kind: music.KindChord})
	assert.Len(t, v.partials, 2)
}

func TestPartialEnvelope(t *testing.T) {
	p := partial{peak: 1, knee: 300, end: 1000, floor: 0.001}
	attack := 200

	assert.Equal(t, 0.0, p.level(0, attack))
	assert.InDelta(t, 0.5, p.level(100, attack), 1e-9)
	assert.InDelta(t, 1.0, p.level(200, attack), 1e-9)
	assert.InDelta(t, parameter.PianoKnee, p.level(300, attack), 1e-9)
	assert.InDelta(t, 0.001, p.level(1000, attack), 1e-9)
	assert.InDelta(t, 0.001, p.level(5000, attack), 1e-9)

	prev := p.level(attack, attack)
	for i := attack + 1; i < p.end; i++ {
		cur := p.level(i, attack)
		require.LessOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestBiquadResponse(t *testing.T) {
	lp := newLowpass(1000, parameter.LowpassQ, testRate)
	var y float64
	for i := 0; i < testRate/10; i++ {
		y = lp.process(1)
	}
	assert.InDelta(t, 1.0, y, 1e-3, "lowpass passes DC")

	bp := newBandpass(1000, 2, testRate)
	for i := 0; i < testRate/10; i++ {
		y = bp.process(1)
	}
	assert.InDelta(t, 0.0, y, 1e-3, "bandpass rejects DC")

	// Above Nyquist is clamped instead of going unstable
	hi := newLowpass(40000, parameter.LowpassQ, testRate)
	for i := 0; i < 1000; i++ {
		y = hi.process(math.Sin(float64(i)))
	}
	assert.False(t, math.IsNaN(y))
	assert.Less(t, math.Abs(y), 10.0)
}
