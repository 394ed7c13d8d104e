package audio

import "math"

// biquad is a direct form I second-order section using the RBJ cookbook coefficients
type biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

// newLowpass creates a 12 dB/oct lowpass at freq
func newLowpass(freq, q float64, rate int) *biquad {
	w0, alpha := biquadAngle(freq, q, rate)
	cos := math.Cos(w0)
	a0 := 1 + alpha
	return &biquad{
		b0: (1 - cos) / 2 / a0,
		b1: (1 - cos) / a0,
		b2: (1 - cos) / 2 / a0,
		a1: -2 * cos / a0,
		a2: (1 - alpha) / a0,
	}
}

// newBandpass creates a constant 0 dB peak bandpass centered at freq
func newBandpass(freq, q float64, rate int) *biquad {
	w0, alpha := biquadAngle(freq, q, rate)
	a0 := 1 + alpha
	return &biquad{
		b0: alpha / a0,
		b1: 0,
		b2: -alpha / a0,
		a1: -2 * math.Cos(w0) / a0,
		a2: (1 - alpha) / a0,
	}
}

// biquadAngle clamps freq below Nyquist and returns w0 and alpha
func biquadAngle(freq, q float64, rate int) (float64, float64) {
	nyquist := float64(rate) / 2
	freq = math.Max(1, math.Min(freq, nyquist*0.95))
	if q <= 0 {
		q = math.Sqrt2 / 2
	}
	w0 := 2 * math.Pi * freq / float64(rate)
	return w0, math.Sin(w0) / (2 * q)
}

func (f *biquad) process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}
