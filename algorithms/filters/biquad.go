// Package filters implements the second-order IIR filter bank applied to EEG
// recordings: Butterworth low-pass and its complements, and a notch for
// power-line interference. Every filter runs zero-phase (forward-backward).
package filters

import (
	"math"
	"math/cmplx"
)

// Order is the order of every designed section. Zero-phase application squares
// the magnitude response, so the effective order is twice this.
const Order = 2

// Coefficients of a biquad normalized so that a0 == 1.
//
// The difference equation is:
// y[n] = B0*x[n] + B1*x[n-1] + B2*x[n-2] - A1*y[n-1] - A2*y[n-2]
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Stable reports whether both poles lie strictly inside the unit circle
// (the stability triangle |A2| < 1, |A1| < 1 + A2).
func (c Coefficients) Stable() bool {
	for _, v := range []float64{c.B0, c.B1, c.B2, c.A1, c.A2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return math.Abs(c.A2) < 1 && math.Abs(c.A1) < 1+c.A2
}

// filter runs the section once over x in transposed direct form II and returns
// a new slice. State starts at zero.
func (c Coefficients) filter(x []float64) []float64 {
	out := make([]float64, len(x))
	var z1, z2 float64
	for i, in := range x {
		y := c.B0*in + z1
		z1 = c.B1*in - c.A1*y + z2
		z2 = c.B2*in - c.A2*y
		out[i] = y
	}
	return out
}

// Response computes the magnitude and phase of a single forward pass at frequency Hz.
//
// H(z) = (B0 + B1*z^-1 + B2*z^-2) / (1 + A1*z^-1 + A2*z^-2), z = e^jw
func (c Coefficients) Response(frequency float64, sampleRate int) (magnitude, phase float64) {
	zInv := cmplx.Rect(1, -2*math.Pi*frequency/float64(sampleRate))
	h := c.transfer(zInv)
	return cmplx.Abs(h), cmplx.Phase(h)
}

// transfer evaluates H at z^-1 = zInv in Horner form.
func (c Coefficients) transfer(zInv complex128) complex128 {
	num := complex(c.B0, 0) + zInv*(complex(c.B1, 0)+zInv*complex(c.B2, 0))
	den := 1 + zInv*(complex(c.A1, 0)+zInv*complex(c.A2, 0))
	return num / den
}

// ZeroPhaseGain is the magnitude of the forward-backward cascade at frequency Hz,
// the square of the single-pass magnitude. Its phase is zero.
func (c Coefficients) ZeroPhaseGain(frequency float64, sampleRate int) float64 {
	mag, _ := c.Response(frequency, sampleRate)
	return mag * mag
}
