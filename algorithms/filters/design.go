package filters

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-eeg/signal"
)

// DefaultNotchQ is the quality factor of the power-line notch: at 50 Hz it
// removes a band about 1.7 Hz wide.
const DefaultNotchQ = 30.0

// ButterworthLowPass designs a second-order Butterworth low-pass section by the
// bilinear transform of the analog prototype, with K = tan(pi*fc/fs) pre-warping
// the cutoff.
func ButterworthLowPass(cutoff float64, sampleRate int) (Coefficients, error) {
	if err := checkFrequency("cutoff", cutoff, sampleRate); err != nil {
		return Coefficients{}, err
	}

	k := math.Tan(math.Pi * cutoff / float64(sampleRate))
	k2 := k * k
	norm := 1 / (1 + math.Sqrt2*k + k2)

	b0 := k2 * norm
	return Coefficients{
		B0: b0,
		B1: 2 * b0,
		B2: b0,
		A1: 2 * (k2 - 1) * norm,
		A2: (1 - math.Sqrt2*k + k2) * norm,
	}, nil
}

// NotchCoefficients designs a second-order IIR notch centered on center Hz
// whose -3 dB stop band is bandwidth Hz wide.
//
// The zeros sit on the unit circle at the center frequency and the pole radius
// follows from the bilinear-warped bandwidth: beta = tan(bw/2), gain = 1/(1+beta).
func NotchCoefficients(center, bandwidth float64, sampleRate int) (Coefficients, error) {
	if err := checkFrequency("notch center", center, sampleRate); err != nil {
		return Coefficients{}, err
	}
	if bandwidth <= 0 || math.IsNaN(bandwidth) {
		return Coefficients{}, fmt.Errorf("%w: notch bandwidth must be positive, got %v", signal.ErrInvalidParameter, bandwidth)
	}

	fs := float64(sampleRate)
	w0 := 2.0 * math.Pi * center / fs
	bw := 2.0 * math.Pi * bandwidth / fs
	gain := 1 / (1 + math.Tan(bw/2))
	cosW0 := math.Cos(w0)

	return Coefficients{
		B0: gain,
		B1: -2 * gain * cosW0,
		B2: gain,
		A1: -2 * gain * cosW0,
		A2: 2*gain - 1,
	}, nil
}

// BandwidthForQ converts a quality factor into the bandwidth NotchCoefficients expects.
func BandwidthForQ(center, q float64) float64 {
	return center / q
}

func checkFrequency(name string, freq float64, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", signal.ErrInvalidParameter, sampleRate)
	}
	nyquist := float64(sampleRate) / 2
	if !(freq > 0) || freq >= nyquist {
		return fmt.Errorf("%w: %s %v Hz must be in (0, %v) Hz", signal.ErrInvalidParameter, name, freq, nyquist)
	}
	return nil
}
