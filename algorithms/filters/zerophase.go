package filters

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-eeg/algorithms/common"
)

// ErrFilterUnstable reports that a designed section has poles on or outside the
// unit circle, or that its output diverged. The filter is skipped and the input
// passes through unchanged alongside this error.
var ErrFilterUnstable = errors.New("filter unstable")

// applyZeroPhase filters x forward, reverses, filters again and reverses back,
// cancelling the phase delay of the section. No edge padding is applied, so the
// first and last few time constants carry start-up transients.
func applyZeroPhase(c Coefficients, x []float64) ([]float64, error) {
	if !c.Stable() {
		return passThrough(x), ErrFilterUnstable
	}

	forward := c.filter(x)
	backward := c.filter(common.Reversed(forward))
	out := common.Reversed(backward)

	if !common.IsFinite(out) {
		return passThrough(x), ErrFilterUnstable
	}
	return out, nil
}

// lowComplement returns x minus its zero-phase low-passed version. This is the
// high-pass used throughout the bank: its magnitude is 1 - |H_lp|^2, which is
// not a Butterworth high-pass response.
func lowComplement(c Coefficients, x []float64) ([]float64, error) {
	low, err := applyZeroPhase(c, x)
	if err != nil {
		return low, err
	}
	out := make([]float64, len(x))
	floats.SubTo(out, x, low)
	return out, nil
}

func passThrough(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	return out
}
