package emotion

import (
	"fmt"

	"github.com/RyanBlaney/sonido-eeg/algorithms/common"
	"github.com/RyanBlaney/sonido-eeg/algorithms/spectral"
	"github.com/RyanBlaney/sonido-eeg/signal"
)

const (
	// DefaultWindowSize is one second of signal at the default sample rate.
	DefaultWindowSize = 256

	// DefaultSequenceLength is the number of windows in one observation.
	DefaultSequenceLength = 10

	// FeatureDims is the length of a feature vector, one entry per band.
	FeatureDims = 5
)

// FeatureVector holds the band powers of one window as
// [delta, theta, alpha, beta, gamma], min-max normalized across the sequence.
type FeatureVector [FeatureDims]float64

// ExtractFeatures slices sig into seqLen windows of windowSize samples and
// returns one normalized band-power vector per window.
//
// Windows start step = max(1, n/seqLen) samples apart, so they tile the signal
// when windowSize equals the step and overlap when it is larger. A window that
// runs past the end is zero-padded. Each of the five dimensions is normalized
// to [0, 1] independently across the windows; a flat dimension becomes 0.5.
func ExtractFeatures(sig signal.Signal, windowSize, seqLen int) ([]FeatureVector, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	if windowSize < 1 || seqLen < 1 {
		return nil, fmt.Errorf("%w: window size and sequence length must be positive, got %d and %d",
			signal.ErrInvalidParameter, windowSize, seqLen)
	}

	n := sig.Len()
	step := max(1, n/seqLen)

	// raw[d][i] is dimension d of window i
	raw := make([][]float64, FeatureDims)
	for d := range raw {
		raw[d] = make([]float64, seqLen)
	}

	window := make([]float64, windowSize)
	for i := range seqLen {
		clear(window)
		start := i * step
		if start < n {
			copy(window, sig.Samples[start:min(start+windowSize, n)])
		}

		powers, err := spectral.ComputeBandPowers(window, sig.SampleRate)
		if err != nil {
			return nil, fmt.Errorf("window %d: %w", i, err)
		}
		for d, v := range powers.Slice() {
			raw[d][i] = v
		}
	}

	features := make([]FeatureVector, seqLen)
	for d := range raw {
		for i, v := range common.MinMaxNormalize(raw[d]) {
			features[i][d] = v
		}
	}
	return features, nil
}
