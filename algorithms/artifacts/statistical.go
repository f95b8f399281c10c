package artifacts

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-eeg/algorithms/common"
	"github.com/RyanBlaney/sonido-eeg/signal"
)

// DefaultThreshold is the z-score above which a sample is treated as an artifact.
const DefaultThreshold = 3.0

// Statistical replaces outlier samples with the average of their neighbors.
// The mean and standard deviation are computed once over the whole input, and
// neighbors are always read from the original samples.
type Statistical struct {
	Threshold float64
}

// NewStatistical returns a statistical remover. A non-positive threshold selects DefaultThreshold.
func NewStatistical(threshold float64) *Statistical {
	if threshold <= 0 || math.IsNaN(threshold) {
		threshold = DefaultThreshold
	}
	return &Statistical{Threshold: threshold}
}

func (s *Statistical) Strategy() Strategy { return StrategyStatistical }

// Remove flags every sample with |x - mean| > Threshold*std and replaces it by
// the mean of its left and right neighbors; the first and last samples use the
// global mean for the missing neighbor. A constant signal has nothing flagged.
func (s *Statistical) Remove(sig signal.Signal) (Result, error) {
	if err := sig.Validate(); err != nil {
		return Result{}, err
	}
	if s.Threshold <= 0 {
		return Result{}, fmt.Errorf("%w: threshold must be positive, got %v", signal.ErrInvalidParameter, s.Threshold)
	}

	x := sig.Samples
	n := len(x)
	mean, std := common.PopMeanStdDev(x)

	clean := make([]float64, n)
	copy(clean, x)
	removed := make([]float64, n)
	var flagged []int

	limit := s.Threshold * std
	for i, v := range x {
		if std == 0 || math.Abs(v-mean) <= limit {
			continue
		}

		left, right := mean, mean
		if i > 0 {
			left = x[i-1]
		}
		if i < n-1 {
			right = x[i+1]
		}

		// clean is derived back from the delta so clean+removed
		// reproduces the original sample
		delta := v - (left+right)/2
		removed[i] = delta
		clean[i] = v - delta
		flagged = append(flagged, i)
	}

	return Result{
		Clean:              sig.WithSamples(clean),
		Removed:            removed,
		ArtifactComponents: []int{},
		FlaggedSamples:     flagged,
		Strategy:           StrategyStatistical,
	}, nil
}
