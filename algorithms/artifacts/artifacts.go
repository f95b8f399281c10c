// Package artifacts separates transient artifacts (blinks, electrode pops,
// movement spikes) from a single EEG channel.
package artifacts

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-eeg/signal"
)

// ErrSingularDecomposition reports that the pseudo-channel covariance is
// numerically rank deficient, so ICA cannot whiten it. The ICA remover then
// returns a statistical-strategy result alongside this error.
var ErrSingularDecomposition = errors.New("singular decomposition")

// ErrAllComponentsRejected reports that every ICA component met the artifact
// criteria, so no component is left to carry the brain signal. The ICA
// remover then returns a statistical-strategy result alongside this error.
var ErrAllComponentsRejected = errors.New("all components rejected as artifacts")

// IsFallback reports whether err marks a result produced by the statistical
// strategy in place of ICA.
func IsFallback(err error) bool {
	return errors.Is(err, ErrSingularDecomposition) || errors.Is(err, ErrAllComponentsRejected)
}

// Strategy names an artifact removal method.
type Strategy string

const (
	StrategyStatistical Strategy = "statistical"
	StrategyICA         Strategy = "ica"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyStatistical, StrategyICA:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("%w: unknown artifact strategy %q", signal.ErrInvalidParameter, s)
	}
}

// Result is the outcome of artifact removal.
//
// For the statistical strategy Clean[i] + Removed[i] == original[i] for every
// sample. For ICA the two add back to the original only approximately, since
// both are projections through pseudo-inverted matrices.
type Result struct {
	Clean signal.Signal `json:"clean"`

	// Removed holds the per-sample artifact contribution taken out of the signal.
	Removed []float64 `json:"removed"`

	// Components maps component index to its recovered waveform (ICA only).
	Components map[int][]float64 `json:"components,omitempty"`

	// ArtifactComponents lists the component indices judged to be artifacts, ascending.
	ArtifactComponents []int `json:"artifact_components"`

	// FlaggedSamples lists the sample indices replaced by interpolation (statistical only).
	FlaggedSamples []int `json:"flagged_samples,omitempty"`

	// Strategy is the method that actually produced the result, which differs
	// from the requested one after a fallback.
	Strategy Strategy `json:"strategy"`
}

// Remover is implemented by every artifact removal strategy.
//
// A non-nil error with a populated Result signals a fallback (see IsFallback);
// a zero Result means the input was rejected.
type Remover interface {
	Remove(sig signal.Signal) (Result, error)
	Strategy() Strategy
}
