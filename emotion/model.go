package emotion

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// ErrModelUnavailable reports that no trained sequence model is loaded.
// Predictor treats it as normal operation and uses the rule-based classifier.
var ErrModelUnavailable = errors.New("emotion model unavailable")

// probabilityTolerance bounds how far a model's output may stray from summing to 1.
const probabilityTolerance = 1e-6

// SequenceModel is a trained classifier over a normalized feature sequence.
// PredictProba returns [happy, neutral, sad] probabilities.
//
// Implementations must be safe for concurrent use once loaded.
type SequenceModel interface {
	PredictProba(features []FeatureVector) ([]float64, error)
}

// ModelFunc adapts a function to SequenceModel.
type ModelFunc func(features []FeatureVector) ([]float64, error)

func (f ModelFunc) PredictProba(features []FeatureVector) ([]float64, error) {
	return f(features)
}

// Loader produces a SequenceModel, typically by reading trained weights.
type Loader func() (SequenceModel, error)

// ModelHandle caches a SequenceModel that is loaded at most once and read-only
// afterwards. The zero value and a nil *ModelHandle hold no model.
type ModelHandle struct {
	loader Loader

	once  sync.Once
	model SequenceModel
	err   error
}

// NewModelHandle returns a handle that runs loader on first use.
func NewModelHandle(loader Loader) *ModelHandle {
	return &ModelHandle{loader: loader}
}

// StaticModel returns a handle that already holds m.
func StaticModel(m SequenceModel) *ModelHandle {
	return NewModelHandle(func() (SequenceModel, error) { return m, nil })
}

// Configured reports whether the handle has a loader to try. An unconfigured
// handle is the normal rules-only setup rather than a failure.
func (h *ModelHandle) Configured() bool {
	return h != nil && h.loader != nil
}

// Load returns the cached model, running the loader on the first call. Every
// failure, including a missing loader, wraps ErrModelUnavailable.
func (h *ModelHandle) Load() (SequenceModel, error) {
	if !h.Configured() {
		return nil, ErrModelUnavailable
	}
	h.once.Do(func() {
		m, err := h.loader()
		switch {
		case err != nil:
			h.err = fmt.Errorf("%w: %w", ErrModelUnavailable, err)
		case m == nil:
			h.err = ErrModelUnavailable
		default:
			h.model = m
		}
	})
	return h.model, h.err
}

// checkProbabilities validates a model output and returns it as Probabilities.
func checkProbabilities(p []float64) (Probabilities, error) {
	probs, err := FromSlice(p)
	if err != nil {
		return Probabilities{}, err
	}
	sum := 0.0
	for i, v := range p {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return Probabilities{}, fmt.Errorf("probability %d out of range: %v", i, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > probabilityTolerance {
		return Probabilities{}, fmt.Errorf("probabilities sum to %v", sum)
	}
	return probs, nil
}
