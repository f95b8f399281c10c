// Package signal defines the single-channel time series passed between pipeline stages.
package signal

import (
	"errors"
	"fmt"
	"math"
)

// DefaultSampleRate is the sampling rate of the synthetic EEG recordings, in Hz.
const DefaultSampleRate = 256

// ErrInvalidParameter is returned when an input is rejected at a stage boundary,
// before any computation runs.
var ErrInvalidParameter = errors.New("invalid parameter")

// Signal is an ordered sequence of real-valued samples taken at SampleRate Hz.
//
// A Signal is treated as immutable: every stage returns a new Signal with a
// freshly allocated Samples slice and never writes into its input.
type Signal struct {
	Samples    []float64 `json:"samples" yaml:"samples"`
	SampleRate int       `json:"sample_rate" yaml:"sample_rate"`
}

// New copies samples into a Signal after validating the sample rate and length.
func New(samples []float64, sampleRate int) (Signal, error) {
	if sampleRate <= 0 {
		return Signal{}, fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidParameter, sampleRate)
	}
	if len(samples) == 0 {
		return Signal{}, fmt.Errorf("%w: empty signal", ErrInvalidParameter)
	}
	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Signal{}, fmt.Errorf("%w: non-finite sample at index %d", ErrInvalidParameter, i)
		}
	}

	out := make([]float64, len(samples))
	copy(out, samples)
	return Signal{Samples: out, SampleRate: sampleRate}, nil
}

// Zeros returns an all-zero signal of n samples.
func Zeros(n, sampleRate int) Signal {
	return Signal{Samples: make([]float64, n), SampleRate: sampleRate}
}

// SampleCount returns the number of samples covering duration seconds at sampleRate.
func SampleCount(duration float64, sampleRate int) int {
	return int(math.Round(duration * float64(sampleRate)))
}

// Len returns the number of samples.
func (s Signal) Len() int {
	return len(s.Samples)
}

// Duration returns the signal length in seconds.
func (s Signal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// Nyquist returns half the sample rate.
func (s Signal) Nyquist() float64 {
	return float64(s.SampleRate) / 2
}

// WithSamples returns a signal at the same rate wrapping samples. The slice is
// not copied; callers hand over ownership of a freshly allocated buffer.
func (s Signal) WithSamples(samples []float64) Signal {
	return Signal{Samples: samples, SampleRate: s.SampleRate}
}

// Validate checks the invariants every stage relies on.
func (s Signal) Validate() error {
	if s.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidParameter, s.SampleRate)
	}
	if len(s.Samples) == 0 {
		return fmt.Errorf("%w: empty signal", ErrInvalidParameter)
	}
	return nil
}
