// Package synthesis builds synthetic single-channel EEG from canonical band
// oscillators, uniform noise, and power-line interference.
package synthesis

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-eeg/signal"
)

// DefaultDuration is the length of a synthesized recording, in seconds.
const DefaultDuration = 10.0

// BandWeights scales each band sub-signal in the composite.
type BandWeights struct {
	Delta float64 `json:"delta" yaml:"delta"`
	Theta float64 `json:"theta" yaml:"theta"`
	Alpha float64 `json:"alpha" yaml:"alpha"`
	Beta  float64 `json:"beta" yaml:"beta"`
	Gamma float64 `json:"gamma" yaml:"gamma"`
}

// Of returns the weight of band b.
func (w BandWeights) Of(b Band) float64 {
	switch b {
	case Delta:
		return w.Delta
	case Theta:
		return w.Theta
	case Alpha:
		return w.Alpha
	case Beta:
		return w.Beta
	case Gamma:
		return w.Gamma
	}
	return 0
}

// Params fully describes one synthesized recording.
type Params struct {
	Weights        BandWeights `json:"weights" yaml:"weights"`
	NoiseLevel     float64     `json:"noise_level" yaml:"noise_level"`         // peak amplitude of uniform noise
	PowerlineFreq  float64     `json:"powerline_freq" yaml:"powerline_freq"`   // 50 or 60 Hz
	PowerlineLevel float64     `json:"powerline_level" yaml:"powerline_level"` // amplitude of the mains tone
	Duration       float64     `json:"duration" yaml:"duration"`               // seconds
	SampleRate     int         `json:"sample_rate" yaml:"sample_rate"`
}

// Validate rejects parameters that cannot produce a signal.
func (p Params) Validate() error {
	for _, b := range []Band{Delta, Theta, Alpha, Beta, Gamma} {
		if w := p.Weights.Of(b); w < 0 {
			return fmt.Errorf("%w: %s weight must be non-negative, got %v", signal.ErrInvalidParameter, b, w)
		}
	}
	if p.NoiseLevel < 0 {
		return fmt.Errorf("%w: noise level must be non-negative, got %v", signal.ErrInvalidParameter, p.NoiseLevel)
	}
	if p.PowerlineLevel < 0 {
		return fmt.Errorf("%w: power-line level must be non-negative, got %v", signal.ErrInvalidParameter, p.PowerlineLevel)
	}
	if p.PowerlineFreq != 50 && p.PowerlineFreq != 60 {
		return fmt.Errorf("%w: power-line frequency must be 50 or 60 Hz, got %v", signal.ErrInvalidParameter, p.PowerlineFreq)
	}
	if p.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", signal.ErrInvalidParameter, p.SampleRate)
	}
	if p.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %v", signal.ErrInvalidParameter, p.Duration)
	}
	if signal.SampleCount(p.Duration, p.SampleRate) == 0 {
		return fmt.Errorf("%w: duration %vs yields no samples at %d Hz", signal.ErrInvalidParameter, p.Duration, p.SampleRate)
	}
	return nil
}

// Synthesize builds the composite waveform
//
//	sum_b weight_b*band_b(t) + noise(t) + powerlineLevel*sin(2*pi*powerlineFreq*t)
//
// where noise is uniform in [-NoiseLevel, NoiseLevel] drawn from rng. rng may be
// nil only when NoiseLevel is zero.
func Synthesize(p Params, rng *rand.Rand) (signal.Signal, error) {
	if err := p.Validate(); err != nil {
		return signal.Signal{}, err
	}
	if rng == nil && p.NoiseLevel > 0 {
		return signal.Signal{}, fmt.Errorf("%w: a random source is required for non-zero noise", signal.ErrInvalidParameter)
	}

	n := signal.SampleCount(p.Duration, p.SampleRate)
	data := make([]float64, n)

	for _, b := range []Band{Delta, Theta, Alpha, Beta, Gamma} {
		w := p.Weights.Of(b)
		if w == 0 {
			continue
		}
		floats.AddScaled(data, w, bandWave(b, n, p.SampleRate))
	}

	if p.NoiseLevel > 0 {
		for i := range data {
			data[i] += (rng.Float64() - 0.5) * 2 * p.NoiseLevel
		}
	}

	if p.PowerlineLevel > 0 {
		floats.Add(data, sine(p.PowerlineFreq, p.PowerlineLevel, 0, n, p.SampleRate))
	}

	return signal.Signal{Samples: data, SampleRate: p.SampleRate}, nil
}
