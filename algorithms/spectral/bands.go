package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-eeg/signal"
)

// Band names one of the five canonical EEG rhythms.
type Band string

const (
	Delta Band = "delta"
	Theta Band = "theta"
	Alpha Band = "alpha"
	Beta  Band = "beta"
	Gamma Band = "gamma"
)

// BandRange is the frequency extent of a band: [Low, High), or [Low, High]
// when UpperInclusive is set.
type BandRange struct {
	Band           Band
	Low            float64
	High           float64
	UpperInclusive bool
}

// Contains reports whether freq falls inside the band.
func (r BandRange) Contains(freq float64) bool {
	if freq < r.Low {
		return false
	}
	if r.UpperInclusive {
		return freq <= r.High
	}
	return freq < r.High
}

var canonicalBands = []BandRange{
	{Band: Delta, Low: 0.5, High: 4},
	{Band: Theta, Low: 4, High: 8},
	{Band: Alpha, Low: 8, High: 13},
	{Band: Beta, Low: 13, High: 30},
	{Band: Gamma, Low: 30, High: 45, UpperInclusive: true},
}

// Bands returns the five canonical bands in ascending frequency order.
func Bands() []BandRange {
	out := make([]BandRange, len(canonicalBands))
	copy(out, canonicalBands)
	return out
}

// BandPowers holds the mean squared spectral magnitude inside each band.
type BandPowers struct {
	Delta float64 `json:"delta"`
	Theta float64 `json:"theta"`
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// Of returns the power of band b.
func (p BandPowers) Of(b Band) float64 {
	switch b {
	case Delta:
		return p.Delta
	case Theta:
		return p.Theta
	case Alpha:
		return p.Alpha
	case Beta:
		return p.Beta
	case Gamma:
		return p.Gamma
	}
	return 0
}

// Slice returns the powers as [delta, theta, alpha, beta, gamma].
func (p BandPowers) Slice() []float64 {
	return []float64{p.Delta, p.Theta, p.Alpha, p.Beta, p.Gamma}
}

// Total is the sum of the five band powers.
func (p BandPowers) Total() float64 {
	return floats.Sum(p.Slice())
}

// Relative returns the powers scaled to sum to 1, and false when the total is
// zero (every relative power is then reported as 0).
func (p BandPowers) Relative() (BandPowers, bool) {
	total := p.Total()
	if total <= 0 {
		return BandPowers{}, false
	}
	return fromSlice(floats.ScaleTo(make([]float64, 5), 1/total, p.Slice())), true
}

func fromSlice(v []float64) BandPowers {
	return BandPowers{Delta: v[0], Theta: v[1], Alpha: v[2], Beta: v[3], Gamma: v[4]}
}

// PowersFromSpectrum averages squared magnitudes of the bins inside each band.
// A band without bins reports 0.
func PowersFromSpectrum(spec Spectrum) BandPowers {
	powers := make([]float64, len(canonicalBands))
	for i, band := range canonicalBands {
		sum, count := 0.0, 0
		for k, f := range spec.Frequencies {
			if band.Contains(f) {
				sum += spec.Magnitudes[k] * spec.Magnitudes[k]
				count++
			}
		}
		if count > 0 {
			powers[i] = sum / float64(count)
		}
	}
	return fromSlice(powers)
}

// ComputeBandPowers returns the band powers of samples taken at sampleRate Hz
// using the FFT path.
func ComputeBandPowers(samples []float64, sampleRate int) (BandPowers, error) {
	if sampleRate <= 0 {
		return BandPowers{}, fmt.Errorf("%w: sample rate must be positive, got %d", signal.ErrInvalidParameter, sampleRate)
	}
	spec, err := FFT(signal.Signal{Samples: samples, SampleRate: sampleRate})
	if err != nil {
		return BandPowers{}, err
	}
	return PowersFromSpectrum(spec), nil
}

// PowersOf is ComputeBandPowers for a Signal.
func PowersOf(sig signal.Signal) (BandPowers, error) {
	return ComputeBandPowers(sig.Samples, sig.SampleRate)
}
