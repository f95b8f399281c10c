package spectral

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/RyanBlaney/sonido-eeg/signal"
)

// MaxDirectDFTSize caps the O(n^2) reference transform. Longer inputs must use FFT.
const MaxDirectDFTSize = 1 << 14

// Spectrum is the one-sided magnitude spectrum over the first floor(n/2) bins.
// Magnitudes are |X[k]| / n.
type Spectrum struct {
	Frequencies []float64 `json:"frequencies"`
	Magnitudes  []float64 `json:"magnitudes"`
	SampleRate  int       `json:"sample_rate"`
	Size        int       `json:"size"` // number of time-domain samples transformed
}

// FFT computes the spectrum with mjibson/go-dsp, which handles non power-of-two
// sizes. Binning and normalization match DFT.
func FFT(sig signal.Signal) (Spectrum, error) {
	if err := sig.Validate(); err != nil {
		return Spectrum{}, err
	}
	return Spectrum{
		Frequencies: binFrequencies(sig.Len(), sig.SampleRate),
		Magnitudes:  fftMagnitudes(sig.Samples),
		SampleRate:  sig.SampleRate,
		Size:        sig.Len(),
	}, nil
}

// DFT computes the spectrum by direct summation. It is the reference the FFT
// path is checked against and refuses inputs longer than MaxDirectDFTSize.
func DFT(sig signal.Signal) (Spectrum, error) {
	if err := sig.Validate(); err != nil {
		return Spectrum{}, err
	}
	if sig.Len() > MaxDirectDFTSize {
		return Spectrum{}, fmt.Errorf("%w: direct DFT limited to %d samples, got %d",
			signal.ErrInvalidParameter, MaxDirectDFTSize, sig.Len())
	}
	return Spectrum{
		Frequencies: binFrequencies(sig.Len(), sig.SampleRate),
		Magnitudes:  dftMagnitudes(sig.Samples),
		SampleRate:  sig.SampleRate,
		Size:        sig.Len(),
	}, nil
}

// binFrequencies returns k*sampleRate/n for k in [0, n/2)
func binFrequencies(n, sampleRate int) []float64 {
	freqs := make([]float64, n/2)
	for k := range freqs {
		freqs[k] = float64(k) * float64(sampleRate) / float64(n)
	}
	return freqs
}

func fftMagnitudes(x []float64) []float64 {
	n := len(x)
	mags := make([]float64, n/2)
	if n < 2 {
		return mags
	}

	coeffs := fft.FFTReal(x)
	for k := range mags {
		mags[k] = cmplx.Abs(coeffs[k]) / float64(n)
	}
	return mags
}

func dftMagnitudes(x []float64) []float64 {
	n := len(x)
	mags := make([]float64, n/2)

	// twiddle table indexed by (k*t) mod n keeps the phase argument small
	cosTable := make([]float64, n)
	sinTable := make([]float64, n)
	for i := range n {
		sinTable[i], cosTable[i] = math.Sincos(2 * math.Pi * float64(i) / float64(n))
	}

	for k := range mags {
		var re, im float64
		idx := 0
		for _, v := range x {
			re += v * cosTable[idx]
			im -= v * sinTable[idx]
			idx += k
			if idx >= n {
				idx -= n
			}
		}
		mags[k] = math.Hypot(re, im) / float64(n)
	}
	return mags
}
