package synthesis

import (
	"math"

	"github.com/RyanBlaney/sonido-eeg/algorithms/spectral"
)

// Band names one of the five canonical EEG rhythms.
type Band = spectral.Band

const (
	Delta = spectral.Delta
	Theta = spectral.Theta
	Alpha = spectral.Alpha
	Beta  = spectral.Beta
	Gamma = spectral.Gamma
)

// Tone is one sinusoid of a band generator.
type Tone struct {
	Freq  float64 // Hz
	Amp   float64
	Phase float64 // radians
}

// bandTones holds the fixed oscillators that make up each band sub-signal.
// Gamma includes a 50 Hz tone above the analysis band on purpose.
var bandTones = map[Band][]Tone{
	Delta: {{1, 1.0, 0}, {2.5, 0.5, math.Pi / 4}},
	Theta: {{5, 0.6, 0}, {7, 0.4, math.Pi / 5}},
	Alpha: {{10, 0.8, 0}, {11, 0.4, math.Pi / 4}},
	Beta:  {{18, 0.5, 0}, {22, 0.3, math.Pi / 3}, {26, 0.2, math.Pi / 6}},
	Gamma: {{40, 0.2, 0}, {50, 0.1, math.Pi / 2}},
}

// sine writes amp*sin(2*pi*freq*t + phase) for t = i/sampleRate into a new slice.
func sine(freq, amp, phase float64, n, sampleRate int) []float64 {
	out := make([]float64, n)
	w := 2 * math.Pi * freq / float64(sampleRate)
	for i := range out {
		out[i] = amp * math.Sin(w*float64(i)+phase)
	}
	return out
}

// bandWave sums the oscillators of band b over n samples.
func bandWave(b Band, n, sampleRate int) []float64 {
	out := make([]float64, n)
	for _, tone := range bandTones[b] {
		for i, v := range sine(tone.Freq, tone.Amp, tone.Phase, n, sampleRate) {
			out[i] += v
		}
	}
	return out
}
