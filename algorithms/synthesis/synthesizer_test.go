package synthesis

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/RyanBlaney/sonido-eeg/emotion"
	"github.com/RyanBlaney/sonido-eeg/signal"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestSynthesize_Length(t *testing.T) {
	cases := []struct {
		duration float64
		rate     int
	}{
		{10, 256},
		{2.5, 256},
		{1, 1000},
		{0.75, 128},
		{3.3, 250},
	}
	for _, tc := range cases {
		p := DefaultCustomParams()
		p.Duration = tc.duration
		p.SampleRate = tc.rate

		sig, err := Synthesize(p, seeded(1))
		if err != nil {
			t.Fatalf("duration=%v rate=%d: %v", tc.duration, tc.rate, err)
		}
		want := int(math.Round(tc.duration * float64(tc.rate)))
		if sig.Len() != want {
			t.Fatalf("duration=%v rate=%d: len=%d, want %d", tc.duration, tc.rate, sig.Len(), want)
		}
		if sig.SampleRate != tc.rate {
			t.Fatalf("sample rate=%d, want %d", sig.SampleRate, tc.rate)
		}
	}
}

func TestSynthesize_SeededIsDeterministic(t *testing.T) {
	p := DefaultCustomParams()
	a, err := Synthesize(p, seeded(42))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Synthesize(p, seeded(42))
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Samples {
		if a.Samples[i] != b.Samples[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, a.Samples[i], b.Samples[i])
		}
	}
}

func TestSynthesize_NoiselessMatchesOscillators(t *testing.T) {
	p := Params{
		Weights:       BandWeights{Alpha: 1},
		PowerlineFreq: 60,
		Duration:      1,
		SampleRate:    256,
	}
	sig, err := Synthesize(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, i := range []int{0, 13, 100, 255} {
		tt := float64(i) / 256
		want := 0.8*math.Sin(2*math.Pi*10*tt) + 0.4*math.Sin(2*math.Pi*11*tt+math.Pi/4)
		if math.Abs(sig.Samples[i]-want) > 1e-12 {
			t.Fatalf("sample %d=%v, want %v", i, sig.Samples[i], want)
		}
	}
}

func TestSynthesize_NoiseBounded(t *testing.T) {
	p := Params{NoiseLevel: 0.3, PowerlineFreq: 50, Duration: 4, SampleRate: 256}
	sig, err := Synthesize(p, seeded(7))
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range sig.Samples {
		if math.Abs(v) > 0.3 {
			t.Fatalf("noise sample %d=%v exceeds level", i, v)
		}
	}
}

func TestSynthesize_RejectsInvalid(t *testing.T) {
	base := DefaultCustomParams()
	mutate := []func(*Params){
		func(p *Params) { p.Duration = -1 },
		func(p *Params) { p.Duration = 0 },
		func(p *Params) { p.SampleRate = 0 },
		func(p *Params) { p.Weights.Theta = -0.1 },
		func(p *Params) { p.NoiseLevel = -1 },
		func(p *Params) { p.PowerlineLevel = -1 },
		func(p *Params) { p.PowerlineFreq = 55 },
		func(p *Params) { p.Duration = 0.001; p.SampleRate = 100 },
	}
	for i, m := range mutate {
		p := base
		m(&p)
		if _, err := Synthesize(p, seeded(1)); !errors.Is(err, signal.ErrInvalidParameter) {
			t.Fatalf("case %d: err=%v, want ErrInvalidParameter", i, err)
		}
	}

	if _, err := Synthesize(base, nil); !errors.Is(err, signal.ErrInvalidParameter) {
		t.Fatalf("nil rng with noise accepted")
	}
}

func TestLabelCustom(t *testing.T) {
	cases := []struct {
		w    BandWeights
		want emotion.Label
	}{
		{BandWeights{Alpha: 0.9, Gamma: 0.3}, emotion.Happy},
		{BandWeights{Alpha: 0.9, Gamma: 0.2}, emotion.Neutral},
		{BandWeights{Alpha: 0.8, Gamma: 0.5}, emotion.Neutral},
		{BandWeights{Theta: 0.81}, emotion.Sad},
		{BandWeights{Delta: 0.61}, emotion.Sad},
		{BandWeights{Delta: 0.6, Theta: 0.8}, emotion.Neutral},
		{BandWeights{Alpha: 0.9, Gamma: 0.3, Theta: 0.9}, emotion.Happy},
		{DefaultCustomParams().Weights, emotion.Neutral},
	}
	for _, tc := range cases {
		if got := LabelCustom(tc.w); got != tc.want {
			t.Fatalf("LabelCustom(%+v)=%s, want %s", tc.w, got, tc.want)
		}
	}
}

func TestGenerate_Presets(t *testing.T) {
	for _, preset := range []Preset{PresetHappy, PresetNeutral, PresetSad} {
		ls, err := Generate(preset, Params{}, seeded(3))
		if err != nil {
			t.Fatalf("%s: %v", preset, err)
		}
		if ls.Emotion != emotion.Label(preset) {
			t.Fatalf("%s: emotion=%s", preset, ls.Emotion)
		}
		if ls.Len() != 2560 || ls.SampleRate != 256 {
			t.Fatalf("%s: len=%d rate=%d", preset, ls.Len(), ls.SampleRate)
		}
		if ls.Label == "" {
			t.Fatalf("%s: missing display label", preset)
		}
	}
}

func TestGenerate_CustomUsesHeuristic(t *testing.T) {
	p := DefaultCustomParams()
	p.Weights = BandWeights{Theta: 1.0, Delta: 0.2}
	p.Duration = 2

	ls, err := Generate(PresetCustom, p, seeded(5))
	if err != nil {
		t.Fatal(err)
	}
	if ls.Emotion != emotion.Sad {
		t.Fatalf("emotion=%s, want sad", ls.Emotion)
	}
	if ls.Len() != 512 {
		t.Fatalf("len=%d, want 512", ls.Len())
	}
}

func TestGenerate_PresetDurationOverride(t *testing.T) {
	ls, err := Generate(PresetSad, Params{Duration: 4, SampleRate: 128}, seeded(9))
	if err != nil {
		t.Fatal(err)
	}
	if ls.Len() != 512 || ls.SampleRate != 128 {
		t.Fatalf("len=%d rate=%d, want 512 @ 128", ls.Len(), ls.SampleRate)
	}
}

func TestParsePreset(t *testing.T) {
	if _, err := ParsePreset("angry"); !errors.Is(err, signal.ErrInvalidParameter) {
		t.Fatalf("unknown preset accepted")
	}
	if p, err := ParsePreset("sad"); err != nil || p != PresetSad {
		t.Fatalf("ParsePreset(sad)=%v, %v", p, err)
	}
}
