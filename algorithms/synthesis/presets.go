package synthesis

import (
	"fmt"
	"math/rand/v2"

	"github.com/RyanBlaney/sonido-eeg/emotion"
	"github.com/RyanBlaney/sonido-eeg/signal"
)

// Preset selects one of the canned recordings or a caller-weighted custom mix.
type Preset string

const (
	PresetHappy   Preset = "happy"
	PresetNeutral Preset = "neutral"
	PresetSad     Preset = "sad"
	PresetCustom  Preset = "custom"
)

// ParsePreset validates a preset name.
func ParsePreset(s string) (Preset, error) {
	switch Preset(s) {
	case PresetHappy, PresetNeutral, PresetSad, PresetCustom:
		return Preset(s), nil
	default:
		return "", fmt.Errorf("%w: unknown preset %q", signal.ErrInvalidParameter, s)
	}
}

// LabeledSignal is a synthesized recording together with the emotion it was built to express.
type LabeledSignal struct {
	signal.Signal `yaml:",inline"`
	Preset        Preset        `json:"preset" yaml:"preset"`
	Emotion       emotion.Label `json:"emotion" yaml:"emotion"`
	Label         string        `json:"label" yaml:"label"`
}

// DefaultCustomParams returns the starting point of the custom mixer.
func DefaultCustomParams() Params {
	return Params{
		Weights:        BandWeights{Alpha: 0.5, Beta: 0.5, Theta: 0.3, Delta: 0.2, Gamma: 0.3},
		NoiseLevel:     0.2,
		PowerlineFreq:  50,
		PowerlineLevel: 0.25,
		Duration:       DefaultDuration,
		SampleRate:     signal.DefaultSampleRate,
	}
}

// PresetParams returns the fixed parameters of a canned preset:
//
//	happy:   alpha 1.2, beta 0.6, gamma 0.3, noise 0.20, 50 Hz mains 0.25
//	neutral: alpha 0.8, beta 0.5, theta 0.3, noise 0.15, 50 Hz mains 0.20
//	sad:     alpha 0.4, theta 1.2, delta 0.8, noise 0.20, 50 Hz mains 0.30
//
// PresetCustom yields DefaultCustomParams.
func PresetParams(p Preset) (Params, error) {
	params := Params{
		PowerlineFreq: 50,
		Duration:      DefaultDuration,
		SampleRate:    signal.DefaultSampleRate,
	}

	switch p {
	case PresetHappy:
		params.Weights = BandWeights{Alpha: 1.2, Beta: 0.6, Gamma: 0.3}
		params.NoiseLevel = 0.2
		params.PowerlineLevel = 0.25
	case PresetNeutral:
		params.Weights = BandWeights{Alpha: 0.8, Beta: 0.5, Theta: 0.3}
		params.NoiseLevel = 0.15
		params.PowerlineLevel = 0.2
	case PresetSad:
		params.Weights = BandWeights{Alpha: 0.4, Theta: 1.2, Delta: 0.8}
		params.NoiseLevel = 0.2
		params.PowerlineLevel = 0.3
	case PresetCustom:
		return DefaultCustomParams(), nil
	default:
		return Params{}, fmt.Errorf("%w: unknown preset %q", signal.ErrInvalidParameter, p)
	}
	return params, nil
}

// LabelCustom assigns the emotion a custom weight mix stands for:
// alpha > 0.8 with gamma > 0.2 is happy, theta > 0.8 or delta > 0.6 is sad,
// anything else is neutral. It is a labeling rule for generated test data only.
func LabelCustom(w BandWeights) emotion.Label {
	switch {
	case w.Alpha > 0.8 && w.Gamma > 0.2:
		return emotion.Happy
	case w.Theta > 0.8 || w.Delta > 0.6:
		return emotion.Sad
	default:
		return emotion.Neutral
	}
}

var presetLabels = map[Preset]string{
	PresetHappy:   "Happy Brain Signal",
	PresetNeutral: "Neutral Brain Signal",
	PresetSad:     "Sad Brain Signal",
	PresetCustom:  "Custom Signal",
}

// Generate synthesizes a preset recording. For PresetCustom the caller's params
// are used and the emotion comes from LabelCustom; canned presets ignore custom
// except for its Duration and SampleRate when those are set.
func Generate(preset Preset, custom Params, rng *rand.Rand) (LabeledSignal, error) {
	params, err := PresetParams(preset)
	if err != nil {
		return LabeledSignal{}, err
	}

	var label emotion.Label
	switch preset {
	case PresetCustom:
		params = custom
		label = LabelCustom(custom.Weights)
	default:
		if custom.Duration > 0 {
			params.Duration = custom.Duration
		}
		if custom.SampleRate > 0 {
			params.SampleRate = custom.SampleRate
		}
		label = emotion.Label(preset)
	}

	sig, err := Synthesize(params, rng)
	if err != nil {
		return LabeledSignal{}, fmt.Errorf("failed to synthesize %s preset: %w", preset, err)
	}

	return LabeledSignal{
		Signal:  sig,
		Preset:  preset,
		Emotion: label,
		Label:   presetLabels[preset],
	}, nil
}
