package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/RyanBlaney/sonido-eeg/algorithms/artifacts"
	"github.com/RyanBlaney/sonido-eeg/algorithms/filters"
	"github.com/RyanBlaney/sonido-eeg/algorithms/synthesis"
	"github.com/RyanBlaney/sonido-eeg/emotion"
	"github.com/RyanBlaney/sonido-eeg/signal"
)

// FilterConfig holds the preprocessing toggles.
type FilterConfig struct {
	BandPass bool    `json:"band_pass" yaml:"band_pass"`
	BandLow  float64 `json:"band_low" yaml:"band_low"`   // Hz
	BandHigh float64 `json:"band_high" yaml:"band_high"` // Hz

	Notch     bool    `json:"notch" yaml:"notch"`
	NotchFreq float64 `json:"notch_freq" yaml:"notch_freq"` // Hz, 50 or 60 for mains
	NotchQ    float64 `json:"notch_q" yaml:"notch_q"`       // center/bandwidth
}

// ArtifactConfig selects the artifact removal strategy.
type ArtifactConfig struct {
	Enabled   bool                 `json:"enabled" yaml:"enabled"`
	Strategy  artifacts.Strategy   `json:"strategy" yaml:"strategy"`
	Threshold float64              `json:"threshold" yaml:"threshold"` // z-score for the statistical strategy
	ICA       artifacts.ICAOptions `json:"ica" yaml:"ica"`
}

// ClassifierConfig configures feature windowing and the rule-based scorer.
type ClassifierConfig struct {
	WindowSize     int               `json:"window_size" yaml:"window_size"`
	SequenceLength int               `json:"sequence_length" yaml:"sequence_length"`
	Rules          emotion.RuleBased `json:"rules" yaml:"rules"`
}

// Config describes one end-to-end run: what to synthesize and how to analyze it.
type Config struct {
	Preset synthesis.Preset `json:"preset" yaml:"preset"`

	// Synthesis holds the custom mix for PresetCustom. For the canned presets
	// only its Duration and SampleRate are used.
	Synthesis synthesis.Params `json:"synthesis" yaml:"synthesis"`

	// Seed drives every random source of a run: synthesis noise and the ICA
	// initial vectors. Batch item i uses Seed+i.
	Seed uint64 `json:"seed" yaml:"seed"`

	Filters    FilterConfig     `json:"filters" yaml:"filters"`
	Artifacts  ArtifactConfig   `json:"artifacts" yaml:"artifacts"`
	Classifier ClassifierConfig `json:"classifier" yaml:"classifier"`

	// Workers bounds batch concurrency; 0 picks a count from the CPU number.
	Workers int `json:"workers" yaml:"workers"`

	LogLevel string `json:"log_level" yaml:"log_level"`
}

// DefaultConfig returns the processing used by the desktop application:
// 0.5-45 Hz band-pass, 50 Hz notch with Q 30, and 3 sigma statistical
// artifact removal.
func DefaultConfig() *Config {
	return &Config{
		Preset:    synthesis.PresetNeutral,
		Synthesis: synthesis.DefaultCustomParams(),
		Seed:      42,
		Filters: FilterConfig{
			BandPass:  true,
			BandLow:   0.5,
			BandHigh:  45,
			Notch:     true,
			NotchFreq: 50,
			NotchQ:    filters.DefaultNotchQ,
		},
		Artifacts: ArtifactConfig{
			Enabled:   true,
			Strategy:  artifacts.StrategyStatistical,
			Threshold: artifacts.DefaultThreshold,
			ICA:       artifacts.DefaultICAOptions(),
		},
		Classifier: ClassifierConfig{
			WindowSize:     emotion.DefaultWindowSize,
			SequenceLength: emotion.DefaultSequenceLength,
			Rules:          emotion.DefaultRuleBased(),
		},
		LogLevel: "info",
	}
}

// Validate rejects configurations that cannot run. Frequencies are checked
// against the Nyquist limit when the signal arrives, since the sample rate
// belongs to the signal.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil config", signal.ErrInvalidParameter)
	}
	if _, err := synthesis.ParsePreset(string(c.Preset)); err != nil {
		return err
	}
	if c.Preset == synthesis.PresetCustom {
		if err := c.Synthesis.Validate(); err != nil {
			return fmt.Errorf("custom synthesis: %w", err)
		}
	}

	f := c.Filters
	if f.BandPass && !(f.BandLow > 0 && f.BandLow < f.BandHigh) {
		return fmt.Errorf("%w: band-pass needs 0 < low < high, got %v-%v Hz", signal.ErrInvalidParameter, f.BandLow, f.BandHigh)
	}
	if f.Notch && !(f.NotchFreq > 0 && f.NotchQ > 0) {
		return fmt.Errorf("%w: notch needs a positive frequency and Q, got %v Hz Q=%v", signal.ErrInvalidParameter, f.NotchFreq, f.NotchQ)
	}

	if c.Artifacts.Enabled {
		if _, err := artifacts.ParseStrategy(string(c.Artifacts.Strategy)); err != nil {
			return err
		}
		if c.Artifacts.Threshold < 0 {
			return fmt.Errorf("%w: artifact threshold must be non-negative, got %v", signal.ErrInvalidParameter, c.Artifacts.Threshold)
		}
	}

	if c.Classifier.WindowSize < 1 || c.Classifier.SequenceLength < 1 {
		return fmt.Errorf("%w: window size and sequence length must be positive", signal.ErrInvalidParameter)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %d", signal.ErrInvalidParameter, c.Workers)
	}
	return nil
}

// filterSpecs returns the enabled preprocessing stages in application order.
func (c *Config) filterSpecs() []filters.Spec {
	var specs []filters.Spec
	if c.Filters.BandPass {
		specs = append(specs, filters.BandPass{Low: c.Filters.BandLow, High: c.Filters.BandHigh})
	}
	if c.Filters.Notch {
		specs = append(specs, filters.Notch{
			Center:    c.Filters.NotchFreq,
			Bandwidth: filters.BandwidthForQ(c.Filters.NotchFreq, c.Filters.NotchQ),
		})
	}
	return specs
}

// LoadConfig reads a YAML or JSON config file, chosen by extension, on top of
// DefaultConfig. Unknown extensions are tried as YAML, then JSON.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config (tried YAML and JSON): %w", err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
