package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/RyanBlaney/sonido-eeg/algorithms/spectral"
	"github.com/RyanBlaney/sonido-eeg/emotion"
	"github.com/RyanBlaney/sonido-eeg/pipeline"
	"github.com/RyanBlaney/sonido-eeg/signal"
)

// loadRequest loads a YAML or JSON file into v, chosen by extension
func loadRequest(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, v); err != nil {
			if err := json.Unmarshal(data, v); err != nil {
				return fmt.Errorf("failed to parse file (tried YAML and JSON): %w", err)
			}
		}
	}
	return nil
}

// loadSignal reads a {samples, sample_rate} document and validates it.
func loadSignal(path string) (signal.Signal, error) {
	var raw signal.Signal
	if err := loadRequest(path, &raw); err != nil {
		return signal.Signal{}, err
	}
	if raw.SampleRate == 0 {
		raw.SampleRate = signal.DefaultSampleRate
	}
	return signal.New(raw.Samples, raw.SampleRate)
}

// writeOutput writes result as YAML, or JSON with --json, to --output or stdout.
func writeOutput(result any) error {
	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// summary is the sample-free view of an analysis.
type summary struct {
	Emotion            emotion.Label         `json:"emotion" yaml:"emotion"`
	Confidence         float64               `json:"confidence" yaml:"confidence"`
	Probabilities      emotion.Probabilities `json:"probabilities" yaml:"probabilities"`
	Source             emotion.Source        `json:"source" yaml:"source"`
	BandPowers         spectral.BandPowers   `json:"band_powers" yaml:"band_powers"`
	RelativePowers     spectral.BandPowers   `json:"relative_powers" yaml:"relative_powers"`
	ArtifactStrategy   string                `json:"artifact_strategy,omitempty" yaml:"artifact_strategy,omitempty"`
	ArtifactComponents []int                 `json:"artifact_components,omitempty" yaml:"artifact_components,omitempty"`
	FlaggedSamples     int                   `json:"flagged_samples" yaml:"flagged_samples"`
	Warnings           []string              `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Samples            int                   `json:"samples" yaml:"samples"`
	ElapsedMS          float64               `json:"elapsed_ms" yaml:"elapsed_ms"`
}

func summarize(a *pipeline.Analysis) summary {
	s := summary{
		Emotion:       a.Prediction.Emotion,
		Confidence:    a.Prediction.Confidence,
		Probabilities: a.Prediction.Probabilities,
		Source:        a.Prediction.Source,
		BandPowers:    a.BandPowers,
		Warnings:      a.Warnings,
		Samples:       a.Clean.Len(),
		ElapsedMS:     float64(a.Elapsed.Microseconds()) / 1000,
	}
	// a silent recording reports all-zero relative powers
	s.RelativePowers, _ = a.BandPowers.Relative()
	if a.Artifacts != nil {
		s.ArtifactStrategy = string(a.Artifacts.Strategy)
		s.ArtifactComponents = a.Artifacts.ArtifactComponents
		s.FlaggedSamples = len(a.Artifacts.FlaggedSamples)
	}
	return s
}
