package commands

import (
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-eeg/algorithms/synthesis"
	"github.com/RyanBlaney/sonido-eeg/logging"
)

var (
	synthDuration float64
	synthRate     int
)

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize",
	Short: "Generate a synthetic EEG recording",
	Long: `Generate a preset recording, or a custom mix taken from the config file.

Examples:
  sonido-eeg synthesize --preset happy --json
  sonido-eeg synthesize --config custom.yaml --preset custom --duration 30`,
	RunE: runSynthesize,
}

func init() {
	synthesizeCmd.Flags().Float64Var(&synthDuration, "duration", 0, "duration in seconds (default from config)")
	synthesizeCmd.Flags().IntVar(&synthRate, "sample-rate", 0, "sample rate in Hz (default from config)")
}

func runSynthesize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	params := cfg.Synthesis
	if synthDuration > 0 {
		params.Duration = synthDuration
	}
	if synthRate > 0 {
		params.SampleRate = synthRate
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	ls, err := synthesis.Generate(cfg.Preset, params, rng)
	if err != nil {
		return err
	}

	logging.Info("Synthesized recording", logging.Fields{
		"preset":   ls.Preset,
		"emotion":  ls.Emotion,
		"samples":  ls.Len(),
		"duration": ls.Duration(),
	})
	return writeOutput(ls)
}
