package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-eeg/algorithms/artifacts"
	"github.com/RyanBlaney/sonido-eeg/algorithms/synthesis"
	"github.com/RyanBlaney/sonido-eeg/logging"
	"github.com/RyanBlaney/sonido-eeg/pipeline"
)

var (
	// Global flags
	cfgFile    string
	inputFile  string
	outputFile string
	outputJSON bool
	logLevel   string
	verbose    bool

	// Run overrides
	presetName   string
	strategyName string
	seed         uint64
)

var rootCmd = &cobra.Command{
	Use:   "sonido-eeg",
	Short: "Synthetic EEG analysis and emotion classification",
	Long: `sonido-eeg - synthesize, filter, clean and classify single-channel EEG.

The analysis chain is band-pass (0.5-45 Hz), 50 Hz notch, artifact removal
(statistical or ICA) and a band-power emotion classifier.

Examples:
  # Generate the sad preset
  sonido-eeg synthesize --preset sad --seed 7 -o sad.json --json

  # Analyze a recording with ICA artifact removal
  sonido-eeg analyze -f sad.json --strategy ica --summary

  # Analyze synthesized presets concurrently
  sonido-eeg batch --presets happy,neutral,sad --count 4 --json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.ParseLevel(logLevel)
		if verbose {
			level = logging.DebugLevel
		}
		logging.SetGlobalLogger(logging.NewWriterLogger(os.Stderr, level))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "pipeline config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&inputFile, "file", "f", "", "input signal file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON instead of YAML")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.PersistentFlags().StringVar(&presetName, "preset", "", "synthesis preset (happy, neutral, sad, custom)")
	rootCmd.PersistentFlags().StringVar(&strategyName, "strategy", "", "artifact removal strategy (statistical, ica)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "random seed (default from config)")

	rootCmd.AddCommand(synthesizeCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(batchCmd)
}

// loadConfig reads --config, or the defaults, and applies the flag overrides.
func loadConfig(cmd *cobra.Command) (*pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	if cfgFile != "" {
		loaded, err := pipeline.LoadConfig(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if presetName != "" {
		preset, err := synthesis.ParsePreset(presetName)
		if err != nil {
			return nil, err
		}
		cfg.Preset = preset
	}
	if strategyName != "" {
		strategy, err := artifacts.ParseStrategy(strategyName)
		if err != nil {
			return nil, err
		}
		cfg.Artifacts.Strategy = strategy
		cfg.Artifacts.Enabled = true
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newPipeline(cmd *cobra.Command) (*pipeline.Pipeline, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return pipeline.New(cfg)
}
