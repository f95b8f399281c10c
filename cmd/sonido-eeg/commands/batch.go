package commands

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-eeg/algorithms/synthesis"
	"github.com/RyanBlaney/sonido-eeg/emotion"
	"github.com/RyanBlaney/sonido-eeg/logging"
	"github.com/RyanBlaney/sonido-eeg/pipeline"
	"github.com/RyanBlaney/sonido-eeg/signal"
)

var (
	batchPresets string
	batchCount   int
	batchWorkers int
)

// batchFile is the -f input of the batch command.
type batchFile struct {
	Signals []signal.Signal `json:"signals" yaml:"signals"`
}

// batchItem is one line of the batch output.
type batchItem struct {
	Index    int           `json:"index" yaml:"index"`
	Expected emotion.Label `json:"expected,omitempty" yaml:"expected,omitempty"`
	Analysis summary       `json:"analysis" yaml:"analysis"`
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze many recordings concurrently",
	Long: `Analyze the signals listed in a YAML or JSON file ({signals: [...]}), or
synthesize count recordings of each preset and analyze them on a worker pool.

Examples:
  sonido-eeg batch -f recordings.yaml --workers 4
  sonido-eeg batch --presets happy,sad --count 8 --strategy ica --json`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchPresets, "presets", "happy,neutral,sad", "comma separated presets to synthesize when no file is given")
	batchCmd.Flags().IntVar(&batchCount, "count", 1, "recordings per preset")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "worker count (default from config, 0 for one per CPU)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if batchWorkers > 0 {
		cfg.Workers = batchWorkers
	}

	sigs, expected, err := batchInputs(cfg.Seed, cfg.Synthesis)
	if err != nil {
		return err
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	ctx := logging.ContextWithFields(cmd.Context(), logging.Fields{"command": "batch"})
	results, err := p.AnalyzeBatch(ctx, sigs)
	if err != nil {
		return err
	}

	items := make([]batchItem, len(results))
	matched := 0
	for i, res := range results {
		items[i] = batchItem{Index: i, Analysis: summarize(res)}
		if expected != nil {
			items[i].Expected = expected[i]
			if expected[i] == res.Prediction.Emotion {
				matched++
			}
		}
	}

	fields := logging.Fields{"signals": len(results)}
	if expected != nil {
		fields["matched"] = matched
	}
	logging.Info("Batch analysis completed", fields)
	return writeOutput(items)
}

// batchInputs loads -f or synthesizes the requested presets. expected is nil
// for loaded signals.
func batchInputs(seed uint64, custom synthesis.Params) ([]signal.Signal, []emotion.Label, error) {
	if inputFile != "" {
		var file batchFile
		if err := loadRequest(inputFile, &file); err != nil {
			return nil, nil, err
		}
		sigs := make([]signal.Signal, len(file.Signals))
		for i, raw := range file.Signals {
			if raw.SampleRate == 0 {
				raw.SampleRate = signal.DefaultSampleRate
			}
			sig, err := signal.New(raw.Samples, raw.SampleRate)
			if err != nil {
				return nil, nil, fmt.Errorf("signal %d: %w", i, err)
			}
			sigs[i] = sig
		}
		return sigs, nil, nil
	}

	if batchCount < 1 {
		return nil, nil, fmt.Errorf("%w: count must be positive, got %d", signal.ErrInvalidParameter, batchCount)
	}

	var sigs []signal.Signal
	var expected []emotion.Label
	for _, name := range strings.Split(batchPresets, ",") {
		preset, err := synthesis.ParsePreset(strings.TrimSpace(name))
		if err != nil {
			return nil, nil, err
		}
		for range batchCount {
			s := seed + uint64(len(sigs))
			ls, err := synthesis.Generate(preset, custom, rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15)))
			if err != nil {
				return nil, nil, err
			}
			sigs = append(sigs, ls.Signal)
			expected = append(expected, ls.Emotion)
		}
	}
	return sigs, expected, nil
}
