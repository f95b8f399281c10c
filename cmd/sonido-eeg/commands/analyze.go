package commands

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-eeg/logging"
)

var summaryOnly bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Filter, clean and classify a recording",
	Long: `Analyze the recording given with -f, or synthesize the configured preset
and analyze it when no file is given.

The input file holds {samples: [...], sample_rate: 256} as YAML or JSON.

Examples:
  sonido-eeg analyze -f recording.yaml --summary
  sonido-eeg analyze --preset sad --strategy ica --json`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&summaryOnly, "summary", false, "omit sample arrays from the output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	ctx := logging.ContextWithFields(cmd.Context(), logging.Fields{"command": "analyze"})

	if inputFile == "" {
		report, err := p.Run(ctx)
		if err != nil {
			return err
		}
		logging.Info("Analyzed synthesized recording", logging.Fields{
			"preset":   report.Input.Preset,
			"expected": report.Input.Emotion,
			"result":   report.Analysis.String(),
		})
		if summaryOnly {
			return writeOutput(summarize(report.Analysis))
		}
		return writeOutput(report)
	}

	sig, err := loadSignal(inputFile)
	if err != nil {
		return err
	}
	analysis, err := p.Analyze(ctx, sig)
	if err != nil {
		return err
	}
	logging.Info("Analyzed recording", logging.Fields{
		"file":   inputFile,
		"result": analysis.String(),
	})
	if summaryOnly {
		return writeOutput(summarize(analysis))
	}
	return writeOutput(analysis)
}
