// Package pipeline runs the full analysis chain: synthesis, filtering,
// artifact removal, spectral analysis and emotion classification.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/RyanBlaney/sonido-eeg/algorithms/artifacts"
	"github.com/RyanBlaney/sonido-eeg/algorithms/filters"
	"github.com/RyanBlaney/sonido-eeg/algorithms/spectral"
	"github.com/RyanBlaney/sonido-eeg/algorithms/synthesis"
	"github.com/RyanBlaney/sonido-eeg/emotion"
	"github.com/RyanBlaney/sonido-eeg/logging"
	"github.com/RyanBlaney/sonido-eeg/signal"
)

// Analysis is everything the display layer consumes for one signal.
type Analysis struct {
	// Filtered is the signal after the filter stages, before artifact removal.
	Filtered signal.Signal `json:"filtered"`

	// Clean is the signal the classifier saw.
	Clean signal.Signal `json:"clean"`

	// Artifacts is nil when artifact removal is disabled.
	Artifacts *artifacts.Result `json:"artifacts,omitempty"`

	BandPowers spectral.BandPowers `json:"band_powers"`
	Prediction emotion.Prediction  `json:"prediction"`

	// Warnings lists the fallbacks taken (unstable filter, ICA replaced by statistical removal).
	Warnings []string `json:"warnings,omitempty"`

	Elapsed time.Duration `json:"elapsed"`
}

// Report pairs a synthesized input with its analysis.
type Report struct {
	Input    synthesis.LabeledSignal `json:"input"`
	Analysis *Analysis               `json:"analysis"`
}

// Pipeline holds a validated configuration and a predictor. It has no
// mutable state and is safe for concurrent use.
type Pipeline struct {
	config    *Config
	predictor *emotion.Predictor
	logger    logging.Logger
}

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	logger logging.Logger
	model  *emotion.ModelHandle
}

// WithLogger sets the logger used by the pipeline and its predictor.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithModel attaches a trained sequence model; without one the rule-based
// classifier is used.
func WithModel(h *emotion.ModelHandle) Option {
	return func(o *options) { o.model = h }
}

// New validates config and builds a pipeline. A nil config selects DefaultConfig.
func New(config *Config, opts ...Option) (*Pipeline, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.GetGlobalLogger()
	}
	logger := o.logger.WithFields(logging.Fields{
		"component": "pipeline",
	})

	predictor := emotion.NewPredictor(o.model,
		emotion.WithRules(config.Classifier.Rules),
		emotion.WithWindows(config.Classifier.WindowSize, config.Classifier.SequenceLength),
		emotion.WithLogger(o.logger.WithFields(logging.Fields{"component": "emotion_predictor"})),
	)

	return &Pipeline{config: config, predictor: predictor, logger: logger}, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() *Config {
	return p.config
}

// Run synthesizes the configured preset and analyzes it.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	input, err := synthesis.Generate(p.config.Preset, p.config.Synthesis, newRand(p.config.Seed))
	if err != nil {
		p.logger.WithContext(ctx).Error(err, "Failed to synthesize input")
		return nil, err
	}

	analysis, err := p.analyze(ctx, input.Signal, p.config.Seed+1)
	if err != nil {
		return nil, err
	}
	return &Report{Input: input, Analysis: analysis}, nil
}

// Analyze runs filtering, artifact removal and classification on sig.
//
// Fallbacks (ErrFilterUnstable, and the ICA fallbacks reported by
// artifacts.IsFallback) do not fail the call; they are listed in
// Analysis.Warnings. Invalid input and cancellation
// return an error and no partial result.
func (p *Pipeline) Analyze(ctx context.Context, sig signal.Signal) (*Analysis, error) {
	return p.analyze(ctx, sig, p.config.Seed)
}

func (p *Pipeline) analyze(ctx context.Context, sig signal.Signal, seed uint64) (*Analysis, error) {
	start := time.Now()
	logger := p.logger.WithContext(ctx).WithFields(logging.Fields{
		"samples":     sig.Len(),
		"sample_rate": sig.SampleRate,
	})

	if err := sig.Validate(); err != nil {
		logger.Error(err, "Rejected input signal")
		return nil, err
	}

	analysis := &Analysis{}

	// filters
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.Debug("Applying filters", logging.Fields{"stages": len(p.config.filterSpecs())})
	filtered, errs := filters.ApplyChain(sig, p.config.filterSpecs()...)
	for _, err := range errs {
		if !errors.Is(err, filters.ErrFilterUnstable) {
			logger.Error(err, "Filter stage rejected", logging.Fields{"nyquist": sig.Nyquist()})
			return nil, err
		}
		logger.Warn("Filter unstable, stage passed through", logging.Fields{"error": err.Error()})
		analysis.Warnings = append(analysis.Warnings, err.Error())
	}
	analysis.Filtered = filtered
	clean := filtered

	// artifacts
	if p.config.Artifacts.Enabled {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// a fresh remover per call, so each ICA run owns its random source
		cfg := p.config.Artifacts
		remover, err := artifacts.New(cfg.Strategy, cfg.Threshold, cfg.ICA, newRand(seed))
		if err != nil {
			logger.Error(err, "Artifact remover rejected")
			return nil, err
		}
		logger.Debug("Removing artifacts", logging.Fields{"strategy": remover.Strategy()})

		res, err := remover.Remove(filtered)
		switch {
		case artifacts.IsFallback(err):
			logger.Warn("ICA could not separate artifacts, used statistical removal", logging.Fields{"error": err.Error()})
			analysis.Warnings = append(analysis.Warnings, err.Error())
		case err != nil:
			logger.Error(err, "Artifact removal rejected")
			return nil, err
		}
		analysis.Artifacts = &res
		clean = res.Clean
	}
	analysis.Clean = clean

	// classification
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prediction, err := p.predictor.Predict(clean)
	if err != nil {
		logger.Error(err, "Classification rejected")
		return nil, err
	}
	analysis.Prediction = prediction
	analysis.BandPowers = prediction.BandPowers
	analysis.Elapsed = time.Since(start)

	logger.Debug("Analysis completed", logging.Fields{
		"emotion":    prediction.Emotion,
		"confidence": prediction.Confidence,
		"source":     prediction.Source,
		"warnings":   len(analysis.Warnings),
		"elapsed":    analysis.Elapsed,
	})
	return analysis, nil
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// String summarizes a prediction for log lines and CLI output.
func (a *Analysis) String() string {
	return fmt.Sprintf("%s (%.1f%%, %s)", a.Prediction.Emotion, a.Prediction.Confidence*100, a.Prediction.Source)
}
