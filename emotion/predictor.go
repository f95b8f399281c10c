package emotion

import (
	"github.com/RyanBlaney/sonido-eeg/algorithms/spectral"
	"github.com/RyanBlaney/sonido-eeg/logging"
	"github.com/RyanBlaney/sonido-eeg/signal"
)

// Source names the classifier that produced a prediction.
type Source string

const (
	SourceRules Source = "rules"
	SourceModel Source = "model"
)

// Prediction is the classifier output handed to display and recommendation layers.
type Prediction struct {
	Emotion       Label               `json:"emotion"`
	Confidence    float64             `json:"confidence"` // max class probability
	Probabilities Probabilities       `json:"probabilities"`
	BandPowers    spectral.BandPowers `json:"band_powers"` // whole-signal powers
	Source        Source              `json:"source"`
}

// Predictor classifies signals with a trained sequence model when one is
// available and the rule-based scorer otherwise. It holds no mutable state
// after construction and is safe for concurrent use.
type Predictor struct {
	rules          RuleBased
	handle         *ModelHandle
	windowSize     int
	sequenceLength int
	logger         logging.Logger
}

// PredictorOption configures a Predictor.
type PredictorOption func(*Predictor)

// WithRules overrides the rule-based classifier parameters.
func WithRules(r RuleBased) PredictorOption {
	return func(p *Predictor) { p.rules = r }
}

// WithWindows sets the feature windowing used for the sequence model.
func WithWindows(windowSize, sequenceLength int) PredictorOption {
	return func(p *Predictor) {
		if windowSize > 0 {
			p.windowSize = windowSize
		}
		if sequenceLength > 0 {
			p.sequenceLength = sequenceLength
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) PredictorOption {
	return func(p *Predictor) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPredictor returns a predictor. handle may be nil for rules only.
func NewPredictor(handle *ModelHandle, opts ...PredictorOption) *Predictor {
	p := &Predictor{
		rules:          DefaultRuleBased(),
		handle:         handle,
		windowSize:     DefaultWindowSize,
		sequenceLength: DefaultSequenceLength,
		logger: logging.WithFields(logging.Fields{
			"component": "emotion_predictor",
		}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict classifies sig. The only error is an invalid input; a missing or
// failing model silently falls back to the rules. A signal without spectral
// energy is reported as neutral with uniform probabilities.
func (p *Predictor) Predict(sig signal.Signal) (Prediction, error) {
	if err := sig.Validate(); err != nil {
		return Prediction{}, err
	}

	powers, err := spectral.PowersOf(sig)
	if err != nil {
		return Prediction{}, err
	}

	probs, source := p.modelProbabilities(sig)
	if source != SourceModel {
		probs = p.rules.Classify(powers)
	}

	label, confidence := probs.Argmax()
	if source == SourceRules && !(powers.Total() > 0) {
		// uniform distribution, no class to prefer
		label = Neutral
	}
	return Prediction{
		Emotion:       label,
		Confidence:    confidence,
		Probabilities: probs,
		BandPowers:    powers,
		Source:        source,
	}, nil
}

func (p *Predictor) modelProbabilities(sig signal.Signal) (Probabilities, Source) {
	if !p.handle.Configured() {
		return Probabilities{}, SourceRules
	}
	model, err := p.handle.Load()
	if err != nil {
		p.logger.Debug("Sequence model not loaded, using rules", logging.Fields{
			"reason": err.Error(),
		})
		return Probabilities{}, SourceRules
	}

	features, err := ExtractFeatures(sig, p.windowSize, p.sequenceLength)
	if err != nil {
		p.logger.Warn("Feature extraction failed, using rules", logging.Fields{
			"error": err.Error(),
		})
		return Probabilities{}, SourceRules
	}

	out, err := model.PredictProba(features)
	if err != nil {
		p.logger.Warn("Sequence model failed, using rules", logging.Fields{
			"error": err.Error(),
		})
		return Probabilities{}, SourceRules
	}

	probs, err := checkProbabilities(out)
	if err != nil {
		p.logger.Warn("Sequence model returned invalid probabilities, using rules", logging.Fields{
			"error": err.Error(),
		})
		return Probabilities{}, SourceRules
	}
	return probs, SourceModel
}
