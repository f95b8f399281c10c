package emotion

import (
	"math"

	"github.com/RyanBlaney/sonido-eeg/algorithms/common"
	"github.com/RyanBlaney/sonido-eeg/algorithms/spectral"
)

const (
	DefaultTemperature = 1.1
	DefaultSadScale    = 0.8
)

// Scores are the unnormalized class scores computed from relative band powers.
type Scores struct {
	Happy   float64 `json:"happy"`
	Neutral float64 `json:"neutral"`
	Sad     float64 `json:"sad"`
}

// RuleBased scores the three classes as fixed linear combinations of the
// relative band powers of the whole signal.
//
// happy favors alpha, beta and gamma over the slow rhythms; neutral rewards a
// balanced alpha/beta/theta mix close to 30% alpha and 35% theta+delta; sad
// favors theta+delta and penalizes alpha. The sad score is multiplied by
// SadScale, then all scores are divided by Temperature before the softmax.
type RuleBased struct {
	Temperature float64 `json:"temperature" yaml:"temperature"`
	SadScale    float64 `json:"sad_scale" yaml:"sad_scale"`
}

// DefaultRuleBased returns the calibrated classifier.
func DefaultRuleBased() RuleBased {
	return RuleBased{Temperature: DefaultTemperature, SadScale: DefaultSadScale}
}

// Score computes the class scores.
func (r RuleBased) Score(powers spectral.BandPowers) Scores {
	total := powers.Total() + common.Epsilon
	alpha := powers.Alpha / total
	beta := powers.Beta / total
	gamma := powers.Gamma / total
	theta := powers.Theta / total
	delta := powers.Delta / total

	slow := theta + delta
	fast := alpha + beta + gamma
	betaAlpha := beta / (alpha + 1e-6)

	happy := 2.0*alpha + 1.1*beta + 1.3*gamma - 0.6*slow + 0.3*betaAlpha + 0.2*fast
	neutral := 1.2*alpha + 1.0*beta + 0.8*theta + 0.5*gamma -
		0.3*math.Abs(alpha-0.30) - 0.3*math.Abs(slow-0.35)
	sad := 1.5*slow + 0.8*delta + 0.4*theta - 0.7*alpha - 0.4*gamma

	return Scores{Happy: happy, Neutral: neutral, Sad: sad}
}

// Classify returns the class distribution for the given whole-signal band
// powers. A signal without spectral energy gets the uniform distribution.
// A non-positive Temperature or SadScale selects the default.
func (r RuleBased) Classify(powers spectral.BandPowers) Probabilities {
	if !(powers.Total() > 0) {
		return Uniform()
	}

	temp := r.Temperature
	if !(temp > 0) {
		temp = DefaultTemperature
	}
	sadScale := r.SadScale
	if !(sadScale > 0) {
		sadScale = DefaultSadScale
	}

	s := r.Score(powers)
	probs := common.Softmax([]float64{s.Happy / temp, s.Neutral / temp, sadScale * s.Sad / temp})
	return Probabilities{Happy: probs[0], Neutral: probs[1], Sad: probs[2]}
}
