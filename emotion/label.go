package emotion

import "fmt"

// Label is the emotional state implied by a recording. Its string form is the
// only value handed to the music recommendation layer.
type Label string

const (
	Happy   Label = "happy"
	Neutral Label = "neutral"
	Sad     Label = "sad"
)

// Labels lists the classes in probability-vector order.
func Labels() []Label {
	return []Label{Happy, Neutral, Sad}
}

// ParseLabel validates a label string.
func ParseLabel(s string) (Label, error) {
	switch Label(s) {
	case Happy, Neutral, Sad:
		return Label(s), nil
	default:
		return "", fmt.Errorf("unknown emotion label %q", s)
	}
}

func (l Label) String() string {
	return string(l)
}

// Probabilities is the distribution over the three classes.
type Probabilities struct {
	Happy   float64 `json:"happy"`
	Neutral float64 `json:"neutral"`
	Sad     float64 `json:"sad"`
}

// FromSlice builds Probabilities from a [happy, neutral, sad] slice.
func FromSlice(p []float64) (Probabilities, error) {
	if len(p) != 3 {
		return Probabilities{}, fmt.Errorf("expected 3 class probabilities, got %d", len(p))
	}
	return Probabilities{Happy: p[0], Neutral: p[1], Sad: p[2]}, nil
}

// Slice returns the probabilities in Labels() order.
func (p Probabilities) Slice() []float64 {
	return []float64{p.Happy, p.Neutral, p.Sad}
}

// Of returns the probability of label l.
func (p Probabilities) Of(l Label) float64 {
	switch l {
	case Happy:
		return p.Happy
	case Neutral:
		return p.Neutral
	case Sad:
		return p.Sad
	}
	return 0
}

// Argmax returns the most probable label and its probability. Ties resolve in
// Labels() order.
func (p Probabilities) Argmax() (Label, float64) {
	best, bestP := Happy, p.Happy
	if p.Neutral > bestP {
		best, bestP = Neutral, p.Neutral
	}
	if p.Sad > bestP {
		best, bestP = Sad, p.Sad
	}
	return best, bestP
}

// Uniform is the distribution reported when a signal carries no spectral energy.
func Uniform() Probabilities {
	return Probabilities{Happy: 1.0 / 3.0, Neutral: 1.0 / 3.0, Sad: 1.0 / 3.0}
}
