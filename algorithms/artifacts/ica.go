package artifacts

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/RyanBlaney/sonido-eeg/algorithms/common"
	"github.com/RyanBlaney/sonido-eeg/algorithms/stats"
	"github.com/RyanBlaney/sonido-eeg/signal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ICAOptions configures the pseudo-multichannel FastICA remover.
type ICAOptions struct {
	// Components is the number of pseudo-channels, each a circular shift of the input.
	Components int `json:"components" yaml:"components"`

	// ShiftStep is the delay in samples between consecutive pseudo-channels.
	ShiftStep int `json:"shift_step" yaml:"shift_step"`

	MaxIterations int     `json:"max_iterations" yaml:"max_iterations"`
	Tolerance     float64 `json:"tolerance" yaml:"tolerance"`

	// A component is an artifact when its excess kurtosis exceeds
	// KurtosisThreshold or its peak exceeds PeakRatioThreshold standard deviations.
	KurtosisThreshold  float64 `json:"kurtosis_threshold" yaml:"kurtosis_threshold"`
	PeakRatioThreshold float64 `json:"peak_ratio_threshold" yaml:"peak_ratio_threshold"`

	// FallbackThreshold is the z-score used when whitening fails and the
	// statistical strategy takes over.
	FallbackThreshold float64 `json:"fallback_threshold" yaml:"fallback_threshold"`
}

// DefaultICAOptions returns 4 pseudo-channels shifted by 0, 5, 10 and 15 samples.
func DefaultICAOptions() ICAOptions {
	return ICAOptions{
		Components:         4,
		ShiftStep:          5,
		MaxIterations:      100,
		Tolerance:          1e-6,
		KurtosisThreshold:  5,
		PeakRatioThreshold: 6,
		FallbackThreshold:  DefaultThreshold,
	}
}

// Validate checks the options against a signal of n samples.
func (o ICAOptions) Validate(n int) error {
	switch {
	case o.Components < 1:
		return fmt.Errorf("%w: ICA needs at least one component, got %d", signal.ErrInvalidParameter, o.Components)
	case o.ShiftStep < 1:
		return fmt.Errorf("%w: shift step must be positive, got %d", signal.ErrInvalidParameter, o.ShiftStep)
	case o.MaxIterations < 1:
		return fmt.Errorf("%w: max iterations must be positive, got %d", signal.ErrInvalidParameter, o.MaxIterations)
	case !(o.Tolerance > 0):
		return fmt.Errorf("%w: tolerance must be positive, got %v", signal.ErrInvalidParameter, o.Tolerance)
	case !(o.KurtosisThreshold > 0) || !(o.PeakRatioThreshold > 0):
		return fmt.Errorf("%w: artifact thresholds must be positive", signal.ErrInvalidParameter)
	case n <= o.Components*o.ShiftStep:
		return fmt.Errorf("%w: %d samples cannot hold %d channels shifted by %d",
			signal.ErrInvalidParameter, n, o.Components, o.ShiftStep)
	}
	return nil
}

// ICA removes artifacts by separating circularly shifted copies of the input
// into independent components and discarding the spiky ones.
//
// The random source seeds the initial unmixing vectors. A nil source starts
// every component from a unit basis vector, which makes the result fully
// deterministic. A *rand.Rand is not safe for concurrent use, so an ICA value
// with a non-nil source must not be shared between goroutines.
type ICA struct {
	opts ICAOptions
	rng  *rand.Rand
}

// NewICA returns an ICA remover.
func NewICA(opts ICAOptions, rng *rand.Rand) *ICA {
	return &ICA{opts: opts, rng: rng}
}

func (ica *ICA) Strategy() Strategy { return StrategyICA }

// Options returns the remover configuration.
func (ica *ICA) Options() ICAOptions { return ica.opts }

// Remove runs FastICA over the pseudo-channels.
//
// When the channel covariance is singular, or when every component is flagged
// as an artifact, the statistical strategy runs instead; its result is
// returned together with an error wrapping ErrSingularDecomposition or
// ErrAllComponentsRejected.
func (ica *ICA) Remove(sig signal.Signal) (Result, error) {
	if err := sig.Validate(); err != nil {
		return Result{}, err
	}
	if err := ica.opts.Validate(sig.Len()); err != nil {
		return Result{}, err
	}

	c := ica.opts.Components
	n := sig.Len()
	mean := common.Mean(sig.Samples)

	centered := make([]float64, n)
	copy(centered, sig.Samples)
	floats.AddConst(-mean, centered)

	x := mat.NewDense(c, n, nil)
	for k := range c {
		row := common.CircularShift(centered, k*ica.opts.ShiftStep)
		floats.AddConst(-common.Mean(row), row)
		x.SetRow(k, row)
	}

	wh, err := newWhitener(x)
	if err != nil {
		return ica.fallback(sig, err)
	}
	z := wh.apply(x)

	unmixing := ica.fastICA(z)

	var sources mat.Dense
	sources.Mul(unmixing, z)

	components := make(map[int][]float64, c)
	var artifactIdx []int
	for k := range c {
		row := mat.Row(nil, k, &sources)
		components[k] = row

		summary := stats.Summarize(row)
		if summary.ExcessKurtosis > ica.opts.KurtosisThreshold || summary.PeakToStd > ica.opts.PeakRatioThreshold {
			artifactIdx = append(artifactIdx, k)
		}
	}

	if len(artifactIdx) == c {
		return ica.fallback(sig, fmt.Errorf("%w: %d of %d", ErrAllComponentsRejected, c, c))
	}

	// x = pinv(K) * pinv(W) * s
	kInv, err := pseudoInverse(wh.k)
	if err != nil {
		return ica.fallback(sig, err)
	}
	wInv, err := pseudoInverse(unmixing)
	if err != nil {
		return ica.fallback(sig, err)
	}
	var mixing mat.Dense
	mixing.Mul(kInv, wInv)

	// only channel 0 is unshifted, so only its row is projected back
	mix0 := mat.Row(nil, 0, &mixing)
	clean := make([]float64, n)
	removed := make([]float64, n)
	for k := range c {
		if slices.Contains(artifactIdx, k) {
			floats.AddScaled(removed, mix0[k], components[k])
		} else {
			floats.AddScaled(clean, mix0[k], components[k])
		}
	}
	floats.AddConst(mean, clean)

	if artifactIdx == nil {
		artifactIdx = []int{}
	}
	return Result{
		Clean:              sig.WithSamples(clean),
		Removed:            removed,
		Components:         components,
		ArtifactComponents: artifactIdx,
		Strategy:           StrategyICA,
	}, nil
}

func (ica *ICA) fallback(sig signal.Signal, cause error) (Result, error) {
	res, err := NewStatistical(ica.opts.FallbackThreshold).Remove(sig)
	if err != nil {
		return Result{}, err
	}
	return res, fmt.Errorf("artifact removal fell back to %s: %w", StrategyStatistical, cause)
}

// fastICA estimates the unmixing matrix of whitened data z (channels x samples)
// one row at a time with the tanh contrast, deflating each new row against
// the rows already found. Hitting the iteration cap keeps the current estimate.
func (ica *ICA) fastICA(z *mat.Dense) *mat.Dense {
	c, n := z.Dims()
	unmixing := mat.NewDense(c, c, nil)

	u := make([]float64, n)
	g := make([]float64, n)
	next := make([]float64, c)

	for p := range c {
		w := ica.initialVector(p, c)
		decorrelate(w, unmixing, p)
		if !normalize(w) {
			w = unitVector(p, c)
		}

		for range ica.opts.MaxIterations {
			// u = w^T z
			clear(u)
			for j := range c {
				floats.AddScaled(u, w[j], z.RawRowView(j))
			}

			meanDeriv := 0.0
			for t, v := range u {
				g[t] = math.Tanh(v)
				meanDeriv += 1 - g[t]*g[t]
			}
			meanDeriv /= float64(n)

			// w+ = E[z g(w^T z)] - E[g'(w^T z)] w
			for j := range c {
				next[j] = floats.Dot(z.RawRowView(j), g)/float64(n) - meanDeriv*w[j]
			}
			decorrelate(next, unmixing, p)
			if !normalize(next) {
				break
			}

			converged := math.Abs(1-math.Abs(floats.Dot(next, w))) < ica.opts.Tolerance
			copy(w, next)
			if converged {
				break
			}
		}
		unmixing.SetRow(p, w)
	}
	return unmixing
}

func (ica *ICA) initialVector(p, c int) []float64 {
	if ica.rng == nil {
		return unitVector(p, c)
	}
	w := make([]float64, c)
	for i := range w {
		w[i] = ica.rng.NormFloat64()
	}
	return w
}

// decorrelate removes from w its projection on the first p rows of basis.
func decorrelate(w []float64, basis *mat.Dense, p int) {
	for q := range p {
		row := basis.RawRowView(q)
		floats.AddScaled(w, -floats.Dot(w, row), row)
	}
}

// normalize scales w to unit length, reporting false for a (near) zero vector.
func normalize(w []float64) bool {
	norm := floats.Norm(w, 2)
	if norm < common.Epsilon || math.IsNaN(norm) {
		return false
	}
	floats.Scale(1/norm, w)
	return true
}

func unitVector(p, c int) []float64 {
	w := make([]float64, c)
	w[p] = 1
	return w
}

// New returns the remover for strategy. threshold configures the statistical
// strategy and, when positive, overrides the ICA fallback threshold in opts;
// rng seeds ICA and may be nil.
func New(strategy Strategy, threshold float64, opts ICAOptions, rng *rand.Rand) (Remover, error) {
	switch strategy {
	case StrategyStatistical:
		return NewStatistical(threshold), nil
	case StrategyICA:
		if threshold > 0 {
			opts.FallbackThreshold = threshold
		}
		return NewICA(opts, rng), nil
	default:
		return nil, fmt.Errorf("%w: unknown artifact strategy %q", signal.ErrInvalidParameter, strategy)
	}
}
