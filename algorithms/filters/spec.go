package filters

import (
	"fmt"

	"github.com/RyanBlaney/sonido-eeg/signal"
)

// Kind identifies a filter class.
type Kind int

const (
	KindLowPass Kind = iota
	KindHighPass
	KindBandPass
	KindNotch
)

func (k Kind) String() string {
	switch k {
	case KindLowPass:
		return "lowpass"
	case KindHighPass:
		return "highpass"
	case KindBandPass:
		return "bandpass"
	case KindNotch:
		return "notch"
	default:
		return "unknown"
	}
}

// Spec is a closed set of filter descriptions: LowPass, HighPass, BandPass and
// Notch. Each carries only the numbers its class needs; the sample rate comes
// from the signal being filtered.
type Spec interface {
	Kind() Kind
	apply(sig signal.Signal) (signal.Signal, error)
}

// LowPass keeps content below Cutoff Hz.
type LowPass struct {
	Cutoff float64 `json:"cutoff"`
}

// HighPass keeps content above Cutoff Hz, realized as the signal minus its low-pass.
type HighPass struct {
	Cutoff float64 `json:"cutoff"`
}

// BandPass keeps content between Low and High Hz: HighPass(Low) then LowPass(High).
type BandPass struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Notch removes a band Bandwidth Hz wide around Center Hz.
type Notch struct {
	Center    float64 `json:"center"`
	Bandwidth float64 `json:"bandwidth"`
}

func (LowPass) Kind() Kind { return KindLowPass }
func (HighPass) Kind() Kind { return KindHighPass }
func (BandPass) Kind() Kind { return KindBandPass }
func (Notch) Kind() Kind { return KindNotch }

func (f LowPass) apply(sig signal.Signal) (signal.Signal, error) {
	c, err := ButterworthLowPass(f.Cutoff, sig.SampleRate)
	if err != nil {
		return signal.Signal{}, err
	}
	out, err := applyZeroPhase(c, sig.Samples)
	return sig.WithSamples(out), err
}

func (f HighPass) apply(sig signal.Signal) (signal.Signal, error) {
	c, err := ButterworthLowPass(f.Cutoff, sig.SampleRate)
	if err != nil {
		return signal.Signal{}, err
	}
	out, err := lowComplement(c, sig.Samples)
	return sig.WithSamples(out), err
}

func (f BandPass) apply(sig signal.Signal) (signal.Signal, error) {
	if f.Low >= f.High {
		return signal.Signal{}, fmt.Errorf("%w: band-pass low %v Hz must be below high %v Hz",
			signal.ErrInvalidParameter, f.Low, f.High)
	}
	// validate both edges before running anything
	hp, err := ButterworthLowPass(f.Low, sig.SampleRate)
	if err != nil {
		return signal.Signal{}, err
	}
	lp, err := ButterworthLowPass(f.High, sig.SampleRate)
	if err != nil {
		return signal.Signal{}, err
	}

	high, hpErr := lowComplement(hp, sig.Samples)
	out, lpErr := applyZeroPhase(lp, high)
	if hpErr != nil {
		return sig.WithSamples(out), hpErr
	}
	return sig.WithSamples(out), lpErr
}

func (f Notch) apply(sig signal.Signal) (signal.Signal, error) {
	c, err := NotchCoefficients(f.Center, f.Bandwidth, sig.SampleRate)
	if err != nil {
		return signal.Signal{}, err
	}
	out, err := applyZeroPhase(c, sig.Samples)
	return sig.WithSamples(out), err
}

// Apply runs spec over sig zero-phase and returns a new signal.
//
// Invalid parameters return ErrInvalidParameter and an empty signal. An unstable
// section returns the input unfiltered together with ErrFilterUnstable, so
// callers may log the condition and continue.
func Apply(sig signal.Signal, spec Spec) (signal.Signal, error) {
	if err := sig.Validate(); err != nil {
		return signal.Signal{}, err
	}
	if spec == nil {
		return signal.Signal{}, fmt.Errorf("%w: nil filter spec", signal.ErrInvalidParameter)
	}
	return spec.apply(sig)
}

// ApplyChain applies specs in order. Unstable stages are skipped and reported;
// invalid parameters stop the chain.
func ApplyChain(sig signal.Signal, specs ...Spec) (signal.Signal, []error) {
	var soft []error
	for _, spec := range specs {
		out, err := Apply(sig, spec)
		if err != nil && out.Samples == nil {
			return signal.Signal{}, append(soft, fmt.Errorf("%s: %w", spec.Kind(), err))
		}
		if err != nil {
			soft = append(soft, fmt.Errorf("%s: %w", spec.Kind(), err))
		}
		sig = out
	}
	return sig, soft
}

// LowPassFilter applies a zero-phase Butterworth low-pass at cutoff Hz.
func LowPassFilter(sig signal.Signal, cutoff float64) (signal.Signal, error) {
	return Apply(sig, LowPass{Cutoff: cutoff})
}

// HighPassFilter applies the low-pass complement at cutoff Hz.
func HighPassFilter(sig signal.Signal, cutoff float64) (signal.Signal, error) {
	return Apply(sig, HighPass{Cutoff: cutoff})
}

// BandPassFilter keeps low..high Hz.
func BandPassFilter(sig signal.Signal, low, high float64) (signal.Signal, error) {
	return Apply(sig, BandPass{Low: low, High: high})
}

// NotchFilter removes bandwidth Hz around freq.
func NotchFilter(sig signal.Signal, freq, bandwidth float64) (signal.Signal, error) {
	return Apply(sig, Notch{Center: freq, Bandwidth: bandwidth})
}
