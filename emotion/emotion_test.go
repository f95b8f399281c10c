package emotion_test

import (
	"bytes"
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/RyanBlaney/sonido-eeg/algorithms/spectral"
	"github.com/RyanBlaney/sonido-eeg/algorithms/synthesis"
	"github.com/RyanBlaney/sonido-eeg/emotion"
	"github.com/RyanBlaney/sonido-eeg/logging"
	"github.com/RyanBlaney/sonido-eeg/signal"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func presetSignal(t *testing.T, preset synthesis.Preset, seed uint64) signal.Signal {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	ls, err := synthesis.Generate(preset, synthesis.Params{}, rng)
	if err != nil {
		t.Fatal(err)
	}
	return ls.Signal
}

func quietPredictor(handle *emotion.ModelHandle) *emotion.Predictor {
	return emotion.NewPredictor(handle, emotion.WithLogger(&logging.NoOpLogger{}))
}

func TestExtractFeatures_Shape(t *testing.T) {
	sig := presetSignal(t, synthesis.PresetNeutral, 1)
	features, err := emotion.ExtractFeatures(sig, emotion.DefaultWindowSize, emotion.DefaultSequenceLength)
	if err != nil {
		t.Fatal(err)
	}
	if len(features) != emotion.DefaultSequenceLength {
		t.Fatalf("got %d windows, want %d", len(features), emotion.DefaultSequenceLength)
	}
	for i, fv := range features {
		for d, v := range fv {
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Fatalf("window %d dim %d = %v, want [0,1]", i, d, v)
			}
		}
	}
}

func TestExtractFeatures_TracksBandChanges(t *testing.T) {
	// first half alpha (10 Hz), second half theta (6 Hz)
	data := make([]float64, 2560)
	for i := range data {
		f := 10.0
		if i >= 1280 {
			f = 6
		}
		data[i] = math.Sin(2 * math.Pi * f * float64(i) / 256)
	}
	sig := signal.Signal{Samples: data, SampleRate: 256}

	features, err := emotion.ExtractFeatures(sig, 256, 10)
	if err != nil {
		t.Fatal(err)
	}
	const alpha, theta = 2, 1
	if !almostEqual(features[0][alpha], 1, 1e-9) || !almostEqual(features[9][alpha], 0, 1e-9) {
		t.Fatalf("alpha dimension: first=%v last=%v", features[0][alpha], features[9][alpha])
	}
	if !almostEqual(features[0][theta], 0, 1e-9) || !almostEqual(features[9][theta], 1, 1e-9) {
		t.Fatalf("theta dimension: first=%v last=%v", features[0][theta], features[9][theta])
	}
}

func TestExtractFeatures_FlatAndShortInput(t *testing.T) {
	features, err := emotion.ExtractFeatures(signal.Zeros(2560, 256), 256, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, fv := range features {
		for _, v := range fv {
			if v != 0.5 {
				t.Fatalf("flat dimension normalized to %v, want 0.5", v)
			}
		}
	}

	// shorter than one window: every window is zero-padded
	short := signal.Signal{Samples: []float64{1, -1, 2, -2, 0.5}, SampleRate: 256}
	features, err = emotion.ExtractFeatures(short, 256, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(features) != 4 {
		t.Fatalf("got %d windows", len(features))
	}
}

func TestExtractFeatures_Invalid(t *testing.T) {
	sig := signal.Zeros(256, 256)
	if _, err := emotion.ExtractFeatures(sig, 0, 10); !errors.Is(err, signal.ErrInvalidParameter) {
		t.Fatalf("zero window accepted: %v", err)
	}
	if _, err := emotion.ExtractFeatures(sig, 256, 0); !errors.Is(err, signal.ErrInvalidParameter) {
		t.Fatalf("zero sequence length accepted: %v", err)
	}
	if _, err := emotion.ExtractFeatures(signal.Signal{SampleRate: 256}, 256, 10); !errors.Is(err, signal.ErrInvalidParameter) {
		t.Fatalf("empty signal accepted: %v", err)
	}
}

func TestRuleBased_ProbabilitiesAreADistribution(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	rules := emotion.DefaultRuleBased()
	for range 500 {
		p := spectral.BandPowers{
			Delta: rng.Float64() * 10,
			Theta: rng.Float64(),
			Alpha: rng.Float64() * 3,
			Beta:  rng.Float64() * 1e-3,
			Gamma: rng.Float64(),
		}
		probs := rules.Classify(p)
		sum := 0.0
		for _, v := range probs.Slice() {
			if v < 0 || math.IsNaN(v) {
				t.Fatalf("bad probability %v for %+v", v, p)
			}
			sum += v
		}
		if !almostEqual(sum, 1, 1e-6) {
			t.Fatalf("probabilities sum to %v", sum)
		}
	}
}

func TestRuleBased_ZeroPowerIsUniform(t *testing.T) {
	probs := emotion.DefaultRuleBased().Classify(spectral.BandPowers{})
	if probs != emotion.Uniform() {
		t.Fatalf("got %+v, want uniform", probs)
	}
}

func TestRuleBased_SlowRhythmsScoreSad(t *testing.T) {
	rules := emotion.DefaultRuleBased()
	slow := rules.Score(spectral.BandPowers{Delta: 1, Theta: 1})
	fast := rules.Score(spectral.BandPowers{Alpha: 1, Beta: 1, Gamma: 1})
	if slow.Sad <= fast.Sad || slow.Happy >= fast.Happy {
		t.Fatalf("slow=%+v fast=%+v", slow, fast)
	}
}

func TestPredict_SadPreset(t *testing.T) {
	for seed := range uint64(5) {
		pred, err := quietPredictor(nil).Predict(presetSignal(t, synthesis.PresetSad, seed))
		if err != nil {
			t.Fatal(err)
		}
		if pred.Emotion != emotion.Sad {
			t.Fatalf("seed %d: predicted %s (%+v)", seed, pred.Emotion, pred.Probabilities)
		}
		if pred.Source != emotion.SourceRules {
			t.Fatalf("source=%s", pred.Source)
		}
		if !almostEqual(pred.Confidence, pred.Probabilities.Sad, 0) {
			t.Fatalf("confidence %v != max probability %v", pred.Confidence, pred.Probabilities.Sad)
		}
		if pred.BandPowers.Theta <= pred.BandPowers.Alpha {
			t.Fatalf("band powers not attached: %+v", pred.BandPowers)
		}
	}
}

func TestPredict_ZeroSignal(t *testing.T) {
	pred, err := quietPredictor(nil).Predict(signal.Zeros(2560, 256))
	if err != nil {
		t.Fatal(err)
	}
	if pred.Probabilities != emotion.Uniform() || !almostEqual(pred.Confidence, 1.0/3.0, 1e-12) {
		t.Fatalf("zero signal: %+v", pred)
	}
	if pred.Emotion != emotion.Neutral {
		t.Fatalf("zero signal labeled %s", pred.Emotion)
	}
	if pred.BandPowers.Total() != 0 {
		t.Fatalf("band powers %+v", pred.BandPowers)
	}
}

func TestPredict_InvalidSignal(t *testing.T) {
	if _, err := quietPredictor(nil).Predict(signal.Signal{SampleRate: 256}); !errors.Is(err, signal.ErrInvalidParameter) {
		t.Fatalf("empty signal accepted: %v", err)
	}
}

func TestPredict_UsesModel(t *testing.T) {
	var seen int
	model := emotion.ModelFunc(func(features []emotion.FeatureVector) ([]float64, error) {
		seen = len(features)
		return []float64{0.1, 0.7, 0.2}, nil
	})

	pred, err := quietPredictor(emotion.StaticModel(model)).Predict(presetSignal(t, synthesis.PresetSad, 1))
	if err != nil {
		t.Fatal(err)
	}
	if pred.Source != emotion.SourceModel || pred.Emotion != emotion.Neutral || pred.Confidence != 0.7 {
		t.Fatalf("model output not used: %+v", pred)
	}
	if seen != emotion.DefaultSequenceLength {
		t.Fatalf("model saw %d windows", seen)
	}
}

func TestPredict_FallsBackToRules(t *testing.T) {
	cases := map[string]*emotion.ModelHandle{
		"nil handle":    nil,
		"no loader":     emotion.NewModelHandle(nil),
		"loader fails":  emotion.NewModelHandle(func() (emotion.SequenceModel, error) { return nil, errors.New("no weights") }),
		"loader nil":    emotion.NewModelHandle(func() (emotion.SequenceModel, error) { return nil, nil }),
		"model fails":   emotion.StaticModel(emotion.ModelFunc(func([]emotion.FeatureVector) ([]float64, error) { return nil, errors.New("boom") })),
		"bad sum":       emotion.StaticModel(emotion.ModelFunc(func([]emotion.FeatureVector) ([]float64, error) { return []float64{0.5, 0.5, 0.5}, nil })),
		"wrong classes": emotion.StaticModel(emotion.ModelFunc(func([]emotion.FeatureVector) ([]float64, error) { return []float64{1}, nil })),
		"negative":      emotion.StaticModel(emotion.ModelFunc(func([]emotion.FeatureVector) ([]float64, error) { return []float64{-0.5, 0.5, 1}, nil })),
	}
	sig := presetSignal(t, synthesis.PresetSad, 2)
	for name, handle := range cases {
		pred, err := quietPredictor(handle).Predict(sig)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if pred.Source != emotion.SourceRules || pred.Emotion != emotion.Sad {
			t.Fatalf("%s: %+v", name, pred)
		}
	}
}

func TestModelHandle_LoadsOnce(t *testing.T) {
	var calls atomic.Int32
	handle := emotion.NewModelHandle(func() (emotion.SequenceModel, error) {
		calls.Add(1)
		return emotion.ModelFunc(func([]emotion.FeatureVector) ([]float64, error) {
			return []float64{1, 0, 0}, nil
		}), nil
	})

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := handle.Load(); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("loader ran %d times", calls.Load())
	}
}

func TestModelHandle_Unavailable(t *testing.T) {
	cause := errors.New("missing weights")
	handle := emotion.NewModelHandle(func() (emotion.SequenceModel, error) { return nil, cause })
	_, err := handle.Load()
	if !errors.Is(err, emotion.ErrModelUnavailable) || !errors.Is(err, cause) {
		t.Fatalf("err=%v", err)
	}

	var none *emotion.ModelHandle
	if _, err := none.Load(); !errors.Is(err, emotion.ErrModelUnavailable) {
		t.Fatalf("nil handle: %v", err)
	}
}

func TestModelHandle_Configured(t *testing.T) {
	cases := map[string]struct {
		handle *emotion.ModelHandle
		want   bool
	}{
		"nil handle": {nil, false},
		"zero value": {&emotion.ModelHandle{}, false},
		"no loader":  {emotion.NewModelHandle(nil), false},
		"loader":     {emotion.NewModelHandle(func() (emotion.SequenceModel, error) { return nil, nil }), true},
		"static":     {emotion.StaticModel(emotion.ModelFunc(nil)), true},
	}
	for name, tc := range cases {
		if got := tc.handle.Configured(); got != tc.want {
			t.Fatalf("%s: Configured()=%v, want %v", name, got, tc.want)
		}
	}
}

func TestPredict_LogsOnlyConfiguredModelFailures(t *testing.T) {
	sig := presetSignal(t, synthesis.PresetHappy, 1)
	predict := func(handle *emotion.ModelHandle) string {
		t.Helper()
		var buf bytes.Buffer
		p := emotion.NewPredictor(handle, emotion.WithLogger(logging.NewWriterLogger(&buf, logging.DebugLevel)))
		if _, err := p.Predict(sig); err != nil {
			t.Fatal(err)
		}
		return buf.String()
	}

	if out := predict(nil); out != "" {
		t.Fatalf("rules-only predictor logged %q", out)
	}
	if out := predict(emotion.NewModelHandle(nil)); out != "" {
		t.Fatalf("handle without loader logged %q", out)
	}

	// a loader reporting the sentinel itself is still a configured model failing
	failing := emotion.NewModelHandle(func() (emotion.SequenceModel, error) { return nil, emotion.ErrModelUnavailable })
	if out := predict(failing); !strings.Contains(out, "Sequence model not loaded") {
		t.Fatalf("configured loader failure not logged: %q", out)
	}
}

func TestLabels(t *testing.T) {
	for _, l := range emotion.Labels() {
		got, err := emotion.ParseLabel(l.String())
		if err != nil || got != l {
			t.Fatalf("ParseLabel(%q) = %q, %v", l, got, err)
		}
	}
	if _, err := emotion.ParseLabel("angry"); err == nil {
		t.Fatal("unknown label accepted")
	}

	p := emotion.Probabilities{Happy: 0.2, Neutral: 0.2, Sad: 0.6}
	if l, c := p.Argmax(); l != emotion.Sad || c != 0.6 {
		t.Fatalf("argmax=%s %v", l, c)
	}
	if _, err := emotion.FromSlice([]float64{1, 2}); err == nil {
		t.Fatal("short slice accepted")
	}
}
