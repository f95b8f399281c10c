package stats

import (
	"math"
	"testing"
)

func TestExcessKurtosis_Sinusoid(t *testing.T) {
	n := 4096
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 8 * float64(i) / float64(n))
	}
	if got := Summarize(data).ExcessKurtosis; math.Abs(got+1.5) > 1e-6 {
		t.Fatalf("sinusoid kurtosis=%v, want -1.5", got)
	}
}

func TestExcessKurtosis_SpikeIsHigh(t *testing.T) {
	data := make([]float64, 1000)
	data[500] = 10
	if got := Summarize(data).ExcessKurtosis; got < 100 {
		t.Fatalf("single spike kurtosis=%v, expected very large", got)
	}
}

func TestSummarize_ConstantAndEmpty(t *testing.T) {
	s := Summarize([]float64{2, 2, 2})
	if s.ExcessKurtosis != 0 || s.PeakToStd != 0 || s.StdDev != 0 {
		t.Fatalf("constant input: %+v", s)
	}
	if s.Mean != 2 || s.PeakAbs != 2 {
		t.Fatalf("constant input mean/peak: %+v", s)
	}
	if (Summarize(nil) != MomentSummary{}) {
		t.Fatalf("empty input should be zero summary")
	}
}

func TestSummarize_PeakToStd(t *testing.T) {
	s := Summarize([]float64{1, -1, 1, -1})
	if math.Abs(s.StdDev-1) > 1e-12 || math.Abs(s.PeakToStd-1) > 1e-12 {
		t.Fatalf("square wave summary: %+v", s)
	}
}
