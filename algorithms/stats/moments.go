package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// flatVariance is the variance below which a series is treated as constant
const flatVariance = 1e-24

// MomentSummary holds the shape statistics used to judge whether a waveform is spiky
type MomentSummary struct {
	Mean           float64 `json:"mean"`
	StdDev         float64 `json:"std_dev"`         // population standard deviation
	ExcessKurtosis float64 `json:"excess_kurtosis"` // m4/m2^2 - 3, 0 for a Gaussian
	PeakAbs        float64 `json:"peak_abs"`        // max |x|
	PeakToStd      float64 `json:"peak_to_std"`     // PeakAbs / StdDev
}

// Summarize computes the moment summary of data. Constant or empty input yields
// zero kurtosis and zero peak ratio rather than NaN.
func Summarize(data []float64) MomentSummary {
	if len(data) == 0 {
		return MomentSummary{}
	}

	mean := stat.Mean(data, nil)
	m2 := stat.Moment(2, data, nil)

	peak := 0.0
	for _, v := range data {
		peak = math.Max(peak, math.Abs(v))
	}

	summary := MomentSummary{Mean: mean, PeakAbs: peak}
	if m2 < flatVariance {
		return summary
	}

	summary.StdDev = math.Sqrt(m2)
	summary.ExcessKurtosis = stat.Moment(4, data, nil)/(m2*m2) - 3
	summary.PeakToStd = peak / summary.StdDev
	return summary
}

