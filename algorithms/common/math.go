package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Epsilon is the threshold below which spreads and totals are treated as zero.
const Epsilon = 1e-12

// Basic statistical helpers shared by the pipeline stages, built on gonum

// Mean calculates the arithmetic mean of a slice, 0 for an empty slice
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// PopMeanStdDev returns the mean and population (1/n) standard deviation.
func PopMeanStdDev(data []float64) (mean, std float64) {
	if len(data) == 0 {
		return 0, 0
	}
	mean, std = stat.PopMeanStdDev(data, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

// MinMaxNormalize scales data into [0, 1]. A flat input maps to the midpoint 0.5
// instead of dividing by a zero range.
func MinMaxNormalize(data []float64) []float64 {
	normalized := make([]float64, len(data))
	if len(data) == 0 {
		return normalized
	}

	lo := floats.Min(data)
	hi := floats.Max(data)
	span := hi - lo

	if span < Epsilon {
		for i := range normalized {
			normalized[i] = 0.5
		}
		return normalized
	}

	for i, val := range data {
		normalized[i] = (val - lo) / span
	}
	return normalized
}

// Softmax converts scores into probabilities that sum to 1.
// The max score is subtracted first so large scores cannot overflow.
func Softmax(scores []float64) []float64 {
	probs := make([]float64, len(scores))
	if len(scores) == 0 {
		return probs
	}

	peak := floats.Max(scores)
	for i, s := range scores {
		probs[i] = math.Exp(s - peak)
	}
	floats.Scale(1/floats.Sum(probs), probs)
	return probs
}

// CircularShift returns data rotated right by k samples: out[i] = data[(i-k) mod n].
func CircularShift(data []float64, k int) []float64 {
	n := len(data)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	k = ((k % n) + n) % n
	copy(out[k:], data[:n-k])
	copy(out[:k], data[n-k:])
	return out
}

// Reversed returns a reversed copy of data
func Reversed(data []float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[len(data)-1-i] = v
	}
	return out
}

// IsFinite reports whether every value is neither NaN nor infinite
func IsFinite(data []float64) bool {
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
