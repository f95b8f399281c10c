package signal

import (
	"errors"
	"math"
	"testing"
)

func TestNew_CopiesInput(t *testing.T) {
	in := []float64{1, 2, 3}
	s, err := New(in, 256)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	in[0] = 99
	if s.Samples[0] != 1 {
		t.Fatalf("signal aliases caller slice")
	}
}

func TestNew_RejectsInvalid(t *testing.T) {
	cases := []struct {
		name    string
		samples []float64
		rate    int
	}{
		{"empty", nil, 256},
		{"zero rate", []float64{1}, 0},
		{"negative rate", []float64{1}, -5},
		{"nan", []float64{1, math.NaN()}, 256},
		{"inf", []float64{math.Inf(1)}, 256},
	}
	for _, tc := range cases {
		if _, err := New(tc.samples, tc.rate); !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("%s: err=%v, want ErrInvalidParameter", tc.name, err)
		}
	}
}

func TestDurationAndNyquist(t *testing.T) {
	s := Zeros(2560, 256)
	if s.Duration() != 10 {
		t.Fatalf("duration=%v, want 10", s.Duration())
	}
	if s.Nyquist() != 128 {
		t.Fatalf("nyquist=%v, want 128", s.Nyquist())
	}
	if (Signal{}).Duration() != 0 {
		t.Fatalf("zero-value duration should be 0")
	}
}

func TestSampleCount(t *testing.T) {
	cases := []struct {
		duration float64
		rate     int
		want     int
	}{
		{10, 256, 2560},
		{2.5, 256, 640},
		{0.1, 1000, 100},
		{1.0 / 3.0, 3, 1},
	}
	for _, tc := range cases {
		if got := SampleCount(tc.duration, tc.rate); got != tc.want {
			t.Fatalf("SampleCount(%v, %d)=%d, want %d", tc.duration, tc.rate, got, tc.want)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Zeros(4, 256).Validate(); err != nil {
		t.Fatalf("valid signal rejected: %v", err)
	}
	if err := Zeros(0, 256).Validate(); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("empty signal accepted")
	}
}
