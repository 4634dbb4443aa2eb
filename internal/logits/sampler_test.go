package logits

import (
	"errors"
	"math"
	"testing"
)

func TestSamplerDeterministicBySeed(t *testing.T) {
	logs := []float32{0.1, 1.3, 0.7, 2.0, 0.4}
	a := NewSampler(42)
	b := NewSampler(42)
	for i := 0; i < 50; i++ {
		ga, err := a.Sample(logs)
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		gb, err := b.Sample(logs)
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if ga != gb {
			t.Fatalf("draw %d: same seed diverged, %d vs %d", i, ga, gb)
		}
	}
}

func TestSamplerNeverDrawsSentinel(t *testing.T) {
	logs := []float32{NegInf, 0.5, NegInf, 1.5, NegInf}
	s := NewSampler(1)
	for i := 0; i < 1000; i++ {
		got, err := s.Sample(logs)
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if got != 1 && got != 3 {
			t.Fatalf("draw %d: sampled filtered index %d", i, got)
		}
	}
}

func TestSamplerSingleCandidate(t *testing.T) {
	logs := []float32{NegInf, NegInf, 3.0, NegInf}
	s := NewSampler(9)
	for i := 0; i < 100; i++ {
		got, err := s.Sample(logs)
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if got != 2 {
			t.Fatalf("draw %d: got %d, want 2", i, got)
		}
	}
}

func TestSamplerErrors(t *testing.T) {
	cases := []struct {
		name string
		in   []float32
		want error
	}{
		{name: "empty-vector", in: nil, want: ErrEmptyVocabulary},
		{name: "all-sentinel", in: []float32{NegInf, NegInf, NegInf}, want: ErrNoCandidates},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSampler(0)
			if _, err := s.Sample(tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSamplerLargeMagnitudeLogits(t *testing.T) {
	// Softmax must not overflow when logits are far from zero.
	logs := []float32{1000, 999, 998, NegInf}
	s := NewSampler(3)
	for i := 0; i < 100; i++ {
		got, err := s.Sample(logs)
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if got < 0 || got > 2 {
			t.Fatalf("draw %d: got %d, want index in [0,2]", i, got)
		}
	}
}

func TestSamplerFollowsDistribution(t *testing.T) {
	// Index 1 holds ~0.99995 of the mass; in 200 draws it must dominate.
	logs := []float32{0, 10}
	s := NewSampler(11)
	hits := 0
	for i := 0; i < 200; i++ {
		got, err := s.Sample(logs)
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if got == 1 {
			hits++
		}
	}
	if hits < 190 {
		t.Fatalf("index 1 drawn %d/200 times, want >= 190", hits)
	}
}

func TestSamplerAfterFilter(t *testing.T) {
	// End-to-end over the filter: only filtered-in indices are drawn.
	s := NewSampler(5)
	for i := 0; i < 200; i++ {
		logs := TopKTopP([]float32{1.0, 2.0, 3.0, 4.0, 0.5}, NewFilterConfig(2, 0))
		got, err := s.Sample(logs)
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if got != 2 && got != 3 {
			t.Fatalf("draw %d: got %d, want 2 or 3", i, got)
		}
	}
}

func TestNegInfIsInfinite(t *testing.T) {
	if !math.IsInf(float64(NegInf), -1) {
		t.Fatalf("NegInf = %v, want -Inf", NegInf)
	}
}
