package logits

import (
	"math"
	"math/rand"
	"testing"
)

// survivors returns the indices whose entries are not the sentinel.
func survivors(logs []float32) []int {
	var out []int
	for i, v := range logs {
		if !math.IsInf(float64(v), -1) {
			out = append(out, i)
		}
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTopKTopPTopK(t *testing.T) {
	cases := []struct {
		name string
		in   []float32
		topK int
		want []int
	}{
		{
			name: "keeps-two-largest",
			in:   []float32{1.0, 2.0, 3.0, 4.0, 0.5},
			topK: 2,
			want: []int{2, 3},
		},
		{
			name: "k-equal-to-vocab-keeps-all",
			in:   []float32{1.0, 2.0, 3.0},
			topK: 3,
			want: []int{0, 1, 2},
		},
		{
			name: "oversized-k-clamped",
			in:   []float32{1.0, 2.0, 3.0},
			topK: 100,
			want: []int{0, 1, 2},
		},
		{
			name: "ties-at-threshold-survive",
			in:   []float32{5.0, 3.0, 5.0, 1.0},
			topK: 2,
			want: []int{0, 2},
		},
		{
			name: "tie-inflates-survivor-set",
			in:   []float32{5.0, 3.0, 3.0, 1.0},
			topK: 2,
			want: []int{0, 1, 2},
		},
		{
			name: "single-entry-vocab",
			in:   []float32{0.7},
			topK: 1,
			want: []int{0},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TopKTopP(tc.in, NewFilterConfig(tc.topK, 0))
			if !equalInts(survivors(got), tc.want) {
				t.Fatalf("survivors = %v, want %v", survivors(got), tc.want)
			}
		})
	}
}

func TestTopKTopPKeepsSurvivorValues(t *testing.T) {
	in := []float32{1.0, 2.0, 3.0, 4.0, 0.5}
	got := TopKTopP(in, NewFilterConfig(2, 0))
	if got[2] != 3.0 || got[3] != 4.0 {
		t.Fatalf("surviving entries changed: got %v", got)
	}
	for _, i := range []int{0, 1, 4} {
		if !math.IsInf(float64(got[i]), -1) {
			t.Fatalf("entry %d = %v, want -Inf", i, got[i])
		}
	}
}

func TestTopKTopPNoFiltering(t *testing.T) {
	in := []float32{1.0, 2.0, 3.0, 4.0, 0.5}
	want := []float32{1.0, 2.0, 3.0, 4.0, 0.5}
	got := TopKTopP(in, NewFilterConfig(0, 0))
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d = %v, want %v (no-op expected)", i, got[i], want[i])
		}
	}
}

// fourLogits returns a vector whose softmax is exactly 0.4/0.3/0.2/0.1 in
// index order, giving cumulative mass 0.4, 0.7, 0.9, 1.0.
func fourLogits() []float32 {
	return []float32{
		float32(math.Log(0.4)),
		float32(math.Log(0.3)),
		float32(math.Log(0.2)),
		float32(math.Log(0.1)),
	}
}

func TestTopKTopPTopP(t *testing.T) {
	cases := []struct {
		name string
		in   []float32
		topP float32
		want []int
	}{
		{
			name: "crossing-entry-is-kept",
			in:   fourLogits(),
			topP: 0.65,
			want: []int{0, 1},
		},
		{
			name: "suffix-after-crossing-dropped",
			in:   fourLogits(),
			topP: 0.85,
			want: []int{0, 1, 2},
		},
		{
			name: "threshold-above-all-partial-sums-keeps-all",
			in:   fourLogits(),
			topP: 0.95,
			want: []int{0, 1, 2, 3},
		},
		{
			name: "dominant-entry-alone",
			in:   []float32{0, 0, 0, 10},
			topP: 0.9,
			want: []int{3},
		},
		{
			name: "p-of-one-keeps-all",
			in:   fourLogits(),
			topP: 1.0,
			want: []int{0, 1, 2, 3},
		},
		{
			name: "single-entry-vocab-survives-tiny-p",
			in:   []float32{2.5},
			topP: 0.01,
			want: []int{0},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TopKTopP(tc.in, NewFilterConfig(0, tc.topP))
			if !equalInts(survivors(got), tc.want) {
				t.Fatalf("survivors = %v, want %v", survivors(got), tc.want)
			}
		})
	}
}

func TestTopKTopPTinyPKeepsExactlyOne(t *testing.T) {
	// Every entry carries 0.25 probability, far above p, yet the top-ranked
	// entry must still survive.
	in := []float32{1, 1, 1, 1}
	got := TopKTopP(in, NewFilterConfig(0, 0.01))
	if n := len(survivors(got)); n != 1 {
		t.Fatalf("got %d survivors, want exactly 1", n)
	}
}

func TestTopKTopPComposition(t *testing.T) {
	// Applying top-k before top-p must yield a subset of top-p alone.
	alone := TopKTopP(fourLogits(), NewFilterConfig(0, 0.85))
	both := TopKTopP(fourLogits(), NewFilterConfig(2, 0.85))

	aloneSet := map[int]bool{}
	for _, i := range survivors(alone) {
		aloneSet[i] = true
	}
	for _, i := range survivors(both) {
		if !aloneSet[i] {
			t.Fatalf("index %d survives k+p but not p alone", i)
		}
	}
	if want := []int{0, 1}; !equalInts(survivors(both), want) {
		t.Fatalf("k+p survivors = %v, want %v", survivors(both), want)
	}
}

func TestTopKTopPRandomVectors(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		n := 2 + rng.Intn(64)
		in := make([]float32, n)
		for i := range in {
			in[i] = float32(rng.NormFloat64() * 4)
		}
		k := rng.Intn(n + 4)
		p := float32(rng.Float64())

		// Softmax of the unfiltered vector, for the mass invariant below.
		ref := make([]float64, n)
		maxv := float64(in[0])
		for _, v := range in[1:] {
			if float64(v) > maxv {
				maxv = float64(v)
			}
		}
		var sum float64
		for i, v := range in {
			ref[i] = math.Exp(float64(v) - maxv)
			sum += ref[i]
		}

		got := TopKTopP(append([]float32(nil), in...), NewFilterConfig(k, p))
		surv := survivors(got)
		if len(surv) == 0 {
			t.Fatalf("trial %d: empty candidate set (n=%d k=%d p=%v)", trial, n, k, p)
		}
		if p == 0 && k > 0 && len(surv) < min(k, n) {
			t.Fatalf("trial %d: %d survivors, want >= %d", trial, len(surv), min(k, n))
		}
		if p > 0 && k == 0 {
			var mass float64
			for _, i := range surv {
				mass += ref[i] / sum
			}
			if mass < float64(p)-1e-6 {
				t.Fatalf("trial %d: surviving mass %v below p %v", trial, mass, p)
			}
		}
	}
}
