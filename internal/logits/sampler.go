package logits

import (
	"errors"
	"math"
	"math/rand"
)

var (
	// ErrEmptyVocabulary is returned when a logit vector has length zero;
	// filtering and sampling are undefined on an empty distribution.
	ErrEmptyVocabulary = errors.New("logits: empty vocabulary")

	// ErrNoCandidates is returned when every entry of a logit vector is the
	// filter sentinel, leaving nothing to sample. TopKTopP never produces
	// such a vector from a valid one, so seeing this error means a caller
	// broke the filtering contract.
	ErrNoCandidates = errors.New("logits: no candidate tokens after filtering")
)

// Sampler draws token ids from filtered logit vectors. It is not safe for
// concurrent use; give each generation run its own Sampler.
type Sampler struct {
	rng  *rand.Rand
	prob []float64
}

// NewSampler returns a Sampler seeded with seed. Two samplers built from the
// same seed draw identical index sequences from identical inputs.
func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Sample converts logits to a categorical distribution via softmax and draws
// one index from it. Entries equal to NegInf carry zero probability and are
// never drawn. The softmax subtracts the maximum entry before exponentiating
// and accumulates in float64, so large-magnitude logits do not overflow.
//
// This is a true multinomial draw, not an argmax: identical inputs can yield
// different indices across calls as the generator state advances.
func (s *Sampler) Sample(logits []float32) (int, error) {
	if len(logits) == 0 {
		return 0, ErrEmptyVocabulary
	}

	maxv := NegInf
	for _, v := range logits {
		if v > maxv {
			maxv = v
		}
	}
	if math.IsInf(float64(maxv), -1) {
		return 0, ErrNoCandidates
	}

	if cap(s.prob) < len(logits) {
		s.prob = make([]float64, len(logits))
	}
	prob := s.prob[:len(logits)]
	var sum float64
	for i, v := range logits {
		e := math.Exp(float64(v - maxv))
		prob[i] = e
		sum += e
	}
	if sum == 0 {
		return 0, ErrNoCandidates
	}

	// Walk the CDF with a draw scaled by the total mass instead of
	// normalizing every entry first.
	r := s.rng.Float64() * sum
	var c float64
	for i, p := range prob {
		c += p
		if r < c {
			return i, nil
		}
	}
	// Accumulated rounding can leave r a hair above the final total; fall
	// back to the last entry with mass.
	for i := len(prob) - 1; i >= 0; i-- {
		if prob[i] > 0 {
			return i, nil
		}
	}
	return 0, ErrNoCandidates
}
