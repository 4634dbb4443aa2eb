// Package toy provides a small self-contained language model. It exists so
// the decoder, the server, and the benchmarks can run without loading real
// weights; the logits it produces are deterministic for a given seed but
// otherwise meaningless.
package toy

import (
	"context"
	"math/rand"
)

// DefaultContextSize is the window size the bundled demo model advertises.
const DefaultContextSize = 128

// recencyDecay is the per-step falloff applied when averaging the window.
// Older tokens still contribute, just less.
const recencyDecay = 0.7

// Model is a fixed-weight embedding model. Each query averages the
// embeddings of the context window with a bias toward recent tokens, then
// projects the result back onto the vocabulary. Weights never change after
// construction, so a Model is safe for concurrent use.
type Model struct {
	vocab  int
	hidden int
	ctx    int

	emb  []float32 // [vocab x hidden] token embeddings
	w    []float32 // [hidden x vocab] output projection
	bias []float32 // [vocab]
}

// New constructs a model with the given vocabulary size, hidden width, and
// context window. All weights are drawn from seeded generators, so equal
// arguments always produce identical models.
func New(vocab, hidden, contextSize int, seed int64) *Model {
	m := &Model{
		vocab:  vocab,
		hidden: hidden,
		ctx:    contextSize,
		emb:    make([]float32, vocab*hidden),
		w:      make([]float32, hidden*vocab),
		bias:   make([]float32, vocab),
	}
	fillNorm(m.emb, seed+11)
	fillNorm(m.w, seed+23)
	fillNorm(m.bias, seed+37)
	return m
}

// ContextSize reports the maximum window the model accepts.
func (m *Model) ContextSize() int { return m.ctx }

// VocabSize reports the number of entries in each logits vector.
func (m *Model) VocabSize() int { return m.vocab }

// Logits scores the next token given the window. Token ids outside
// [0, vocab) are reduced modulo vocab rather than rejected. The returned
// slice is freshly allocated on every call. An empty window yields the bias
// vector alone.
func (m *Model) Logits(ctx context.Context, window []int) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// h = weighted mean of the window's embeddings, newest token first.
	h := make([]float32, m.hidden)
	weight := float32(1)
	var total float32
	for i := len(window) - 1; i >= 0; i-- {
		row := m.row(window[i])
		for j, v := range row {
			h[j] += v * weight
		}
		total += weight
		weight *= recencyDecay
	}
	if total > 0 {
		for j := range h {
			h[j] /= total
		}
	}

	// logits = h*W + bias
	logits := make([]float32, m.vocab)
	copy(logits, m.bias)
	for i, hv := range h {
		row := m.w[i*m.vocab : (i+1)*m.vocab]
		for j, wv := range row {
			logits[j] += hv * wv
		}
	}
	return logits, nil
}

// row returns the embedding for tok, wrapping the index into range first.
func (m *Model) row(tok int) []float32 {
	if tok < 0 || tok >= m.vocab {
		tok %= m.vocab
		if tok < 0 {
			tok += m.vocab
		}
	}
	return m.emb[tok*m.hidden : (tok+1)*m.hidden]
}

// fillNorm fills dst with draws from a seeded normal, scaled down so the
// projected logits stay in a comfortable range for the softmax.
func fillNorm(dst []float32, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range dst {
		dst[i] = float32(rng.NormFloat64()) * 0.5
	}
}
