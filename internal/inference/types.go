package inference

import (
	"context"
	"time"
)

// Model is the capability the decoding core queries: given the trailing
// window of the current sequence, return one unnormalized log-probability
// per vocabulary entry for the following position. The returned vector is
// owned by the caller and mutated during the step; implementations must
// hand out a fresh slice per call.
//
// Implementations must tolerate concurrent read-only queries when samples
// run in parallel, or the caller has to serialize access externally.
type Model interface {
	Logits(ctx context.Context, window []int) ([]float32, error)
	ContextSize() int
}

// Tokenizer is the text-boundary capability. The decoding core itself uses
// only UnknownID, resolved once per run; Encode and Render serve the Engine
// when mapping between text and token ids, and PieceText gives streaming
// consumers the rewritten text of a single token.
type Tokenizer interface {
	Encode(text string) []int
	Render(ids []int) string
	PieceText(id int) string
	UnknownID() int
}

// TokenFunc observes every sampled token in generation order. sample is the
// zero-based sample index, step the zero-based position within that sample.
// With parallel sampling the callback fires from multiple goroutines.
type TokenFunc func(sample, step, token int)

type Stats struct {
	TokensGenerated int
	Duration        time.Duration
	TPS             float64
}

// Sample is one generated continuation: the full token sequence (prefix
// included) and its rendered text.
type Sample struct {
	Index  int
	Tokens []int
	Text   string
}

// Result is the outcome of one Engine.Generate call.
type Result struct {
	Samples []Sample
	Stats   Stats
}
