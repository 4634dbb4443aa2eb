package inference

import (
	"context"

	"github.com/loomlm/loom/internal/logits"
)

// Decoder runs one generation: it grows a token sequence by querying the
// model, shaping the returned logits, and sampling, one token per step.
// A Decoder is single-use per run and not safe for concurrent use; parallel
// samples each get their own.
type Decoder struct {
	cfg     GenerationConfig
	filter  logits.FilterConfig
	sampler *logits.Sampler

	// OnToken, when set, observes each sampled token with its zero-based
	// step index, in order.
	OnToken func(step, token int)
}

// NewDecoder validates cfg and returns a Decoder for one run.
func NewDecoder(cfg GenerationConfig) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{
		cfg:     cfg,
		filter:  logits.NewFilterConfig(cfg.TopK, cfg.TopP),
		sampler: logits.NewSampler(cfg.Seed),
	}, nil
}

// Decode is the single-shot form: validate, run, return the full sequence.
func Decode(ctx context.Context, model Model, prefix []int, cfg GenerationConfig) ([]int, error) {
	d, err := NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	return d.Run(ctx, model, prefix)
}

// Run generates exactly cfg.Length tokens after prefix and returns the
// prefix plus the generated tail as a fresh slice. Each step:
//
//  1. Window the sequence to its last ContextSize-1 tokens (fewer while
//     the sequence is still short; an oversized prefix is truncated, never
//     rejected).
//  2. Query the model for next-position logits.
//  3. Divide the logit of every distinct id seen so far (prefix included)
//     by RepetitionPenalty. Seen ids are tracked as a set, so a repeated
//     id is penalized once per step, not once per occurrence.
//  4. Divide all logits by Temperature.
//  5. Force the unknown id, if configured, to the filter sentinel.
//  6. Apply top-k/top-p filtering.
//  7. Softmax the survivors and draw one token.
//  8. Append it to the sequence and the seen set.
//
// There is no early stopping: the loop always runs its full count. The
// context is checked once per step; cancellation aborts the run with the
// context's error. Model errors abort the run and are returned as-is.
func (d *Decoder) Run(ctx context.Context, model Model, prefix []int) ([]int, error) {
	seq := make([]int, 0, len(prefix)+d.cfg.Length)
	seq = append(seq, prefix...)

	seen := make(map[int]struct{}, len(prefix)+d.cfg.Length)
	for _, id := range prefix {
		seen[id] = struct{}{}
	}

	for step := 0; step < d.cfg.Length; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		window := seq
		if limit := d.cfg.ContextSize - 1; len(window) > limit {
			window = window[len(window)-limit:]
		}

		logs, err := model.Logits(ctx, window)
		if err != nil {
			return nil, err
		}
		if len(logs) == 0 {
			return nil, logits.ErrEmptyVocabulary
		}

		for id := range seen {
			if id >= 0 && id < len(logs) {
				logs[id] /= d.cfg.RepetitionPenalty
			}
		}
		for i := range logs {
			logs[i] /= d.cfg.Temperature
		}
		if id := d.cfg.UnknownID; id >= 0 && id < len(logs) {
			logs[id] = d.filter.FilterValue
		}

		logs = logits.TopKTopP(logs, d.filter)

		next, err := d.sampler.Sample(logs)
		if err != nil {
			return nil, err
		}

		seq = append(seq, next)
		seen[next] = struct{}{}
		if d.OnToken != nil {
			d.OnToken(step, next)
		}
	}

	return seq, nil
}
