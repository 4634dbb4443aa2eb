package inference

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Engine turns whole generation requests into results: it resolves the
// prefix to token ids, runs the requested number of independent decoding
// runs, renders each back to text, and reports throughput. Runs within one
// request share nothing but the model, which is queried read-only.
type Engine struct {
	model Model
	tok   Tokenizer
}

// NewEngine binds a model and tokenizer into an Engine.
func NewEngine(model Model, tok Tokenizer) *Engine {
	return &Engine{model: model, tok: tok}
}

// Model returns the bound model.
func (e *Engine) Model() Model { return e.model }

// Tokenizer returns the bound tokenizer.
func (e *Engine) Tokenizer() Tokenizer { return e.tok }

// Generate runs req.Samples independent generation runs from req.Prefix.
// onToken, when non-nil, observes every sampled token; with req.Parallel
// above one it fires concurrently and must be safe for that.
//
// Sample i runs with seed base+i, where base is req.Seed or a random value
// when the seed is -1. The first error aborts the whole batch.
func (e *Engine) Generate(ctx context.Context, req Request, onToken TokenFunc) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := e.tok.Encode(req.Prefix)

	length := req.Length
	if length == -1 {
		length = e.model.ContextSize()
	}

	base := req.Seed
	if base < 0 {
		base = time.Now().UnixNano()
	}

	cfg := GenerationConfig{
		Length:            length,
		ContextSize:       e.model.ContextSize(),
		Temperature:       float32(req.Temperature),
		RepetitionPenalty: float32(req.RepetitionPenalty),
		TopK:              req.TopK,
		TopP:              float32(req.TopP),
		UnknownID:         e.tok.UnknownID(),
		Seed:              base,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	samples := make([]Sample, req.Samples)
	start := time.Now()

	if req.Parallel > 1 && req.Samples > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(req.Parallel)
		for i := range samples {
			g.Go(func() error {
				return e.runSample(gctx, prefix, cfg, base, i, onToken, &samples[i])
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range samples {
			if err := e.runSample(ctx, prefix, cfg, base, i, onToken, &samples[i]); err != nil {
				return nil, err
			}
		}
	}

	var stats Stats
	for i := range samples {
		stats.TokensGenerated += len(samples[i].Tokens) - len(prefix)
	}
	stats.Duration = time.Since(start)
	if stats.Duration.Seconds() > 0 {
		stats.TPS = float64(stats.TokensGenerated) / stats.Duration.Seconds()
	}

	return &Result{Samples: samples, Stats: stats}, nil
}

func (e *Engine) runSample(ctx context.Context, prefix []int, cfg GenerationConfig, base int64, idx int, onToken TokenFunc, out *Sample) error {
	cfg.Seed = base + int64(idx)
	dec, err := NewDecoder(cfg)
	if err != nil {
		return err
	}
	if onToken != nil {
		dec.OnToken = func(step, token int) { onToken(idx, step, token) }
	}

	seq, err := dec.Run(ctx, safeModel{e.model}, prefix)
	if err != nil {
		return fmt.Errorf("sample %d: %w", idx+1, err)
	}

	*out = Sample{Index: idx, Tokens: seq, Text: e.tok.Render(seq)}
	return nil
}

// safeModel converts panics from an externally supplied Model into errors.
// The conversion happens at the engine boundary only; the decoding core
// assumes a well-behaved model.
type safeModel struct {
	m Model
}

func (s safeModel) ContextSize() int { return s.m.ContextSize() }

func (s safeModel) Logits(ctx context.Context, window []int) (logs []float32, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in model query: %v", rec)
		}
	}()
	return s.m.Logits(ctx, window)
}
