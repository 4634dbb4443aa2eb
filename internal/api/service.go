package api

import (
	"context"
	"time"

	"github.com/loomlm/loom/internal/inference"
)

// GenerateService turns API requests into engine calls.
type GenerateService struct {
	provider EngineProvider
}

func NewGenerateService(provider EngineProvider) *GenerateService {
	return &GenerateService{provider: provider}
}

// StreamWriter receives the events of one streaming generation. EmitToken
// may be called from multiple goroutines when samples run in parallel.
type StreamWriter interface {
	EmitToken(sample, step, token int, text string) error
	Complete(resp GenerateResponse) error
	Failed(err error) error
	Started() bool
}

// maxPromptBytes caps request prompts well above any realistic use.
const maxPromptBytes = 1 << 16

// CreateGeneration runs one generation. When stream is non-nil every
// sampled token is forwarded to it and the finished response goes out as
// the terminal event; the returned response is the same either way.
func (s *GenerateService) CreateGeneration(ctx context.Context, req *GenerateRequest, stream StreamWriter) (*GenerateResponse, error) {
	if len(req.Prompt) > maxPromptBytes {
		return nil, invalidRequestf("prompt exceeds %d bytes", maxPromptBytes)
	}

	resp := &GenerateResponse{
		ID:      newGenerationID(),
		Object:  "generation",
		Created: timeNow().Unix(),
		Prompt:  req.Prompt,
	}

	err := s.provider.WithEngine(ctx, func(gen Generator, defaults inference.Defaults) error {
		infReq := inference.ResolveRequest(toRequestOptions(req), defaults)

		var onToken inference.TokenFunc
		if stream != nil {
			tok := gen.Tokenizer()
			onToken = func(sample, step, token int) {
				_ = stream.EmitToken(sample, step, token, tok.PieceText(token))
			}
		}

		result, genErr := gen.Generate(ctx, infReq, onToken)
		if genErr != nil {
			return genErr
		}

		resp.Samples = make([]GeneratedSample, len(result.Samples))
		for i, sample := range result.Samples {
			resp.Samples[i] = GeneratedSample{
				Index:  sample.Index,
				Tokens: sample.Tokens,
				Text:   sample.Text,
			}
		}
		resp.Stats = GenerateStats{
			TokensGenerated: result.Stats.TokensGenerated,
			DurationMS:      result.Stats.Duration.Milliseconds(),
			TokensPerSecond: result.Stats.TPS,
		}
		return nil
	})
	if err != nil {
		if stream != nil {
			_ = stream.Failed(err)
		}
		return nil, err
	}

	if stream != nil {
		if err := stream.Complete(*resp); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

var timeNow = func() time.Time {
	return time.Now()
}

func toRequestOptions(req *GenerateRequest) inference.RequestOptions {
	return inference.RequestOptions{
		Prefix:            req.Prompt,
		Samples:           req.Samples,
		Parallel:          req.Parallel,
		Length:            req.Length,
		Temperature:       req.Temperature,
		TopK:              req.TopK,
		TopP:              req.TopP,
		RepetitionPenalty: req.RepetitionPenalty,
		Seed:              req.Seed,
	}
}
