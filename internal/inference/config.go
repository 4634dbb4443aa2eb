package inference

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("inference: invalid generation config")

// GenerationConfig holds the immutable parameters of one generation run.
//
// Length is the exact number of tokens to generate; callers that support
// the -1 convention must resolve it to the model context size before
// building the config. UnknownID below zero disables suppression, for
// models whose vocabulary has no unknown marker. Seed feeds the sampler;
// equal seeds reproduce equal runs against a deterministic model.
type GenerationConfig struct {
	Length            int
	ContextSize       int
	Temperature       float32
	RepetitionPenalty float32
	TopK              int
	TopP              float32
	UnknownID         int
	Seed              int64
}

// Validate reports the first out-of-range field as an ErrInvalidConfig.
func (c GenerationConfig) Validate() error {
	switch {
	case c.Length <= 0:
		return fmt.Errorf("%w: length must be positive, got %d", ErrInvalidConfig, c.Length)
	case c.ContextSize <= 0:
		return fmt.Errorf("%w: context size must be positive, got %d", ErrInvalidConfig, c.ContextSize)
	case c.Temperature <= 0:
		return fmt.Errorf("%w: temperature must be positive, got %v", ErrInvalidConfig, c.Temperature)
	case c.RepetitionPenalty <= 0:
		return fmt.Errorf("%w: repetition penalty must be positive, got %v", ErrInvalidConfig, c.RepetitionPenalty)
	case c.TopK < 0:
		return fmt.Errorf("%w: top-k must be non-negative, got %d", ErrInvalidConfig, c.TopK)
	case c.TopP < 0 || c.TopP > 1:
		return fmt.Errorf("%w: top-p must be within [0,1], got %v", ErrInvalidConfig, c.TopP)
	}
	return nil
}
