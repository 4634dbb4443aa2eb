package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/loomlm/loom/internal/inference"
)

// Generator is the slice of the inference engine the server needs.
type Generator interface {
	Generate(ctx context.Context, req inference.Request, onToken inference.TokenFunc) (*inference.Result, error)
	Tokenizer() inference.Tokenizer
}

// EngineProvider hands a ready engine and its configured generation
// defaults to fn, building the engine first if needed.
type EngineProvider interface {
	WithEngine(ctx context.Context, fn func(gen Generator, defaults inference.Defaults) error) error
}

// LazyEngineProvider builds the engine on first use and shares it across
// all later requests. Construction errors are cached too, so a broken
// vocabulary file fails every request the same way instead of retrying.
type LazyEngineProvider struct {
	build    func() (Generator, error)
	defaults inference.Defaults

	once sync.Once
	gen  Generator
	err  error
}

func NewLazyEngineProvider(build func() (Generator, error), defaults inference.Defaults) *LazyEngineProvider {
	return &LazyEngineProvider{build: build, defaults: defaults}
}

func (p *LazyEngineProvider) WithEngine(ctx context.Context, fn func(gen Generator, defaults inference.Defaults) error) error {
	p.once.Do(func() {
		p.gen, p.err = p.build()
		if p.err != nil {
			p.err = fmt.Errorf("initialize engine: %w", p.err)
		}
	})
	if p.err != nil {
		return p.err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(p.gen, p.defaults)
}
