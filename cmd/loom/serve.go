package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/loomlm/loom/internal/api"
	"github.com/loomlm/loom/internal/inference"
	"github.com/loomlm/loom/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
	)

	flags := append([]cli.Flag{}, modelFlags()...)
	flags = append(flags, samplingFlags()...)
	flags = append(flags, loggingFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "listen address",
			Value:       "127.0.0.1:11435",
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "read-timeout",
			Usage:       "HTTP read header timeout",
			Value:       30 * time.Second,
			Destination: &readTimeout,
		},
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the generation REST API",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := LoadConfig()
			applyGenerateConfig(c, cfg)
			applyServeConfig(c, cfg, &addr)

			log, err := setupLogger()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			ctx = logger.WithContext(ctx, log)

			vocab := resolveVocabPath(vocabPath, cfg.VocabFile)
			hidden := int(hiddenSize)
			provider := api.NewLazyEngineProvider(func() (api.Generator, error) {
				engine, tok, err := buildEngine(vocab, hidden)
				if err != nil {
					return nil, err
				}
				log.Info("engine initialized", "vocab_size", tok.Size(), "hidden", hidden)
				return engine, nil
			}, generationDefaults())

			server := api.NewServer(api.NewGenerateService(provider))

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("starting server", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(s *http.Server) error {
					s.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}

// generationDefaults exposes the sampling flags as server-wide defaults.
// Request fields override them; out-of-range flag values fall back to the
// built-in baseline rather than failing every request.
func generationDefaults() inference.Defaults {
	length := int(genLength)
	samples := int(genSamples)
	parallel := int(genParallel)
	topK := int(genTopK)
	return inference.Defaults{
		Length:            &length,
		Samples:           &samples,
		Parallel:          &parallel,
		Temperature:       &genTemperature,
		TopK:              &topK,
		TopP:              &genTopP,
		RepetitionPenalty: &genRepeatPenalty,
		Seed:              &genSeed,
	}
}
