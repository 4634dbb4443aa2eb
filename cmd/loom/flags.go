package main

import (
	"os"

	"github.com/urfave/cli/v3"

	"github.com/loomlm/loom/internal/logger"
)

var (
	vocabPath  string
	hiddenSize int64

	genLength        int64
	genSamples       int64
	genParallel      int64
	genTemperature   float64
	genTopK          int64
	genTopP          float64
	genRepeatPenalty float64
	genSeed          int64

	logLevel  string
	logFormat string
	debugLog  bool
)

func vocabFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "vocab",
		Usage:       "path to a one-piece-per-line vocabulary file (built-in demo vocabulary when unset)",
		Destination: &vocabPath,
	}
}

func modelFlags() []cli.Flag {
	return []cli.Flag{
		vocabFlag(),
		&cli.Int64Flag{
			Name:        "hidden",
			Usage:       "hidden width of the bundled demo model",
			Value:       64,
			Destination: &hiddenSize,
		},
	}
}

func samplingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "length",
			Aliases:     []string{"n"},
			Usage:       "number of tokens to generate (-1 = model context size)",
			Value:       80,
			Destination: &genLength,
		},
		&cli.Int64Flag{
			Name:        "samples",
			Aliases:     []string{"nsamples"},
			Usage:       "number of independent samples to generate",
			Value:       1,
			Destination: &genSamples,
		},
		&cli.Int64Flag{
			Name:        "parallel",
			Usage:       "samples generated concurrently (1 = sequential)",
			Value:       1,
			Destination: &genParallel,
		},
		&cli.Float64Flag{
			Name:        "temperature",
			Aliases:     []string{"temp", "t"},
			Usage:       "sampling temperature",
			Value:       1.0,
			Destination: &genTemperature,
		},
		&cli.Int64Flag{
			Name:        "top-k",
			Aliases:     []string{"top_k", "topk"},
			Usage:       "top-k sampling parameter (0 = disabled)",
			Value:       8,
			Destination: &genTopK,
		},
		&cli.Float64Flag{
			Name:        "top-p",
			Aliases:     []string{"top_p", "topp"},
			Usage:       "nucleus sampling parameter (0 = disabled)",
			Value:       0,
			Destination: &genTopP,
		},
		&cli.Float64Flag{
			Name:        "repetition-penalty",
			Aliases:     []string{"repetition_penalty", "repeat-penalty"},
			Usage:       "repetition penalty (1.0 = disabled)",
			Value:       1.0,
			Destination: &genRepeatPenalty,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "sampling RNG seed (default -1 = random)",
			Value:       -1,
			Destination: &genSeed,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debugLog,
		},
	}
}

// setupLogger builds the logger selected by the logging flags. Color is
// enabled only when stderr is a terminal.
func setupLogger() (logger.Logger, error) {
	level := logLevel
	if debugLog {
		level = "debug"
	}
	return logger.Setup(os.Stderr, logFormat, level, stderrIsTTY())
}
