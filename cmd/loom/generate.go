package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/loomlm/loom/internal/inference"
	"github.com/loomlm/loom/internal/logger"
)

func generateCmd() *cli.Command {
	var (
		prefix      string
		stream      bool
		interactive bool
		quiet       bool
	)

	flags := append([]cli.Flag{}, modelFlags()...)
	flags = append(flags, samplingFlags()...)
	flags = append(flags, loggingFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "prefix",
			Aliases:     []string{"p"},
			Usage:       "text the generation continues from",
			Value:       "Hello",
			Destination: &prefix,
		},
		&cli.BoolFlag{
			Name:        "stream",
			Usage:       "print tokens as they are sampled (forces a single sample)",
			Destination: &stream,
		},
		&cli.BoolFlag{
			Name:        "interactive",
			Aliases:     []string{"i"},
			Usage:       "read prefixes from a prompt loop",
			Destination: &interactive,
		},
		&cli.BoolFlag{
			Name:        "quiet",
			Aliases:     []string{"q"},
			Usage:       "suppress the progress line and run stats",
			Destination: &quiet,
		},
	)

	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"gen"},
		Usage:     "Generate text samples from a prefix",
		ArgsUsage: "[prefix...]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := LoadConfig()
			applyGenerateConfig(c, cfg)

			log, err := setupLogger()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			ctx = logger.WithContext(ctx, log)

			// Trailing arguments win over --prefix.
			if args := c.Args().Slice(); len(args) > 0 {
				prefix = strings.Join(args, " ")
			}

			engine, tok, err := buildEngine(resolveVocabPath(vocabPath, cfg.VocabFile), int(hiddenSize))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load vocabulary: %v", err), 1)
			}
			log.Debug("engine ready",
				"vocab_size", tok.Size(),
				"context_size", engine.Model().ContextSize(),
				"hidden", hiddenSize)

			if interactive {
				return runInteractive(ctx, engine, stream, quiet)
			}
			return runGenerate(ctx, engine, prefix, stream, quiet)
		},
	}
}

func runGenerate(ctx context.Context, engine *inference.Engine, prefix string, stream, quiet bool) error {
	req := inference.ResolveRequest(generationOptions(prefix), inference.Defaults{})
	if stream {
		req.Samples = 1
		req.Parallel = 1
	}

	log := logger.FromContext(ctx)
	log.Debug("generation request",
		"length", req.Length,
		"samples", req.Samples,
		"parallel", req.Parallel,
		"temperature", req.Temperature,
		"top_k", req.TopK,
		"top_p", req.TopP,
		"repetition_penalty", req.RepetitionPenalty,
		"seed", req.Seed)

	var onToken inference.TokenFunc
	var progress *progressDisplay

	switch {
	case stream:
		tok := engine.Tokenizer()
		onToken = func(_, _, token int) {
			fmt.Print(tok.PieceText(token))
		}
	case !quiet && req.Parallel == 1 && stderrIsTTY():
		total := req.Length
		if total == -1 {
			total = engine.Model().ContextSize()
		}
		progress = newProgressDisplay(os.Stderr, req.Samples, total)
		onToken = progress.observe
	}

	res, err := engine.Generate(ctx, req, onToken)
	if progress != nil {
		progress.finish()
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: generate: %v", err), 1)
	}

	if stream {
		fmt.Println()
	} else {
		printSamples(os.Stdout, res.Samples)
	}
	if !quiet {
		printStats(os.Stderr, res.Stats)
	}
	return nil
}

func runInteractive(ctx context.Context, engine *inference.Engine, stream, quiet bool) error {
	fmt.Fprintln(os.Stderr, "Interactive mode. Type exit or quit (or Ctrl+D) to leave.")
	for {
		line, err := readInteractiveLine("> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(os.Stderr)
				return nil
			}
			return cli.Exit(fmt.Sprintf("error: read input: %v", err), 1)
		}
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			return nil
		}
		if err := runGenerate(ctx, engine, text, stream, quiet); err != nil {
			return err
		}
	}
}

// generationOptions captures the sampling flags for one generation call.
// Flags resolve as explicit choices, so out-of-range values are rejected
// instead of silently replaced.
func generationOptions(prefix string) inference.RequestOptions {
	length := int(genLength)
	samples := int(genSamples)
	parallel := int(genParallel)
	topK := int(genTopK)
	return inference.RequestOptions{
		Prefix:            prefix,
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

// printSamples frames each sample the way the generator always has: 35 '='
// on either side of the one-based sample number, a blank line, the text,
// then a closing rule of 80 '=' after the last sample.
func printSamples(w io.Writer, samples []inference.Sample) {
	rule := strings.Repeat("=", 35)
	for _, s := range samples {
		fmt.Fprintf(w, "%s SAMPLE %d %s\n\n", rule, s.Index+1, rule)
		fmt.Fprintln(w, s.Text)
	}
	fmt.Fprintln(w, strings.Repeat("=", 80))
}

func printStats(w io.Writer, st inference.Stats) {
	fmt.Fprintf(w, "Stats: %d tokens in %s (%.2f tok/s)\n",
		st.TokensGenerated, st.Duration.Round(time.Millisecond), st.TPS)
}

var stdinReader = bufio.NewReader(os.Stdin)

// readPlainLine reads one line from stdin without terminal handling, for
// piped input and platforms without the raw-mode editor.
func readPlainLine() (string, error) {
	line, err := stdinReader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
