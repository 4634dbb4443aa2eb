package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/loomlm/loom/internal/inference"
	"github.com/loomlm/loom/internal/toy"
)

func benchCmd() *cli.Command {
	var (
		steps     int64
		runs      int64
		warmup    int64
		vocabSize int64
		seed      int64
	)

	flags := []cli.Flag{
		&cli.Int64Flag{
			Name:        "steps",
			Usage:       "tokens generated per run",
			Value:       128,
			Destination: &steps,
		},
		&cli.Int64Flag{
			Name:        "runs",
			Usage:       "timed runs per profile",
			Value:       3,
			Destination: &runs,
		},
		&cli.Int64Flag{
			Name:        "warmup",
			Usage:       "untimed warmup runs per profile",
			Value:       1,
			Destination: &warmup,
		},
		&cli.Int64Flag{
			Name:        "vocab-size",
			Usage:       "vocabulary size of the benchmark model",
			Value:       4096,
			Destination: &vocabSize,
		},
		&cli.Int64Flag{
			Name:        "hidden",
			Usage:       "hidden width of the benchmark model",
			Value:       64,
			Destination: &hiddenSize,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "base RNG seed",
			Value:       42,
			Destination: &seed,
		},
	}

	return &cli.Command{
		Name:  "bench",
		Usage: "Benchmark the sampling pipeline against the bundled model",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if vocabSize < 2 {
				return cli.Exit("error: vocab-size must be at least 2", 1)
			}
			if steps < 1 {
				return cli.Exit("error: steps must be at least 1", 1)
			}

			model := toy.New(int(vocabSize), int(hiddenSize), toy.DefaultContextSize, modelWeightSeed)
			prefix := []int{1, 2, 3}

			profiles := []struct {
				name string
				cfg  inference.GenerationConfig
			}{
				{"greedy", inference.GenerationConfig{TopK: 1, Temperature: 0.7, RepetitionPenalty: 1.2}},
				{"topk-8", inference.GenerationConfig{TopK: 8, Temperature: 1, RepetitionPenalty: 1}},
				{"topp-0.9", inference.GenerationConfig{TopP: 0.9, Temperature: 1, RepetitionPenalty: 1}},
			}

			fmt.Println("=== loom bench ===")
			fmt.Printf("Vocab:      %d\n", vocabSize)
			fmt.Printf("Hidden:     %d\n", hiddenSize)
			fmt.Printf("Context:    %d\n", model.ContextSize())
			fmt.Printf("CPUs:       %d\n", runtime.NumCPU())
			fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
			fmt.Printf("Steps:      %d tokens\n", steps)
			fmt.Printf("Warmup:     %d runs\n", warmup)
			fmt.Printf("Runs:       %d\n", runs)
			fmt.Println()

			fmt.Println("=== Results ===")
			fmt.Printf("%-10s %10s %10s %10s\n", "Profile", "Min", "Avg", "Max")
			fmt.Printf("%-10s %10s %10s %10s\n", "---", "tok/s", "tok/s", "tok/s")

			for _, p := range profiles {
				cfg := p.cfg
				cfg.Length = int(steps)
				cfg.ContextSize = model.ContextSize()
				cfg.UnknownID = -1

				for i := range int(warmup) {
					cfg.Seed = seed + int64(i)
					if _, err := inference.Decode(ctx, model, prefix, cfg); err != nil {
						return cli.Exit(fmt.Sprintf("error: %s warmup run %d: %v", p.name, i+1, err), 1)
					}
				}

				tps := make([]float64, 0, runs)
				for i := range int(runs) {
					cfg.Seed = seed + warmup + int64(i)
					start := time.Now()
					if _, err := inference.Decode(ctx, model, prefix, cfg); err != nil {
						return cli.Exit(fmt.Sprintf("error: %s run %d: %v", p.name, i+1, err), 1)
					}
					if elapsed := time.Since(start).Seconds(); elapsed > 0 {
						tps = append(tps, float64(steps)/elapsed)
					}
				}

				lo, avg, hi := summarize(tps)
				fmt.Printf("%-10s %10.1f %10.1f %10.1f\n", p.name, lo, avg, hi)
			}

			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)
			fmt.Printf("\nMemory: %.1f MB alloc, %.1f MB sys\n",
				float64(mem.Alloc)/(1024*1024),
				float64(mem.Sys)/(1024*1024))

			return nil
		},
	}
}

func summarize(vals []float64) (lo, avg, hi float64) {
	if len(vals) == 0 {
		return 0, 0, 0
	}
	lo, hi = vals[0], vals[0]
	sum := 0.0
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		sum += v
	}
	return lo, sum / float64(len(vals)), hi
}
