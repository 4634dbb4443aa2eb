package main

import (
	"os"

	"github.com/loomlm/loom/internal/inference"
	"github.com/loomlm/loom/internal/tokenizer"
	"github.com/loomlm/loom/internal/toy"
)

// modelWeightSeed pins the demo model weights. Weights must not vary across
// processes or --seed could not reproduce a run.
const modelWeightSeed = 1234

// resolveVocabPath picks the vocabulary file: flag, then LOOM_VOCAB_FILE,
// then the config file. Empty means the built-in demo vocabulary.
func resolveVocabPath(flagPath, configPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if p := os.Getenv(envVocabFile); p != "" {
		return p
	}
	return configPath
}

// loadTokenizer loads the vocabulary at path, or the built-in demo
// vocabulary when path is empty.
func loadTokenizer(path string) (*tokenizer.Tokenizer, error) {
	if path == "" {
		return tokenizer.Demo(), nil
	}
	return tokenizer.LoadFile(path)
}

// buildEngine assembles the demo model and tokenizer into an engine.
func buildEngine(path string, hidden int) (*inference.Engine, *tokenizer.Tokenizer, error) {
	tok, err := loadTokenizer(path)
	if err != nil {
		return nil, nil, err
	}
	model := toy.New(tok.Size(), hidden, toy.DefaultContextSize, modelWeightSeed)
	return inference.NewEngine(model, tok), tok, nil
}

func isTTY(f *os.File) bool {
	st, err := f.Stat()
	if err != nil {
		return false
	}
	return (st.Mode() & os.ModeCharDevice) != 0
}

// stdinIsTTY is a variable so tests can fake terminal detection.
var stdinIsTTY = func() bool { return isTTY(os.Stdin) }

func stdoutIsTTY() bool { return isTTY(os.Stdout) }
func stderrIsTTY() bool { return isTTY(os.Stderr) }
