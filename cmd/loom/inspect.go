package main

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/urfave/cli/v3"

	"github.com/loomlm/loom/internal/tokenizer"
)

func inspectCmd() *cli.Command {
	var limit int64

	flags := []cli.Flag{
		vocabFlag(),
		&cli.Int64Flag{
			Name:        "pieces",
			Usage:       "leading and trailing pieces to list (0 = none)",
			Value:       10,
			Destination: &limit,
		},
	}

	return &cli.Command{
		Name:  "inspect",
		Usage: "Inspect a vocabulary",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := LoadConfig()
			path := resolveVocabPath(vocabPath, cfg.VocabFile)
			tok, err := loadTokenizer(path)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load vocabulary: %v", err), 1)
			}

			source := path
			if source == "" {
				source = "built-in demo"
			}

			fmt.Printf("Vocabulary:    %s\n", source)
			fmt.Printf("Pieces:        %d\n", tok.Size())
			fmt.Printf("Reserved:      %s\n", reservedSummary(tok))

			continuations := 0
			var lengths [9]int
			for id := 0; id < tok.Size(); id++ {
				p := tok.Piece(id)
				if strings.HasPrefix(p, "##") {
					continuations++
					p = p[2:]
				}
				n := utf8.RuneCountInString(p)
				if n > 8 {
					n = 8
				}
				lengths[n]++
			}
			fmt.Printf("Continuations: %d\n", continuations)

			fmt.Println("Piece length (runes):")
			for n, count := range lengths {
				if count == 0 {
					continue
				}
				label := fmt.Sprintf("%d", n)
				if n == 8 {
					label = "8+"
				}
				fmt.Printf("  %3s: %d\n", label, count)
			}

			if limit > 0 {
				n := int(limit)
				if n > tok.Size() {
					n = tok.Size()
				}
				fmt.Printf("First %d pieces:\n", n)
				for id := 0; id < n; id++ {
					fmt.Printf("  %5d  %s\n", id, tok.Piece(id))
				}
				fmt.Printf("Last %d pieces:\n", n)
				for id := tok.Size() - n; id < tok.Size(); id++ {
					fmt.Printf("  %5d  %s\n", id, tok.Piece(id))
				}
			}

			return nil
		},
	}
}

// reservedSummary lists the reserved marker pieces present in the
// vocabulary with their ids.
func reservedSummary(tok *tokenizer.Tokenizer) string {
	entries := []struct {
		name string
		id   int
	}{
		{"[PAD]", tok.PadID()},
		{"[UNK]", tok.UnknownID()},
		{"[CLS]", tok.ClassID()},
		{"[SEP]", tok.SeparatorID()},
		{"[MASK]", tok.MaskID()},
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.id < 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%d", e.name, e.id))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}
