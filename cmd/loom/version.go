package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/loomlm/loom/internal/version"
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info := version.Resolve()
			switch {
			case info.Commit != "" && info.BuildTime != "":
				fmt.Printf("loom %s (%s, %s)\n", info.Version, info.ShortCommit(), info.BuildTime)
			case info.Commit != "":
				fmt.Printf("loom %s (%s)\n", info.Version, info.ShortCommit())
			default:
				fmt.Printf("loom %s\n", info.Version)
			}
			return nil
		},
	}
}
