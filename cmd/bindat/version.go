package main

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/urfave/cli/v3"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := cmd.Root().Writer
			_, _ = fmt.Fprintf(out, "version:    %s\n", version)
			_, _ = fmt.Fprintf(out, "go:         %s\n", runtime.Version())
			if info, ok := debug.ReadBuildInfo(); ok {
				for _, s := range info.Settings {
					if s.Key == "vcs.revision" {
						_, _ = fmt.Fprintf(out, "commit:     %s\n", s.Value)
					}
				}
			}

			return nil
		},
	}
}
