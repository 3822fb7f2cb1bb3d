package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/bindat/store"
)

func (a *app) convertCmd() *cli.Command {
	var compression string

	return &cli.Command{
		Name:      "convert",
		Usage:     "Rewrite a container file with a different whole-file compression",
		ArgsUsage: "IN OUT",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "compression", Usage: "whole-file compression (none, zstd, s2, lz4); default from config or extension", Destination: &compression},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 2, "IN OUT"); err != nil {
				return err
			}
			inPath, outPath := cmd.Args().Get(0), cmd.Args().Get(1)

			c, info, err := store.ReadFileInfo(inPath, a.readOptions()...)
			if err != nil {
				return fmt.Errorf("read %s: %w", inPath, err)
			}

			opts, err := a.compression(cmd, compression)
			if err != nil {
				return err
			}
			opts = append(opts,
				store.WithEncoderOptions(a.cfg.EncoderOptions()...),
				store.WithLogger(a.log),
			)

			stats, err := store.WriteFile(outPath, c, opts...)
			if err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}

			_, err = fmt.Fprintf(a.stdout, "%s (%s, %d bytes) -> %s (%s, %d bytes): ratio %.3f, %.1f%% saved\n",
				inPath, info.Compression, info.Size,
				outPath, stats.Algorithm, stats.CompressedSize,
				stats.CompressionRatio(), stats.SpaceSavings())

			return err
		},
	}
}
