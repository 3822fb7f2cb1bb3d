package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/bindat/metadata"
	"github.com/arloliu/bindat/store"
)

func (a *app) dumpCmd() *cli.Command {
	var (
		dataset int
		limit   int
		scale   float64
	)

	return &cli.Command{
		Name:      "dump",
		Usage:     "Print the metadata, then every dataset followed by its length",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "dataset", Usage: "only print this dataset index (-1 = all)", Value: -1, Destination: &dataset},
			&cli.IntFlag{Name: "limit", Usage: "print at most this many values per dataset (0 = no limit)", Destination: &limit},
			&cli.Float64Flag{Name: "scale", Usage: "multiply printed values by this factor", Value: 1, Destination: &scale},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1, "FILE"); err != nil {
				return err
			}

			path := cmd.Args().First()
			c, err := store.ReadFile(path, a.readOptions()...)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			if dataset < -1 || dataset >= c.Len() {
				return fmt.Errorf("dataset %d out of range (%d datasets)", dataset, c.Len())
			}

			text, err := metadata.Render(c.Metadata, "", metadata.DefaultIndent)
			if err != nil {
				return err
			}

			var b strings.Builder
			b.Write(text)
			b.WriteByte('\n')
			for i, ds := range c.Datasets {
				if dataset >= 0 && i != dataset {
					continue
				}
				b.WriteString(formatValues(ds, limit, scale))
				b.WriteByte('\n')
				b.WriteString(strconv.Itoa(len(ds)))
				b.WriteByte('\n')
			}

			_, err = fmt.Fprint(a.stdout, b.String())

			return err
		},
	}
}

// formatValues renders values as "[v0 v1 ...]", truncated to limit values
// when limit is positive.
func formatValues(values []float64, limit int, scale float64) string {
	shown := values
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	var b strings.Builder
	b.WriteByte('[')
	for i, v := range shown {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(v*scale, 'g', -1, 64))
	}
	if len(shown) < len(values) {
		fmt.Fprintf(&b, " ... (%d more)", len(values)-len(shown))
	}
	b.WriteByte(']')

	return b.String()
}
