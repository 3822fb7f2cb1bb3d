package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/arloliu/bindat/container"
	"github.com/arloliu/bindat/metadata"
	"github.com/arloliu/bindat/store"
)

// packInput is the JSON document accepted by pack.
type packInput struct {
	Metadata json.RawMessage `json:"metadata"`
	Datasets [][]packValue   `json:"datasets"`
}

// packValue is a float64 that also accepts the strings "NaN", "Inf",
// "+Inf", "-Inf", "Infinity" and "-Infinity", which plain JSON cannot carry.
type packValue float64

func (v *packValue) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		switch strings.ToLower(s) {
		case "nan":
			*v = packValue(math.NaN())
		case "inf", "+inf", "infinity", "+infinity":
			*v = packValue(math.Inf(1))
		case "-inf", "-infinity":
			*v = packValue(math.Inf(-1))
		default:
			return fmt.Errorf("invalid dataset value %q", s)
		}

		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = packValue(f)

	return nil
}

// parsePackInput builds a container from a pack input document.
func parsePackInput(data []byte) (*container.Container, error) {
	var in packInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}

	c := container.New()
	if len(in.Metadata) > 0 {
		doc, err := metadata.Parse(in.Metadata)
		if err != nil {
			return nil, fmt.Errorf("parse input metadata: %w", err)
		}
		c.SetMetadata(doc)
	}

	for _, raw := range in.Datasets {
		ds := make([]float64, len(raw))
		for i, v := range raw {
			ds[i] = float64(v)
		}
		c.Append(ds)
	}

	return c, nil
}

// assignID stores a random UUID under "id" when the metadata is an object
// without one. It reports whether an id was added.
func assignID(c *container.Container) (string, bool) {
	obj, ok := c.Metadata.(map[string]any)
	if !ok {
		return "", false
	}
	if _, exists := obj["id"]; exists {
		return "", false
	}

	id := uuid.NewString()
	obj["id"] = id

	return id, true
}

func (a *app) packCmd() *cli.Command {
	var (
		inPath      string
		outPath     string
		compression string
		assign      bool
	)

	return &cli.Command{
		Name:  "pack",
		Usage: `Build a container from {"metadata": ..., "datasets": [[...], ...]}`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Usage: "input JSON file (- for stdin)", Value: "-", Destination: &inPath},
			&cli.StringFlag{Name: "out", Usage: "output container file", Required: true, Destination: &outPath},
			&cli.StringFlag{Name: "compression", Usage: "whole-file compression (none, zstd, s2, lz4); default from config or extension", Destination: &compression},
			&cli.BoolFlag{Name: "assign-id", Usage: "add a random UUID as metadata.id when missing", Destination: &assign},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			data, err := a.readInput(inPath)
			if err != nil {
				return fmt.Errorf("read %s: %w", inPath, err)
			}

			c, err := parsePackInput(data)
			if err != nil {
				return err
			}

			if assign {
				if id, ok := assignID(c); ok {
					a.log.Info().Str("id", id).Msg("assigned container id")
				} else {
					a.log.Warn().Msg("metadata is not an object without id, --assign-id ignored")
				}
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

			_, err = fmt.Fprintf(a.stdout, "wrote %s: %d datasets, %d values, %d bytes (%s)\n",
				outPath, c.Len(), c.TotalValues(), stats.CompressedSize, stats.Algorithm)

			return err
		},
	}
}

func (a *app) readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(a.stdin)
	}

	return os.ReadFile(path)
}
