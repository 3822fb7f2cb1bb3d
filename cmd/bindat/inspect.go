package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/bindat/container"
	"github.com/arloliu/bindat/internal/hash"
	"github.com/arloliu/bindat/metadata"
	"github.com/arloliu/bindat/store"
)

type datasetSummary struct {
	Index     int      `json:"index" yaml:"index"`
	Length    int      `json:"length" yaml:"length"`
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	NonFinite int      `json:"non_finite,omitempty" yaml:"non_finite,omitempty"`
}

type inspectReport struct {
	Path        string           `json:"path" yaml:"path"`
	Size        int64            `json:"size" yaml:"size"`
	Compression string           `json:"compression" yaml:"compression"`
	Fingerprint string           `json:"fingerprint" yaml:"fingerprint"`
	TotalValues int              `json:"total_values" yaml:"total_values"`
	Metadata    any              `json:"metadata" yaml:"metadata"`
	Datasets    []datasetSummary `json:"datasets" yaml:"datasets"`
}

func (a *app) inspectCmd() *cli.Command {
	var output string

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Show metadata, dataset statistics and fingerprint of a container file",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output format (text, json, yaml)",
				Value:       "text",
				Destination: &output,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1, "FILE"); err != nil {
				return err
			}

			path := cmd.Args().First()
			c, info, err := store.ReadFileInfo(path, a.readOptions()...)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			sum, err := container.Fingerprint(c)
			if err != nil {
				return fmt.Errorf("fingerprint: %w", err)
			}

			report := inspectReport{
				Path:        path,
				Size:        info.Size,
				Compression: info.Compression.String(),
				Fingerprint: hash.Hex(sum),
				TotalValues: c.TotalValues(),
				Metadata:    c.Metadata,
				Datasets:    summarize(c),
			}

			return writeReport(a.stdout, report, output)
		},
	}
}

func summarize(c *container.Container) []datasetSummary {
	out := make([]datasetSummary, c.Len())
	for i, ds := range c.Datasets {
		s := datasetSummary{Index: i, Length: len(ds)}
		for _, v := range ds {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				s.NonFinite++
				continue
			}
			if s.Min == nil {
				lo, hi := v, v
				s.Min, s.Max = &lo, &hi
				continue
			}
			*s.Min = min(*s.Min, v)
			*s.Max = max(*s.Max, v)
		}
		out[i] = s
	}

	return out
}

func writeReport(w io.Writer, report inspectReport, output string) error {
	switch strings.ToLower(output) {
	case "json":
		data, err := json.MarshalIndent(report, "", metadata.DefaultIndent)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))

		return err
	case "yaml", "yml":
		report.Metadata = plainValue(report.Metadata)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}

		return enc.Close()
	case "text", "":
		return writeText(w, report)
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", output)
	}
}

func writeText(w io.Writer, report inspectReport) error {
	text, err := metadata.Render(report.Metadata, "  ", metadata.DefaultIndent)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "file:         %s\n", report.Path)
	fmt.Fprintf(&b, "size:         %d bytes\n", report.Size)
	fmt.Fprintf(&b, "compression:  %s\n", report.Compression)
	fmt.Fprintf(&b, "fingerprint:  %s\n", report.Fingerprint)
	fmt.Fprintf(&b, "datasets:     %d (%d values)\n", len(report.Datasets), report.TotalValues)
	fmt.Fprintf(&b, "metadata:\n  %s\n", text)
	for _, ds := range report.Datasets {
		fmt.Fprintf(&b, "  [%d] length=%d", ds.Index, ds.Length)
		if ds.Min != nil {
			fmt.Fprintf(&b, " min=%g max=%g", *ds.Min, *ds.Max)
		}
		if ds.NonFinite > 0 {
			fmt.Fprintf(&b, " non_finite=%d", ds.NonFinite)
		}
		b.WriteByte('\n')
	}

	_, err = io.WriteString(w, b.String())

	return err
}

// plainValue replaces json.Number values with int64 or float64 so YAML
// renders them as numbers rather than strings.
func plainValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}

		return string(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = plainValue(item)
		}

		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plainValue(item)
		}

		return out
	default:
		return v
	}
}
