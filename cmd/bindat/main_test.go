package main

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/bindat/compress"
	"github.com/arloliu/bindat/format"
	"github.com/arloliu/bindat/store"
)

const sampleInput = `{
  "metadata": {"sample": "GaAs", "run": 12},
  "datasets": [[1.5, -2, 3], [], ["NaN", 4]]
}`

// runCLI runs the command line with args and returns stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home)

	var stdout, stderr bytes.Buffer
	cmd := newApp(strings.NewReader(stdin), &stdout, &stderr)
	err := cmd.Run(context.Background(), append([]string{"bindat"}, args...))

	return stdout.String(), err
}

func TestPackInspect(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sample.bindat.zst")

	stdout, err := runCLI(t, sampleInput, "pack", "--out", out)
	require.NoError(t, err)
	require.Contains(t, stdout, "3 datasets")

	c, info, err := store.ReadFileInfo(out)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, info.Compression)
	require.Equal(t, 3, c.Len())
	require.True(t, math.IsNaN(c.Datasets[2][0]))

	t.Run("json", func(t *testing.T) {
		stdout, err := runCLI(t, "", "inspect", "--output", "json", out)
		require.NoError(t, err)

		var report inspectReport
		require.NoError(t, json.Unmarshal([]byte(stdout), &report))
		require.Equal(t, "Zstd", report.Compression)
		require.Equal(t, 5, report.TotalValues)
		require.Len(t, report.Datasets, 3)
		require.InDelta(t, -2.0, *report.Datasets[0].Min, 0)
		require.InDelta(t, 3.0, *report.Datasets[0].Max, 0)
		require.Nil(t, report.Datasets[1].Min)
		require.Equal(t, 1, report.Datasets[2].NonFinite)
		require.Len(t, report.Fingerprint, 16)
	})

	t.Run("yaml", func(t *testing.T) {
		stdout, err := runCLI(t, "", "inspect", "-o", "yaml", out)
		require.NoError(t, err)

		var report map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &report))
		md, ok := report["metadata"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, 12, md["run"])
	})

	t.Run("text", func(t *testing.T) {
		stdout, err := runCLI(t, "", "inspect", out)
		require.NoError(t, err)
		require.Contains(t, stdout, "compression:  Zstd")
		require.Contains(t, stdout, "[0] length=3 min=-2 max=3")
		require.Contains(t, stdout, `"sample": "GaAs"`)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := runCLI(t, "", "inspect", "-o", "xml", out)
		require.Error(t, err)
	})
}

func TestPack_FromFileWithAssignID(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(in, []byte(sampleInput), 0o600))
	out := filepath.Join(dir, "out.bindat")

	_, err := runCLI(t, "", "pack", "--in", in, "--out", out, "--assign-id", "--compression", "lz4")
	require.NoError(t, err)

	c, info, err := store.ReadFileInfo(out)
	require.NoError(t, err)
	require.Equal(t, format.CompressionLZ4, info.Compression)

	md, ok := c.Metadata.(map[string]any)
	require.True(t, ok)
	id, ok := md["id"].(string)
	require.True(t, ok)
	require.Len(t, id, 36)
}

func TestDump(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dump.bindat")
	_, err := runCLI(t, sampleInput, "pack", "--out", out)
	require.NoError(t, err)

	stdout, err := runCLI(t, "", "dump", out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Equal(t, []string{"[1.5 -2 3]", "3", "[]", "0", "[NaN 4]", "2"}, lines[len(lines)-6:])
	require.Equal(t, "{", lines[0])

	stdout, err = runCLI(t, "", "dump", "--dataset", "0", "--limit", "2", "--scale", "2", out)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(stdout, "[3 -4 ... (1 more)]\n3\n"), stdout)

	for _, idx := range []string{"9", "-2", "-5"} {
		stdout, err = runCLI(t, "", "dump", "--dataset="+idx, out)
		require.ErrorContains(t, err, "out of range", "dataset %s", idx)
		require.Empty(t, stdout, "dataset %s", idx)
	}
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.bindat")
	_, err := runCLI(t, sampleInput, "pack", "--out", src)
	require.NoError(t, err)

	dst := filepath.Join(dir, "b.bindat")
	stdout, err := runCLI(t, "", "convert", "--compression", "s2", src, dst)
	require.NoError(t, err)
	require.Contains(t, stdout, "S2")

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, format.CompressionS2, compress.Detect(data))

	_, err = runCLI(t, "", "convert", src)
	require.Error(t, err)
}

func TestConfigFileCompression(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bindat.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("compression = \"zstd\"\ncompact_metadata = true\n"), 0o600))

	out := filepath.Join(dir, "c.bindat")
	_, err := runCLI(t, sampleInput, "--config", cfgPath, "pack", "--out", out)
	require.NoError(t, err)

	_, info, err := store.ReadFileInfo(out)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, info.Compression)

	// An explicit flag beats the config file.
	out2 := filepath.Join(dir, "d.bindat")
	_, err = runCLI(t, sampleInput, "--config", cfgPath, "pack", "--out", out2, "--compression", "none")
	require.NoError(t, err)

	_, info, err = store.ReadFileInfo(out2)
	require.NoError(t, err)
	require.Equal(t, format.CompressionNone, info.Compression)
}

func TestGlobalFlagErrors(t *testing.T) {
	_, err := runCLI(t, "", "--log-level", "loud", "version")
	require.Error(t, err)

	_, err = runCLI(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "version")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	stdout, err := runCLI(t, "", "version")
	require.NoError(t, err)
	require.Contains(t, stdout, "version:    dev")
}

func TestParsePackInput(t *testing.T) {
	c, err := parsePackInput([]byte(`{"datasets": [["inf", "-Infinity", 0]]}`))
	require.NoError(t, err)
	require.Nil(t, c.Metadata)
	require.Equal(t, []float64{math.Inf(1), math.Inf(-1), 0}, c.Datasets[0])

	_, err = parsePackInput([]byte(`{"datasets": [["lots"]]}`))
	require.Error(t, err)

	_, err = parsePackInput([]byte(`{"metadata": `))
	require.Error(t, err)
}

func TestAssignID(t *testing.T) {
	c, err := parsePackInput([]byte(`{"metadata": {"id": "keep"}}`))
	require.NoError(t, err)
	_, ok := assignID(c)
	require.False(t, ok)
	require.Equal(t, "keep", c.Metadata.(map[string]any)["id"])

	c, err = parsePackInput([]byte(`{"metadata": [1, 2]}`))
	require.NoError(t, err)
	_, ok = assignID(c)
	require.False(t, ok)
}

func TestFormatValues(t *testing.T) {
	require.Equal(t, "[]", formatValues(nil, 0, 1))
	require.Equal(t, "[1 2]", formatValues([]float64{1, 2}, 5, 1))
	require.Equal(t, "[2 ... (2 more)]", formatValues([]float64{1, 2, 3}, 1, 2))
}
