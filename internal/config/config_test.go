package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bindat/container"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, DefaultServeAddr, cfg.Serve.Addr)
	require.Equal(t, container.DefaultMaxHeaderSize, cfg.MaxHeaderSize)

	timeout, err := cfg.Serve.Timeout()
	require.NoError(t, err)
	require.Equal(t, DefaultReadTimeout, timeout)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "bindat.yaml", `
log_level: debug
log_format: json
compression: zstd
compact_metadata: true
max_dataset_len: 1000
serve:
  addr: 127.0.0.1:9000
  read_timeout: 3s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, "zstd", cfg.Compression)
	require.True(t, cfg.CompactMetadata)
	require.Equal(t, uint64(1000), cfg.MaxDatasetLen)
	require.Equal(t, "127.0.0.1:9000", cfg.Serve.Addr)
	require.Equal(t, DefaultServeDir, cfg.Serve.Dir, "unset keys keep defaults")

	timeout, err := cfg.Serve.Timeout()
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, timeout)

	require.Len(t, cfg.EncoderOptions(), 1)
	require.Len(t, cfg.DecoderOptions(), 2)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "bindat.toml", `
log_level = "warn"
compression = "lz4"

[serve]
dir = "/srv/data"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, "lz4", cfg.Compression)
	require.Equal(t, "/srv/data", cfg.Serve.Dir)
	require.Equal(t, DefaultServeAddr, cfg.Serve.Addr)
	require.Empty(t, cfg.EncoderOptions())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad level", "a.yaml", "log_level: loud\n"},
		{"bad format", "a.yml", "log_format: xml\n"},
		{"bad compression", "a.yaml", "compression: brotli\n"},
		{"bad timeout", "a.yaml", "serve:\n  read_timeout: soon\n"},
		{"negative timeout", "a.yaml", "serve:\n  read_timeout: -1s\n"},
		{"empty addr", "a.toml", "[serve]\naddr = \"\"\n"},
		{"unknown toml key", "a.toml", "colour = \"red\"\n"},
		{"malformed yaml", "a.yaml", "log_level: [\n"},
		{"unsupported extension", "a.ini", "x=1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOptional(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	cfg, err = LoadOptional("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	cfg, err = LoadOptional(writeFile(t, "c.yaml", "log_level: error\n"))
	require.NoError(t, err)
	require.Equal(t, "error", cfg.LogLevel)
}
