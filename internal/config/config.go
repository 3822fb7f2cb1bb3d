// Package config loads the bindat command line configuration file.
//
// YAML (.yaml, .yml) and TOML (.toml) files are supported. Values missing
// from the file keep their defaults, and command line flags that are set
// explicitly take precedence over both.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/bindat/container"
	"github.com/arloliu/bindat/format"
	"github.com/arloliu/bindat/internal/logger"
)

// Defaults.
const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = logger.FormatConsole
	DefaultServeAddr   = ":8080"
	DefaultServeDir    = "."
	DefaultReadTimeout = 10 * time.Second
)

// Config represents the bindat configuration file.
type Config struct {
	LogLevel  string `yaml:"log_level" toml:"log_level"`
	LogFormat string `yaml:"log_format" toml:"log_format"`

	// Compression is the default whole-file compression for pack and convert.
	// Empty means "derive from the output extension".
	Compression string `yaml:"compression" toml:"compression"`

	CompactMetadata bool   `yaml:"compact_metadata" toml:"compact_metadata"`
	MaxHeaderSize   int    `yaml:"max_header_size" toml:"max_header_size"`
	MaxDatasetLen   uint64 `yaml:"max_dataset_len" toml:"max_dataset_len"`

	Serve ServeConfig `yaml:"serve" toml:"serve"`
}

// ServeConfig holds the HTTP server settings.
type ServeConfig struct {
	Addr        string `yaml:"addr" toml:"addr"`
	Dir         string `yaml:"dir" toml:"dir"`
	ReadTimeout string `yaml:"read_timeout" toml:"read_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		MaxHeaderSize: container.DefaultMaxHeaderSize,
		Serve: ServeConfig{
			Addr:        DefaultServeAddr,
			Dir:         DefaultServeDir,
			ReadTimeout: DefaultReadTimeout.String(),
		},
	}
}

// DefaultPath returns ~/.config/bindat/config.yaml, or "" when the user
// config directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "bindat", "config.yaml")
}

// Load reads and validates the configuration file at path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	case ".toml":
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
		}
	default:
		return Config{}, fmt.Errorf("config load failed (%s): unsupported extension %q", path, filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}

	return cfg, nil
}

// LoadOptional loads path when it exists and returns Default otherwise.
func LoadOptional(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return Load(path)
}

// Validate checks every field that has a restricted set of values.
func (c Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	switch strings.ToLower(c.LogFormat) {
	case "", logger.FormatConsole, logger.FormatJSON:
	default:
		return fmt.Errorf("log_format must be %s or %s, got %q", logger.FormatConsole, logger.FormatJSON, c.LogFormat)
	}

	if _, err := format.ParseCompressionType(c.Compression); err != nil {
		return fmt.Errorf("compression: %w", err)
	}

	if c.MaxHeaderSize < 0 {
		return fmt.Errorf("max_header_size must not be negative, got %d", c.MaxHeaderSize)
	}

	if strings.TrimSpace(c.Serve.Addr) == "" {
		return errors.New("serve.addr is required")
	}

	if _, err := c.Serve.Timeout(); err != nil {
		return err
	}

	return nil
}

// Timeout returns the parsed request header read timeout, or the default when unset.
func (s ServeConfig) Timeout() (time.Duration, error) {
	if strings.TrimSpace(s.ReadTimeout) == "" {
		return DefaultReadTimeout, nil
	}

	d, err := time.ParseDuration(strings.TrimSpace(s.ReadTimeout))
	if err != nil {
		return 0, fmt.Errorf("serve.read_timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("serve.read_timeout must be positive, got %s", d)
	}

	return d, nil
}

// EncoderOptions returns the container encoder options implied by c.
func (c Config) EncoderOptions() []container.EncoderOption {
	if c.CompactMetadata {
		return []container.EncoderOption{container.WithCompactMetadata()}
	}

	return nil
}

// DecoderOptions returns the container decoder options implied by c.
func (c Config) DecoderOptions() []container.DecoderOption {
	var opts []container.DecoderOption
	if c.MaxHeaderSize > 0 {
		opts = append(opts, container.WithMaxHeaderSize(c.MaxHeaderSize))
	}
	if c.MaxDatasetLen > 0 {
		opts = append(opts, container.WithMaxDatasetLen(c.MaxDatasetLen))
	}

	return opts
}
