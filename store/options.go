package store

import (
	"fmt"
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/arloliu/bindat/container"
	"github.com/arloliu/bindat/errs"
	"github.com/arloliu/bindat/format"
	"github.com/arloliu/bindat/internal/options"
)

// DefaultFileMode is the permission used for new container files.
const DefaultFileMode fs.FileMode = 0o644

// Option configures WriteFile and ReadFile.
type Option = options.Option[*config]

type config struct {
	compression    format.CompressionType
	compressionSet bool
	fileMode       fs.FileMode
	useMmap        bool
	logger         zerolog.Logger
	encoderOpts    []container.EncoderOption
	decoderOpts    []container.DecoderOption
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		fileMode: DefaultFileMode,
		useMmap:  true,
		logger:   zerolog.Nop(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithCompression selects the whole-file compression used by WriteFile,
// overriding the one implied by the file extension.
func WithCompression(t format.CompressionType) Option {
	return options.New(func(c *config) error {
		switch t {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
		default:
			return fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, t)
		}
		c.compression = t
		c.compressionSet = true

		return nil
	})
}

// WithFileMode sets the permission of files created by WriteFile.
func WithFileMode(mode fs.FileMode) Option {
	return options.New(func(c *config) error {
		if mode&fs.ModePerm == 0 {
			return fmt.Errorf("%w: file mode %v has no permission bits", errs.ErrInvalidOption, mode)
		}
		c.fileMode = mode & fs.ModePerm

		return nil
	})
}

// WithoutMmap makes ReadFile read the file into memory instead of mapping it.
func WithoutMmap() Option {
	return options.NoError(func(c *config) {
		c.useMmap = false
	})
}

// WithLogger sets the logger for file operations. The default discards
// everything.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(c *config) {
		c.logger = logger
	})
}

// WithEncoderOptions passes options through to the container encoder.
func WithEncoderOptions(opts ...container.EncoderOption) Option {
	return options.NoError(func(c *config) {
		c.encoderOpts = append(c.encoderOpts, opts...)
	})
}

// WithDecoderOptions passes options through to the container decoder.
func WithDecoderOptions(opts ...container.DecoderOption) Option {
	return options.NoError(func(c *config) {
		c.decoderOpts = append(c.decoderOpts, opts...)
	})
}
