package container

import (
	"fmt"

	"github.com/arloliu/bindat/endian"
	"github.com/arloliu/bindat/errs"
	"github.com/arloliu/bindat/internal/options"
	"github.com/arloliu/bindat/metadata"
)

// DefaultMaxHeaderSize is the default limit on the metadata header length.
const DefaultMaxHeaderSize = 64 << 20 // 64MiB

// EncoderOption configures an Encoder.
type EncoderOption = options.Option[*encoderConfig]

// DecoderOption configures a Decoder.
type DecoderOption = options.Option[*decoderConfig]

type encoderConfig struct {
	prefix  string
	indent  string
	payload endian.EndianEngine
}

func newEncoderConfig(opts []EncoderOption) (*encoderConfig, error) {
	cfg := &encoderConfig{
		indent:  metadata.DefaultIndent,
		payload: endian.PayloadEngine(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

type decoderConfig struct {
	maxHeaderSize int
	maxDatasetLen uint64
	payload       endian.EndianEngine
}

func newDecoderConfig(opts []DecoderOption) (*decoderConfig, error) {
	cfg := &decoderConfig{
		maxHeaderSize: DefaultMaxHeaderSize,
		payload:       endian.PayloadEngine(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithIndent renders the metadata header with json.MarshalIndent semantics.
// The default is no prefix and a two-space indent.
func WithIndent(prefix, indent string) EncoderOption {
	return options.NoError(func(c *encoderConfig) {
		c.prefix = prefix
		c.indent = indent
	})
}

// WithCompactMetadata renders the metadata header without whitespace.
func WithCompactMetadata() EncoderOption {
	return WithIndent("", "")
}

// WithPayloadByteOrder sets the byte order of float64 payload values written
// by the encoder. The default is little-endian; readers must be configured
// with WithDecoderPayloadByteOrder using the same engine.
func WithPayloadByteOrder(engine endian.EndianEngine) EncoderOption {
	return options.New(func(c *encoderConfig) error {
		if engine == nil {
			return fmt.Errorf("%w: nil payload byte order", errs.ErrInvalidOption)
		}
		c.payload = engine

		return nil
	})
}

// WithMaxHeaderSize limits the number of bytes the decoder reads while
// looking for the header delimiter.
func WithMaxHeaderSize(n int) DecoderOption {
	return options.New(func(c *decoderConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: max header size must be positive, got %d", errs.ErrInvalidOption, n)
		}
		c.maxHeaderSize = n

		return nil
	})
}

// WithMaxDatasetLen rejects datasets whose length prefix exceeds n values.
// Zero means no limit beyond addressable memory.
func WithMaxDatasetLen(n uint64) DecoderOption {
	return options.NoError(func(c *decoderConfig) {
		c.maxDatasetLen = n
	})
}

// WithDecoderPayloadByteOrder sets the byte order used to read float64
// payload values. The default is little-endian.
func WithDecoderPayloadByteOrder(engine endian.EndianEngine) DecoderOption {
	return options.New(func(c *decoderConfig) error {
		if engine == nil {
			return fmt.Errorf("%w: nil payload byte order", errs.ErrInvalidOption)
		}
		c.payload = engine

		return nil
	})
}
