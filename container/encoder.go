package container

import (
	"bufio"
	"fmt"
	"io"

	"github.com/arloliu/bindat/encoding"
	"github.com/arloliu/bindat/errs"
	"github.com/arloliu/bindat/format"
	"github.com/arloliu/bindat/internal/hash"
	"github.com/arloliu/bindat/metadata"
)

const writeBufferSize = 64 << 10

// Encoder writes containers to a byte sink.
//
// An Encoder keeps no state between Encode calls besides its buffered
// writer; it is not safe for concurrent use.
type Encoder struct {
	w   *bufio.Writer
	cfg *encoderConfig
}

// NewEncoder creates an encoder writing to w.
//
// Writers that are not already a *bufio.Writer are buffered internally; in
// both cases Encode flushes before returning.
//
// Parameters:
//   - w: Destination sink, owned by the caller
//   - opts: Optional settings (WithIndent, WithCompactMetadata, WithPayloadByteOrder)
//
// Returns:
//   - *Encoder: The encoder
//   - error: errs.ErrNilWriter or an invalid option error
func NewEncoder(w io.Writer, opts ...EncoderOption) (*Encoder, error) {
	if w == nil {
		return nil, errs.ErrNilWriter
	}

	cfg, err := newEncoderConfig(opts)
	if err != nil {
		return nil, err
	}

	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriterSize(w, writeBufferSize)
	}

	return &Encoder{w: bw, cfg: cfg}, nil
}

// Encode writes c as a header followed by one length-prefixed block per
// dataset, then flushes the sink.
//
// The header is rendered before anything is written, so metadata errors
// (errs.KindEncode) leave the sink untouched. A write failure (errs.KindIO)
// aborts immediately and may leave a partial encoding in the sink.
func (e *Encoder) Encode(c *Container) error {
	if c == nil {
		return errs.New(errs.KindEncode, "encode", errs.ErrNilContainer)
	}

	header, err := renderHeader(c.Metadata, e.cfg)
	if err != nil {
		return errs.New(errs.KindEncode, "render metadata", err)
	}

	if _, err := e.w.Write(header); err != nil {
		return errs.New(errs.KindIO, "write header", err)
	}

	for i, ds := range c.Datasets {
		if err := encoding.WriteLength(e.w, len(ds)); err != nil {
			return errs.New(errs.KindIO, fmt.Sprintf("write dataset %d length", i), err)
		}
		if err := encoding.WriteFloat64s(e.w, ds, e.cfg.payload); err != nil {
			return errs.New(errs.KindIO, fmt.Sprintf("write dataset %d payload", i), err)
		}
	}

	if err := e.w.Flush(); err != nil {
		return errs.New(errs.KindIO, "flush", err)
	}

	return nil
}

// renderHeader returns the metadata text followed by a newline and the NUL
// delimiter.
func renderHeader(doc any, cfg *encoderConfig) ([]byte, error) {
	text, err := metadata.Render(doc, cfg.prefix, cfg.indent)
	if err != nil {
		return nil, err
	}

	return append(text, format.HeaderNewline, format.HeaderDelimiter), nil
}

// Marshal returns the encoding of c.
//
// The result is built in a single allocation sized by EncodedSize.
func Marshal(c *Container, opts ...EncoderOption) ([]byte, error) {
	if c == nil {
		return nil, errs.New(errs.KindEncode, "encode", errs.ErrNilContainer)
	}

	cfg, err := newEncoderConfig(opts)
	if err != nil {
		return nil, err
	}

	header, err := renderHeader(c.Metadata, cfg)
	if err != nil {
		return nil, errs.New(errs.KindEncode, "render metadata", err)
	}

	data := make([]byte, 0, encodedSize(header, c.Datasets))
	data = append(data, header...)
	for _, ds := range c.Datasets {
		data = encoding.AppendLength(data, len(ds))
		data = encoding.AppendFloat64s(data, ds, cfg.payload)
	}

	return data, nil
}

// EncodedSize returns the exact number of bytes Encode writes for c with the
// given options.
func EncodedSize(c *Container, opts ...EncoderOption) (int64, error) {
	if c == nil {
		return 0, errs.New(errs.KindEncode, "encode", errs.ErrNilContainer)
	}

	cfg, err := newEncoderConfig(opts)
	if err != nil {
		return 0, err
	}

	header, err := renderHeader(c.Metadata, cfg)
	if err != nil {
		return 0, errs.New(errs.KindEncode, "render metadata", err)
	}

	return encodedSize(header, c.Datasets), nil
}

func encodedSize(header []byte, datasets [][]float64) int64 {
	size := int64(len(header))
	for _, ds := range datasets {
		size += format.LengthPrefixSize + int64(len(ds))*format.ValueSize
	}

	return size
}

// Fingerprint returns the xxHash64 of c's encoding. Because encoding is
// deterministic, equal containers encoded with equal options share a
// fingerprint.
func Fingerprint(c *Container, opts ...EncoderOption) (uint64, error) {
	return hash.Sum64(func(w io.Writer) error {
		enc, err := NewEncoder(w, opts...)
		if err != nil {
			return err
		}

		return enc.Encode(c)
	})
}
