// Package bindat reads and writes bindat containers: a JSON metadata header
// followed by any number of length-prefixed float64 datasets.
//
// # Wire Format
//
//	<JSON text> '\n' 0x00
//	{ <uint64 big-endian N> <N float64 values, little-endian IEEE-754> } *
//
// There is no magic number, version or dataset count. A reader consumes
// datasets until the stream ends exactly at a length prefix boundary; ending
// anywhere else is a truncation error.
//
// # Basic Usage
//
// Encoding a container:
//
//	c := bindat.New(map[string]any{"sample": "Si-7"}, []float64{1, 2, 3})
//	if err := bindat.Encode(w, c); err != nil {
//	    return err
//	}
//
// Decoding it back:
//
//	c, err := bindat.Decode(r)
//	if err != nil {
//	    switch errs.KindOf(err) {
//	    case errs.KindIO:          // read failure or truncation
//	    case errs.KindTextDecode:  // header is not UTF-8
//	    case errs.KindParse:       // header is not JSON
//	    }
//	}
//
// Storing it on disk with whole-file compression:
//
//	stats, err := bindat.WriteFile("run.bindat.zst", c)
//	c, err = bindat.ReadFile("run.bindat.zst")
//
// # Package Structure
//
// This package wraps the container and store packages for the common cases.
// Use container.Encoder / container.Decoder directly for streaming control
// and decoder state inspection, and store for file options.
package bindat

import (
	"io"

	"github.com/arloliu/bindat/compress"
	"github.com/arloliu/bindat/container"
	"github.com/arloliu/bindat/internal/hash"
	"github.com/arloliu/bindat/store"
)

// New creates a container holding doc as metadata and the given datasets.
//
// The datasets are stored as given, not copied.
func New(doc any, datasets ...[]float64) *container.Container {
	c := container.New()
	c.SetMetadata(doc)
	c.Append(datasets...)

	return c
}

// Encode writes the encoding of c to w.
//
// Parameters:
//   - w: Destination, owned by the caller
//   - c: Container to encode
//   - opts: Encoder options such as container.WithCompactMetadata()
//
// Returns:
//   - error: errs.KindEncode if the metadata cannot be rendered (nothing is
//     written), errs.KindIO if w fails
func Encode(w io.Writer, c *container.Container, opts ...container.EncoderOption) error {
	enc, err := container.NewEncoder(w, opts...)
	if err != nil {
		return err
	}

	return enc.Encode(c)
}

// Decode reads one container from r, consuming r to its end.
//
// Parameters:
//   - r: Source positioned at the start of a container
//   - opts: Decoder options such as container.WithMaxDatasetLen(n)
//
// Returns:
//   - *container.Container: The decoded container, nil on error
//   - error: An *errs.Error classified as KindIO, KindTextDecode or KindParse
func Decode(r io.Reader, opts ...container.DecoderOption) (*container.Container, error) {
	dec, err := container.NewDecoder(r, opts...)
	if err != nil {
		return nil, err
	}

	return dec.Decode()
}

// Marshal returns the encoding of c.
func Marshal(c *container.Container, opts ...container.EncoderOption) ([]byte, error) {
	return container.Marshal(c, opts...)
}

// Unmarshal decodes a container from data.
func Unmarshal(data []byte, opts ...container.DecoderOption) (*container.Container, error) {
	return container.Unmarshal(data, opts...)
}

// WriteFile atomically writes c to path. Whole-file compression follows
// store.WithCompression or, by default, the extension of path.
func WriteFile(path string, c *container.Container, opts ...store.Option) (compress.Stats, error) {
	return store.WriteFile(path, c, opts...)
}

// ReadFile reads the container stored at path, removing any whole-file
// compression.
func ReadFile(path string, opts ...store.Option) (*container.Container, error) {
	return store.ReadFile(path, opts...)
}

// Fingerprint returns the xxHash64 of the encoding of c as 16 hex digits.
//
// Equal fingerprints mean byte-identical encodings under the same options.
func Fingerprint(c *container.Container, opts ...container.EncoderOption) (string, error) {
	sum, err := container.Fingerprint(c, opts...)
	if err != nil {
		return "", err
	}

	return hash.Hex(sum), nil
}
