package compress

import (
	"io"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/bindat/format"
)

// S2Codec writes S2 streams and reads both S2 and Snappy framed streams.
type S2Codec struct{}

var _ Codec = S2Codec{}

// NewS2Codec creates an S2 stream codec.
func NewS2Codec() S2Codec {
	return S2Codec{}
}

// Type returns format.CompressionS2.
func (S2Codec) Type() format.CompressionType {
	return format.CompressionS2
}

// NewWriter returns an S2 stream writer. Close flushes the final block.
func (S2Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return s2.NewWriter(w), nil
}

// NewReader returns an S2 stream reader.
func (S2Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(s2.NewReader(r)), nil
}
