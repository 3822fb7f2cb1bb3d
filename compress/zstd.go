package compress

import "github.com/arloliu/bindat/format"

// ZstdCodec reads and writes Zstandard frame streams.
//
// The default build uses the pure Go github.com/klauspost/compress/zstd
// implementation with pooled encoders and decoders. Building with the
// "gozstd" tag (and cgo enabled) switches to github.com/valyala/gozstd.
// Both produce standard frames and read each other's output.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

// NewZstdCodec creates a Zstandard stream codec.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}

// Type returns format.CompressionZstd.
func (ZstdCodec) Type() format.CompressionType {
	return format.CompressionZstd
}
