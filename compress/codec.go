package compress

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/arloliu/bindat/errs"
	"github.com/arloliu/bindat/format"
)

// Codec wraps a byte stream in a whole-file compression format.
//
// Writers returned by NewWriter must be closed to flush the final frame;
// closing never closes the underlying writer. Readers returned by NewReader
// should be closed to release pooled state; closing never closes the
// underlying reader.
type Codec interface {
	// Type returns the compression type implemented by the codec.
	Type() format.CompressionType
	// NewWriter returns a writer compressing into w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
	// NewReader returns a reader decompressing from r.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCodec(),
	format.CompressionZstd: NewZstdCodec(),
	format.CompressionS2:   NewS2Codec(),
	format.CompressionLZ4:  NewLZ4Codec(),
}

// GetCodec returns the built-in codec for the compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}

// MagicSize is the number of leading bytes Detect needs to recognize every
// supported stream format.
const MagicSize = 10

var magics = []struct {
	compressionType format.CompressionType
	magic           []byte
}{
	{format.CompressionZstd, []byte{0x28, 0xB5, 0x2F, 0xFD}},
	{format.CompressionLZ4, []byte{0x04, 0x22, 0x4D, 0x18}},
	{format.CompressionS2, []byte{0xFF, 0x06, 0x00, 0x00, 'S', '2', 's', 'T', 'w', 'O'}},
	{format.CompressionS2, []byte{0xFF, 0x06, 0x00, 0x00, 's', 'N', 'a', 'P', 'p', 'Y'}},
}

// Detect identifies a compressed stream from its first bytes. Anything not
// recognized, including a bindat header, is reported as CompressionNone.
//
// None of the magic sequences is valid as the start of a JSON text, so a
// plain container is never mistaken for a compressed one.
func Detect(prefix []byte) format.CompressionType {
	for _, m := range magics {
		if bytes.HasPrefix(prefix, m.magic) {
			return m.compressionType
		}
	}

	return format.CompressionNone
}

// ForPath returns the compression implied by the file extension of path.
func ForPath(path string) format.CompressionType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return format.CompressionZstd
	case ".s2", ".sz":
		return format.CompressionS2
	case ".lz4":
		return format.CompressionLZ4
	default:
		return format.CompressionNone
	}
}

// Stats describes the effect of compressing one file.
type Stats struct {
	// Algorithm is the compression applied.
	Algorithm format.CompressionType
	// OriginalSize is the size of the uncompressed container encoding.
	OriginalSize int64
	// CompressedSize is the size of the stored file.
	CompressedSize int64
}

// CompressionRatio returns CompressedSize / OriginalSize, or 0 for an empty input.
//
// Values below 1.0 mean the file shrank.
func (s Stats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved space as a percentage of the original size.
func (s Stats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.CompressionRatio()) * 100.0
}
