// Package format holds the wire constants of the bindat container and the
// enumerations shared by the file layer.
package format

import (
	"fmt"
	"strings"
)

const (
	// HeaderDelimiter terminates the metadata header. It is the only
	// authoritative end-of-header marker.
	HeaderDelimiter byte = 0x00
	// HeaderNewline is written between the metadata text and the delimiter.
	// It is cosmetic; decoders do not require it.
	HeaderNewline byte = '\n'
	// LengthPrefixSize is the size of the big-endian element count that
	// precedes every dataset.
	LengthPrefixSize = 8
	// ValueSize is the size of one encoded float64 element.
	ValueSize = 8
)

// CompressionType identifies a whole-file compression wrapper. It never
// appears inside the container encoding itself.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents an uncompressed file.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents a Zstandard frame stream.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents an S2 stream.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents an LZ4 frame stream.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Extension returns the conventional file suffix for the compression type,
// including the leading dot. CompressionNone has no suffix.
func (c CompressionType) Extension() string {
	switch c {
	case CompressionZstd:
		return ".zst"
	case CompressionS2:
		return ".s2"
	case CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// ParseCompressionType parses a case-insensitive compression name such as
// "zstd", "s2", "lz4" or "none".
func ParseCompressionType(s string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "raw":
		return CompressionNone, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", s)
	}
}
