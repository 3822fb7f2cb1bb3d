// Package hash computes xxHash64 fingerprints of container encodings.
package hash

import (
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
)

// Sum64 hashes the bytes produced by write without buffering them.
func Sum64(write func(w io.Writer) error) (uint64, error) {
	d := xxhash.New()
	if err := write(d); err != nil {
		return 0, err
	}

	return d.Sum64(), nil
}

// Bytes returns the xxHash64 of data.
func Bytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Hex renders a fingerprint as 16 lowercase hex digits.
func Hex(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
