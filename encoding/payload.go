package encoding

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"unsafe"

	"github.com/arloliu/bindat/endian"
	"github.com/arloliu/bindat/format"
	"github.com/arloliu/bindat/internal/pool"
)

// readChunkValues bounds how many values ReadFloat64s allocates ahead of the
// bytes it has actually received, so a corrupt length prefix on a short
// stream fails with a truncation error instead of a giant allocation.
const readChunkValues = 1 << 20

// WriteFloat64s writes values to w as consecutive 8-byte IEEE-754 words in the
// byte order of engine.
//
// When engine matches the host byte order the slice memory is written in a
// single call without conversion. Otherwise values are converted through a
// pooled chunk buffer.
//
// Parameters:
//   - w: Destination writer
//   - values: Values to encode, possibly empty
//   - engine: Payload byte order
//
// Returns:
//   - error: The first write error, if any
func WriteFloat64s(w io.Writer, values []float64, engine endian.EndianEngine) error {
	if len(values) == 0 {
		return nil
	}

	if endian.IsNative(engine) {
		_, err := w.Write(float64Bytes(values))
		return err
	}

	bb := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(bb)

	chunk := max(bb.Cap()/format.ValueSize, 1)
	for start := 0; start < len(values); start += chunk {
		part := values[start:min(start+chunk, len(values))]
		buf := bb.Sized(len(part) * format.ValueSize)
		for i, v := range part {
			engine.PutUint64(buf[i*format.ValueSize:], math.Float64bits(v))
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}

	return nil
}

// AppendFloat64s appends the encoding of values to dst and returns the
// extended slice.
func AppendFloat64s(dst []byte, values []float64, engine endian.EndianEngine) []byte {
	if endian.IsNative(engine) {
		return append(dst, float64Bytes(values)...)
	}

	dst = slices.Grow(dst, len(values)*format.ValueSize)
	for _, v := range values {
		dst = engine.AppendUint64(dst, math.Float64bits(v))
	}

	return dst
}

// ReadFloat64s reads exactly count values from r.
//
// The result is allocated in chunks as bytes arrive. If r ends before count
// values are read, ReadFloat64s returns io.ErrUnexpectedEOF together with the
// number of complete values received; it never returns a short slice
// without an error.
//
// Parameters:
//   - r: Source reader
//   - count: Number of values to read
//   - engine: Payload byte order
//
// Returns:
//   - []float64: Exactly count values on success, nil on error
//   - int: Number of complete values read (equals count on success)
//   - error: io.ErrUnexpectedEOF on a short stream, or the reader's error
func ReadFloat64s(r io.Reader, count int, engine endian.EndianEngine) ([]float64, int, error) {
	if count < 0 {
		return nil, 0, fmt.Errorf("negative value count %d", count)
	}

	values := make([]float64, 0, min(count, readChunkValues))
	for len(values) < count {
		start := len(values)
		n := min(count-start, readChunkValues)
		values = slices.Grow(values, n)[:start+n]

		got, err := readInto(r, values[start:], engine)
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}

			return nil, start + got, err
		}
	}

	return values, count, nil
}

// readInto fills dst from r and returns the number of complete values read.
// Errors follow io.ReadFull.
func readInto(r io.Reader, dst []float64, engine endian.EndianEngine) (int, error) {
	if endian.IsNative(engine) {
		n, err := io.ReadFull(r, float64Bytes(dst))
		return n / format.ValueSize, err
	}

	bb := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(bb)

	chunk := max(bb.Cap()/format.ValueSize, 1)
	done := 0
	for done < len(dst) {
		part := dst[done:min(done+chunk, len(dst))]
		buf := bb.Sized(len(part) * format.ValueSize)

		n, err := io.ReadFull(r, buf)
		for i := range n / format.ValueSize {
			part[i] = math.Float64frombits(engine.Uint64(buf[i*format.ValueSize:]))
		}
		if err != nil {
			return done + n/format.ValueSize, err
		}
		done += len(part)
	}

	return done, nil
}

// float64Bytes reinterprets the memory of values as bytes without copying.
func float64Bytes(values []float64) []byte {
	if len(values) == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(values))), len(values)*format.ValueSize)
}
