package encoding

import (
	"io"

	"github.com/arloliu/bindat/endian"
	"github.com/arloliu/bindat/format"
)

// AppendLength appends the big-endian length prefix for a dataset of n values.
func AppendLength(dst []byte, n int) []byte {
	return endian.LengthPrefixEngine().AppendUint64(dst, uint64(n))
}

// WriteLength writes the big-endian length prefix for a dataset of n values.
func WriteLength(w io.Writer, n int) error {
	var buf [format.LengthPrefixSize]byte
	endian.LengthPrefixEngine().PutUint64(buf[:], uint64(n))
	_, err := w.Write(buf[:])

	return err
}

// ReadLength reads one length prefix from r.
//
// The error distinguishes the two ways a stream can end here:
//   - io.EOF: no byte was available, the stream ended on a dataset boundary
//   - io.ErrUnexpectedEOF: the stream ended inside the prefix
//
// Any other reader error is returned unchanged.
func ReadLength(r io.Reader) (uint64, error) {
	var buf [format.LengthPrefixSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}

	return endian.LengthPrefixEngine().Uint64(buf[:]), nil
}
