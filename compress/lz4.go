package compress

import (
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/bindat/format"
)

// lz4WriterPool pools frame writers; a lz4.Writer keeps sizeable block
// buffers that are worth reusing across files.
var lz4WriterPool = sync.Pool{
	New: func() any {
		return lz4.NewWriter(nil)
	},
}

// LZ4Codec reads and writes LZ4 frame streams.
type LZ4Codec struct{}

var _ Codec = LZ4Codec{}

// NewLZ4Codec creates an LZ4 frame codec.
func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

// Type returns format.CompressionLZ4.
func (LZ4Codec) Type() format.CompressionType {
	return format.CompressionLZ4
}

// NewWriter returns a pooled LZ4 frame writer bound to w.
func (LZ4Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	zw, _ := lz4WriterPool.Get().(*lz4.Writer)
	zw.Reset(w)

	return &lz4PooledWriter{zw: zw}, nil
}

// NewReader returns an LZ4 frame reader.
func (LZ4Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

type lz4PooledWriter struct {
	zw *lz4.Writer
}

func (w *lz4PooledWriter) Write(p []byte) (int, error) {
	if w.zw == nil {
		return 0, io.ErrClosedPipe
	}

	return w.zw.Write(p)
}

// Close writes the frame trailer and returns the writer to the pool.
func (w *lz4PooledWriter) Close() error {
	if w.zw == nil {
		return nil
	}

	err := w.zw.Close()
	lz4WriterPool.Put(w.zw)
	w.zw = nil

	return err
}
