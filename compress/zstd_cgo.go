//go:build gozstd && cgo

package compress

import (
	"io"

	"github.com/valyala/gozstd"
)

// NewWriter returns a cgo zstd stream writer bound to w.
func (ZstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return &gozstdWriter{zw: gozstd.NewWriter(w)}, nil
}

// NewReader returns a cgo zstd stream reader bound to r.
func (ZstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return &gozstdReader{zr: gozstd.NewReader(r)}, nil
}

type gozstdWriter struct {
	zw *gozstd.Writer
}

func (w *gozstdWriter) Write(p []byte) (int, error) {
	if w.zw == nil {
		return 0, io.ErrClosedPipe
	}

	return w.zw.Write(p)
}

// Close finishes the frame and releases the native encoder.
func (w *gozstdWriter) Close() error {
	if w.zw == nil {
		return nil
	}

	err := w.zw.Close()
	w.zw.Release()
	w.zw = nil

	return err
}

type gozstdReader struct {
	zr *gozstd.Reader
}

func (r *gozstdReader) Read(p []byte) (int, error) {
	if r.zr == nil {
		return 0, io.ErrClosedPipe
	}

	return r.zr.Read(p)
}

// Close releases the native decoder.
func (r *gozstdReader) Close() error {
	if r.zr != nil {
		r.zr.Release()
		r.zr = nil
	}

	return nil
}
