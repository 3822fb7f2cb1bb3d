//go:build !(gozstd && cgo)

package compress

import (
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdEncoderPool pools stream encoders. An encoder is rebound to a new
// destination with Reset and can be reused once closed.
var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}

		return encoder
	},
}

// zstdDecoderPool pools stream decoders. With a concurrency of 1 the decoder
// runs synchronously and holds no goroutines between uses.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

// NewWriter returns a pooled zstd stream writer bound to w.
func (ZstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	encoder, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	encoder.Reset(w)

	return &zstdPooledWriter{encoder: encoder}, nil
}

// NewReader returns a pooled zstd stream reader bound to r.
func (ZstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	if err := decoder.Reset(r); err != nil {
		zstdDecoderPool.Put(decoder)
		return nil, fmt.Errorf("zstd reader: %w", err)
	}

	return &zstdPooledReader{decoder: decoder}, nil
}

type zstdPooledWriter struct {
	encoder *zstd.Encoder
}

func (w *zstdPooledWriter) Write(p []byte) (int, error) {
	if w.encoder == nil {
		return 0, io.ErrClosedPipe
	}

	return w.encoder.Write(p)
}

// Close finishes the frame and returns the encoder to the pool.
func (w *zstdPooledWriter) Close() error {
	if w.encoder == nil {
		return nil
	}

	err := w.encoder.Close()
	zstdEncoderPool.Put(w.encoder)
	w.encoder = nil

	return err
}

type zstdPooledReader struct {
	decoder *zstd.Decoder
}

func (r *zstdPooledReader) Read(p []byte) (int, error) {
	if r.decoder == nil {
		return 0, io.ErrClosedPipe
	}

	return r.decoder.Read(p)
}

// Close detaches the decoder from its source and returns it to the pool.
func (r *zstdPooledReader) Close() error {
	if r.decoder == nil {
		return nil
	}

	_ = r.decoder.Reset(nil)
	zstdDecoderPool.Put(r.decoder)
	r.decoder = nil

	return nil
}
