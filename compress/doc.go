// Package compress provides whole-file stream codecs for stored bindat
// containers.
//
// The container format itself is never compressed. Compression is an
// optional wrapper applied to an entire encoded container when it is
// written to disk, and removed transparently when it is read back:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	zw, err := codec.NewWriter(file)
//	if err != nil {
//	    return err
//	}
//	if err := container.NewEncoder(zw).Encode(c); err != nil {
//	    return err
//	}
//	return zw.Close()
//
// # Algorithms
//
//   - None: pass-through
//   - Zstd: best ratio, frames start with 28 B5 2F FD
//   - S2: fast, reads Snappy framed streams as well
//   - LZ4: fastest decompression, frames start with 04 22 4D 18
//
// Detect recognizes each format from its leading bytes, and ForPath maps the
// conventional file extensions (.zst, .s2, .lz4) to a type.
//
// # Zstd backends
//
// The default zstd backend is github.com/klauspost/compress/zstd. Building
// with -tags gozstd (cgo required) switches to github.com/valyala/gozstd,
// which wraps the reference C library.
//
// # Thread Safety
//
// Codecs are stateless and safe for concurrent use. The writers and readers
// they return are not; each belongs to one goroutine until closed.
package compress
