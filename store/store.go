package store

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/arloliu/bindat/compress"
	"github.com/arloliu/bindat/container"
	"github.com/arloliu/bindat/errs"
	"github.com/arloliu/bindat/format"
)

// Extension is the conventional suffix of an uncompressed container file.
const Extension = ".bindat"

const tempSuffix = ".tmp"

// Info describes a container file read by ReadFileInfo.
type Info struct {
	Path        string
	Size        int64
	Compression format.CompressionType
	Mapped      bool
}

// WriteFile atomically writes c to path.
//
// The container is encoded to path+".tmp", synced, and renamed over path.
// On any failure the temporary file is removed and path is left untouched.
//
// Parameters:
//   - path: Destination file
//   - c: Container to write
//   - opts: Compression, file mode, logger and encoder options
//
// Returns:
//   - compress.Stats: Uncompressed and on-disk sizes
//   - error: errs.KindEncode for metadata errors, errs.KindIO otherwise
func WriteFile(path string, c *container.Container, opts ...Option) (compress.Stats, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return compress.Stats{}, err
	}

	ct := cfg.compression
	if !cfg.compressionSet {
		ct = compress.ForPath(path)
	}

	codec, err := compress.GetCodec(ct)
	if err != nil {
		return compress.Stats{}, err
	}

	start := time.Now()
	tmp := path + tempSuffix

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, cfg.fileMode)
	if err != nil {
		return compress.Stats{}, errs.New(errs.KindIO, "create temp file", err)
	}

	disk := &countingWriter{w: f}
	raw, err := encodeTo(disk, codec, c, cfg)
	if err == nil {
		err = errs.New(errs.KindIO, "sync", f.Sync())
	}
	err = multierr.Append(err, errs.New(errs.KindIO, "close", f.Close()))

	if err == nil {
		err = errs.New(errs.KindIO, "rename", os.Rename(tmp, path))
	}
	if err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil && !os.IsNotExist(rmErr) {
			cfg.logger.Warn().Err(rmErr).Str("path", tmp).Msg("failed to remove temp file")
		}

		return compress.Stats{}, err
	}

	stats := compress.Stats{Algorithm: ct, OriginalSize: raw, CompressedSize: disk.n}
	cfg.logger.Debug().
		Str("path", path).
		Str("compression", ct.String()).
		Int("datasets", c.Len()).
		Int64("raw_bytes", stats.OriginalSize).
		Int64("file_bytes", stats.CompressedSize).
		Dur("took", time.Since(start)).
		Msg("container written")

	return stats, nil
}

// encodeTo encodes c through codec into w and returns the uncompressed size.
func encodeTo(w io.Writer, codec compress.Codec, c *container.Container, cfg *config) (int64, error) {
	zw, err := codec.NewWriter(w)
	if err != nil {
		return 0, errs.New(errs.KindIO, "open compressor", err)
	}

	raw := &countingWriter{w: zw}
	enc, err := container.NewEncoder(raw, cfg.encoderOpts...)
	if err != nil {
		return 0, multierr.Append(err, zw.Close())
	}
	if err := enc.Encode(c); err != nil {
		return 0, multierr.Append(err, zw.Close())
	}
	if err := zw.Close(); err != nil {
		return 0, errs.New(errs.KindIO, "finish compression", err)
	}

	return raw.n, nil
}

// ReadFile reads the container stored at path.
func ReadFile(path string, opts ...Option) (*container.Container, error) {
	c, _, err := ReadFileInfo(path, opts...)
	return c, err
}

// ReadFileInfo reads the container stored at path and reports how it was
// stored.
//
// Whole-file compression is detected from the leading bytes. The file is
// mapped read-only unless WithoutMmap is given or mapping fails; the
// mapping is released before ReadFileInfo returns and the returned container
// never references it.
func ReadFileInfo(path string, opts ...Option) (*container.Container, Info, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, Info{}, err
	}

	info := Info{Path: path}

	data, release, mapped, err := loadFile(path, cfg.useMmap)
	if err != nil {
		return nil, info, errs.New(errs.KindIO, "read file", err)
	}
	defer func() {
		if err := release(); err != nil {
			cfg.logger.Warn().Err(err).Str("path", path).Msg("failed to release file mapping")
		}
	}()

	info.Size = int64(len(data))
	info.Mapped = mapped
	info.Compression = compress.Detect(data[:min(compress.MagicSize, len(data))])

	c, err := Decode(bytes.NewReader(data), info.Compression, cfg.decoderOpts...)
	if err != nil {
		return nil, info, err
	}

	cfg.logger.Debug().
		Str("path", path).
		Str("compression", info.Compression.String()).
		Bool("mmap", mapped).
		Int("datasets", c.Len()).
		Msg("container read")

	return c, info, nil
}

// Decode decodes one container from r after removing the given whole-file
// compression.
func Decode(r io.Reader, ct format.CompressionType, opts ...container.DecoderOption) (*container.Container, error) {
	codec, err := compress.GetCodec(ct)
	if err != nil {
		return nil, err
	}

	zr, err := codec.NewReader(r)
	if err != nil {
		return nil, errs.New(errs.KindIO, "open decompressor", err)
	}

	dec, err := container.NewDecoder(zr, opts...)
	if err != nil {
		return nil, multierr.Append(err, zr.Close())
	}

	c, err := dec.Decode()
	if closeErr := zr.Close(); closeErr != nil && err == nil {
		err = errs.New(errs.KindIO, "close decompressor", closeErr)
	}
	if err != nil {
		return nil, err
	}

	return c, nil
}

// IsContainerName reports whether name carries the container extension,
// optionally followed by a compression extension.
func IsContainerName(name string) bool {
	if ct := compress.ForPath(name); ct != format.CompressionNone {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	return strings.EqualFold(filepath.Ext(name), Extension)
}

// List returns the sorted names of container files directly inside dir.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errs.New(errs.KindIO, "list directory", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() && IsContainerName(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	return names, nil
}

// readAll reads exactly size bytes from f.
func readAll(f *os.File, size int64) ([]byte, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, err
	}

	return data, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)

	return n, err
}
