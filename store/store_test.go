package store

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/bindat/compress"
	"github.com/arloliu/bindat/container"
	"github.com/arloliu/bindat/errs"
	"github.com/arloliu/bindat/format"
	"github.com/arloliu/bindat/metadata"
)

func sampleContainer() *container.Container {
	c := container.New()
	c.SetMetadata(map[string]any{"experiment": "ramsey", "shots": 4})

	wave := make([]float64, 4096)
	for i := range wave {
		wave[i] = math.Cos(float64(i) / 64)
	}
	c.Append([]float64{1, 2, 3}, []float64{}, wave, []float64{math.NaN(), math.Inf(-1)})

	return c
}

func requireSameContainer(t *testing.T, want, got *container.Container) {
	t.Helper()

	require.True(t, metadata.Equal(want.Metadata, got.Metadata))
	require.Equal(t, want.Len(), got.Len())
	for i := range want.Datasets {
		require.Len(t, got.Datasets[i], len(want.Datasets[i]))
		for j := range want.Datasets[i] {
			require.Equal(t, math.Float64bits(want.Datasets[i][j]), math.Float64bits(got.Datasets[i][j]))
		}
	}
}

func TestWriteReadFile_AllCompressions(t *testing.T) {
	dir := t.TempDir()
	c := sampleContainer()

	rawSize, err := container.EncodedSize(c)
	require.NoError(t, err)

	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			path := filepath.Join(dir, "run"+Extension+ct.Extension())

			stats, err := WriteFile(path, c)
			require.NoError(t, err)
			require.Equal(t, ct, stats.Algorithm)
			require.Equal(t, rawSize, stats.OriginalSize)

			fi, err := os.Stat(path)
			require.NoError(t, err)
			require.Equal(t, fi.Size(), stats.CompressedSize)

			_, err = os.Stat(path + tempSuffix)
			require.True(t, os.IsNotExist(err))

			for _, opts := range [][]Option{nil, {WithoutMmap()}} {
				got, info, err := ReadFileInfo(path, opts...)
				require.NoError(t, err)
				require.Equal(t, ct, info.Compression)
				require.Equal(t, fi.Size(), info.Size)
				requireSameContainer(t, c, got)
			}
		})
	}
}

func TestWriteFile_ExplicitCompressionOverridesExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.bindat")

	_, err := WriteFile(path, sampleContainer(), WithCompression(format.CompressionZstd))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, compress.Detect(data))

	_, info, err := ReadFileInfo(path)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, info.Compression)
}

func TestWriteFile_UncompressedMatchesMarshal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bindat")
	c := sampleContainer()

	_, err := WriteFile(path, c, WithEncoderOptions(container.WithCompactMetadata()))
	require.NoError(t, err)

	want, err := container.Marshal(c, container.WithCompactMetadata())
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestWriteFile_EncodeFailureKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keep.bindat")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o600))

	bad := container.New()
	bad.SetMetadata(map[string]any{"x": math.NaN()})

	_, err := WriteFile(path, bad)
	require.ErrorIs(t, err, errs.ErrUnencodableMetadata)
	require.Equal(t, errs.KindEncode, errs.KindOf(err))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "original", string(data))

	_, err = os.Stat(path + tempSuffix)
	require.True(t, os.IsNotExist(err))
}

func TestWriteFile_NilContainer(t *testing.T) {
	_, err := WriteFile(filepath.Join(t.TempDir(), "nil.bindat"), nil)
	require.ErrorIs(t, err, errs.ErrNilContainer)
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	_, err := WriteFile(filepath.Join(t.TempDir(), "missing", "x.bindat"), sampleContainer())
	require.Error(t, err)
	require.Equal(t, errs.KindIO, errs.KindOf(err))
}

func TestWriteFile_FileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mode.bindat")

	_, err := WriteFile(path, sampleContainer(), WithFileMode(0o600))
	require.NoError(t, err)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), fi.Mode().Perm()&0o600)
	require.Zero(t, fi.Mode().Perm()&0o077)
}

func TestOptions_Invalid(t *testing.T) {
	_, err := WriteFile("x.bindat", sampleContainer(), WithCompression(format.CompressionType(42)))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)

	_, err = WriteFile("x.bindat", sampleContainer(), WithFileMode(0))
	require.ErrorIs(t, err, errs.ErrInvalidOption)
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(dir, "absent.bindat"))
		require.Error(t, err)
		require.True(t, errors.Is(err, os.ErrNotExist))
		require.Equal(t, errs.KindIO, errs.KindOf(err))
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.bindat")
		require.NoError(t, os.WriteFile(path, nil, 0o600))

		_, err := ReadFile(path)
		require.ErrorIs(t, err, errs.ErrMissingDelimiter)
	})

	t.Run("truncated dataset", func(t *testing.T) {
		data, err := container.Marshal(sampleContainer())
		require.NoError(t, err)

		path := filepath.Join(dir, "short.bindat")
		require.NoError(t, os.WriteFile(path, data[:len(data)-3], 0o600))

		_, err = ReadFile(path)
		require.ErrorIs(t, err, errs.ErrTruncatedDataset)
	})

	t.Run("corrupt compressed file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.bindat.zst")
		corrupt := append([]byte{0x28, 0xB5, 0x2F, 0xFD}, bytes.Repeat([]byte{0xEE}, 32)...)
		require.NoError(t, os.WriteFile(path, corrupt, 0o600))

		_, err := ReadFile(path)
		require.Error(t, err)
	})
}

func TestReadFile_DecoderOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.bindat")
	_, err := WriteFile(path, sampleContainer())
	require.NoError(t, err)

	_, err = ReadFile(path, WithDecoderOptions(container.WithMaxDatasetLen(100)))
	require.ErrorIs(t, err, errs.ErrDatasetTooLarge)
}

func TestWriteFile_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	path := filepath.Join(t.TempDir(), "logged.bindat.s2")
	_, err := WriteFile(path, sampleContainer(), WithLogger(logger))
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"message":"container written"`)
	require.Contains(t, buf.String(), `"compression":"S2"`)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.bindat", "a.bindat.zst", "c.BINDAT.lz4", "notes.txt", "d.zst"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.bindat"), 0o755))

	names, err := List(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"a.bindat.zst", "b.bindat", "c.BINDAT.lz4"}, names)

	_, err = List(filepath.Join(dir, "nope"))
	require.Equal(t, errs.KindIO, errs.KindOf(err))
}
