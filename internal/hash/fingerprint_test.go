package hash

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytes(t *testing.T) {
	tests := []struct {
		name string
		data string
		sum  uint64
	}{
		{"empty", "", 0xef46db3751d8e999},
		{"short", "test", 0x4fdcca5ddb678139},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.sum, Bytes([]byte(tt.data)))
		})
	}
}

func TestSum64_MatchesBytes(t *testing.T) {
	sum, err := Sum64(func(w io.Writer) error {
		if _, err := w.Write([]byte("te")); err != nil {
			return err
		}
		_, err := w.Write([]byte("st"))

		return err
	})
	require.NoError(t, err)
	require.Equal(t, Bytes([]byte("test")), sum)
}

func TestSum64_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Sum64(func(io.Writer) error { return boom })
	require.ErrorIs(t, err, boom)
}

func TestHex(t *testing.T) {
	require.Equal(t, "ef46db3751d8e999", Hex(0xef46db3751d8e999))
	require.Equal(t, "0000000000000001", Hex(1))
}
