package endian

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestIsNative(t *testing.T) {
	var word uint16 = 0x0102
	first := (*[2]byte)(unsafe.Pointer(&word))[0]

	switch first {
	case 0x01:
		require.True(t, IsNative(GetBigEndianEngine()))
		require.False(t, IsNative(GetLittleEndianEngine()))
	case 0x02:
		require.True(t, IsNative(GetLittleEndianEngine()))
		require.False(t, IsNative(GetBigEndianEngine()))
	default:
		require.Failf(t, "unexpected first byte", "got %#x", first)
	}
}

func TestWireConventions(t *testing.T) {
	t.Run("length prefix is big-endian", func(t *testing.T) {
		buf := LengthPrefixEngine().AppendUint64(nil, 5)
		require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 5}, buf)
	})

	t.Run("payload is little-endian", func(t *testing.T) {
		buf := PayloadEngine().AppendUint64(nil, 0x3FF0000000000000) // 1.0
		require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0xF0, 0x3F}, buf)
	})
}

func TestEngine_AppendAndPutAgree(t *testing.T) {
	for _, engine := range []EndianEngine{GetLittleEndianEngine(), GetBigEndianEngine()} {
		appended := engine.AppendUint64(nil, 0x0102030405060708)

		put := make([]byte, 8)
		engine.PutUint64(put, 0x0102030405060708)

		require.Equal(t, put, appended)
		require.Equal(t, uint64(0x0102030405060708), engine.Uint64(appended))
	}
}
