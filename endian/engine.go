// Package endian provides the byte order engines used by the bindat wire format.
//
// The container mixes two fixed conventions:
//
//   - Dataset length prefixes are always big-endian (LengthPrefixEngine).
//   - Float64 payload values are little-endian IEEE-754 by default
//     (PayloadEngine), independent of the host byte order.
//
// An EndianEngine combines binary.ByteOrder and binary.AppendByteOrder so the
// same value can both decode in place and append to a growing buffer:
//
//	engine := endian.LengthPrefixEngine()
//	buf = engine.AppendUint64(buf[:0], uint64(len(values)))
//
// Engines are the stateless binary.LittleEndian / binary.BigEndian values and
// are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

var native = detectNative()

// detectNative inspects the in-memory layout of a fixed integer.
func detectNative() EndianEngine {
	// 0x0100: a big-endian host stores 0x01 at the lowest address.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNative reports whether engine matches the host byte order, which means
// float64 slices can be reinterpreted as bytes without conversion.
func IsNative(engine EndianEngine) bool {
	return engine == native
}

// LengthPrefixEngine returns the engine for dataset length prefixes (big-endian).
func LengthPrefixEngine() EndianEngine {
	return binary.BigEndian
}

// PayloadEngine returns the default engine for float64 payload values (little-endian).
func PayloadEngine() EndianEngine {
	return binary.LittleEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
