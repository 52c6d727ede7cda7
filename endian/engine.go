// Package endian provides the byte order used by the wordwire wire format.
//
// Every multi-byte value in a message (pointers, primitive fields, list elements and
// the stream framing header) is little-endian, independent of the host. The package
// combines ByteOrder and AppendByteOrder from encoding/binary into a single
// EndianEngine so that the rest of the module can both read fields in place and
// append to framing buffers through one value.
//
//	engine := endian.Wire()
//	ptr := engine.Uint64(seg[off:])
//	hdr = engine.AppendUint32(hdr, uint32(len(segs)-1))
//
// On little-endian hosts the wire layout equals the in-memory layout of Go numeric
// types, which lets primitive list views alias message memory directly; see
// IsNativeWireOrder.
//
// All functions in this package are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Wire returns the engine for the wire byte order (little-endian).
func Wire() EndianEngine {
	return binary.LittleEndian
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

var nativeLittle = CheckEndianness() == binary.LittleEndian

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return nativeLittle
}

// IsNativeWireOrder reports whether in-memory numeric values on this host have the
// same byte layout as on the wire.
func IsNativeWireOrder() bool {
	return nativeLittle
}
