// Package endian converts histogram fields between host order and wire order.
//
// The hdrlog wire format is always big-endian (network order), regardless of the
// machine that produced or consumes it. Values are kept in host order in memory and
// converted at the field boundary only:
//
//	engine := endian.GetWireEngine()
//	engine.PutUint32(buf[0:4], uint32(cookie))
//
// Counts travel in fixed-size chunks, converted immediately before compression and
// immediately after decompression:
//
//	n := endian.ToWire(chunkBytes, counts[i:j])
//	m := endian.FromWire(counts[i:], chunkBytes)
//
// All functions in this package are stateless and safe for concurrent use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256: a big-endian host stores the 0x01 byte first.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeWireOrder reports whether the host already stores integers in wire order.
func IsNativeWireOrder() bool {
	return CheckEndianness() == binary.BigEndian
}

// GetWireEngine returns the engine used for every multi-byte field on the wire.
func GetWireEngine() EndianEngine {
	return binary.BigEndian
}

// GetHostEngine returns the engine matching the host byte order.
func GetHostEngine() EndianEngine {
	if IsNativeWireOrder() {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// PutInt32 writes v into b[0:4] in wire order.
func PutInt32(b []byte, v int32) {
	binary.BigEndian.PutUint32(b, uint32(v))
}

// Int32 reads a wire-order int32 from b[0:4].
func Int32(b []byte) int32 {
	return int32(binary.BigEndian.Uint32(b))
}

// PutInt64 writes v into b[0:8] in wire order.
func PutInt64(b []byte, v int64) {
	binary.BigEndian.PutUint64(b, uint64(v))
}

// Int64 reads a wire-order int64 from b[0:8].
func Int64(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}

// ToWire converts as many values of src as fit into dst, 8 bytes each, and returns
// the number of bytes written.
func ToWire(dst []byte, src []int64) int {
	n := min(len(src), len(dst)/8)
	for i := 0; i < n; i++ {
		binary.BigEndian.PutUint64(dst[i*8:], uint64(src[i]))
	}

	return n * 8
}

// FromWire converts complete 8-byte groups of src into dst and returns the number of
// values stored. A trailing partial group is ignored; conversion stops when dst is full.
func FromWire(dst []int64, src []byte) int {
	n := min(len(dst), len(src)/8)
	for i := 0; i < n; i++ {
		dst[i] = int64(binary.BigEndian.Uint64(src[i*8:]))
	}

	return n
}
