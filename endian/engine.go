// Package endian provides the byte order used for fixed-width wire fields.
//
// Protocol buffer fixed32/fixed64 fields (and therefore geobuf double values)
// are always little-endian regardless of the host, so the pbf package never
// consults the native byte order.
//
// Using EndianEngine (which includes AppendByteOrder) lets writers append
// fixed-width values straight into their buffer:
//
//	buf = endian.Wire().AppendUint64(buf, math.Float64bits(v))
//
// All functions and the returned engines are safe for concurrent use.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Wire returns the byte order of fixed-width protocol buffer fields.
func Wire() EndianEngine {
	return binary.LittleEndian
}
