package pbf

import "strconv"

// WireType is the 3-bit type carried in every field tag.
type WireType uint8

const (
	WireVarint     WireType = 0 // WireVarint is int32/int64/uint32/uint64/sint64/bool/enum.
	WireFixed64    WireType = 1 // WireFixed64 is fixed64/sfixed64/double.
	WireBytes      WireType = 2 // WireBytes is string/bytes/sub messages/packed repeated.
	WireStartGroup WireType = 3 // WireStartGroup is the deprecated group start; rejected.
	WireEndGroup   WireType = 4 // WireEndGroup is the deprecated group end; rejected.
	WireFixed32    WireType = 5 // WireFixed32 is fixed32/sfixed32/float.
)

// MaxFieldNumber is the largest field number protocol buffers allow.
const MaxFieldNumber = 1<<29 - 1

func (t WireType) String() string {
	switch t {
	case WireVarint:
		return "varint"
	case WireFixed64:
		return "fixed64"
	case WireBytes:
		return "bytes"
	case WireStartGroup:
		return "start_group"
	case WireEndGroup:
		return "end_group"
	case WireFixed32:
		return "fixed32"
	default:
		return "wire(" + strconv.Itoa(int(t)) + ")"
	}
}

// Field identifies the field the reader is positioned on.
type Field struct {
	Num  int
	Type WireType
}

// EncodeZigZag maps a signed integer to an unsigned one so that values of small
// magnitude, negative or positive, produce short varints.
//
//	0 -> 0, -1 -> 1, 1 -> 2, -2 -> 3, ...
func EncodeZigZag(n int64) uint64 {
	return uint64(n<<1) ^ uint64(n>>63) //nolint:gosec
}

// DecodeZigZag is the inverse of EncodeZigZag.
func DecodeZigZag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1) //nolint:gosec
}

// VarintSize returns the number of bytes v occupies as a varint.
func VarintSize(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}

	return n
}
