package jsontree

import (
	"bytes"
	"math"
)

// Equal reports whether v and other are structurally equal.
//
// Numbers compare by exact value across kinds, so Int(3), Uint(3) and
// Double(3) are equal while Int(1<<62+1) and its nearest double are not.
// Objects compare as key sets and ignore member order. Arrays compare in order.
func (v Value) Equal(other Value) bool {
	if v.IsNumber() && other.IsNumber() {
		return numbersEqual(v, other)
	}
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.num == other.num
	case KindString:
		return v.str == other.str
	case KindBytes:
		return bytes.Equal(v.raw, other.raw)
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}

		return true
	case KindObject:
		return v.obj.Equal(other.obj)
	default:
		return false
	}
}

// Equal reports whether o and other hold the same keys with equal values,
// regardless of member order.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	for k, v := range o.All() {
		ov, ok := other.Get(k)
		if !ok || !v.Equal(ov) {
			return false
		}
	}

	return true
}

func numbersEqual(a, b Value) bool {
	if a.kind != KindDouble && b.kind != KindDouble {
		an, am := integerParts(a)
		bn, bm := integerParts(b)

		return an == bn && am == bm
	}
	if a.kind == KindDouble && b.kind == KindDouble {
		return math.Float64frombits(a.num) == math.Float64frombits(b.num)
	}
	if a.kind != KindDouble {
		a, b = b, a
	}

	// a is a double, b an integer
	f := math.Float64frombits(a.num)
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return false
	}

	neg, mag := integerParts(b)
	if neg != (f < 0) && mag != 0 {
		return false
	}
	f = math.Abs(f)
	if f >= 1<<64 {
		return false
	}

	return uint64(f) == mag
}

// integerParts splits an int or uint value into sign and magnitude.
func integerParts(v Value) (bool, uint64) {
	if v.kind == KindInt {
		i := int64(v.num) //nolint:gosec
		if i < 0 {
			return true, uint64(-(i + 1)) + 1 //nolint:gosec
		}

		return false, uint64(i)
	}

	return false, v.num
}
