// Package jsontree is an ordered, lossless JSON document tree.
//
// Objects keep member insertion order, integers are kept as int64/uint64 and
// never silently converted to float64, and raw byte strings have their own
// kind. Trees are plain values with recursive ownership: Clone makes a deep
// copy and Equal compares structurally.
//
// Text is parsed with Parse and rendered with Marshal; ParseYAML/MarshalYAML
// bridge the same tree to YAML documents.
package jsontree

import "math"

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindDouble
	KindString
	KindBytes
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a JSON value. The zero Value is null.
type Value struct {
	kind Kind
	num  uint64 // bool, int64, uint64 or float64 bits
	str  string
	raw  []byte
	arr  []Value
	obj  *Object
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}

	return v
}

// Int returns a signed integer value.
func Int(i int64) Value { return Value{kind: KindInt, num: uint64(i)} } //nolint:gosec

// Uint returns an unsigned integer value.
func Uint(u uint64) Value { return Value{kind: KindUint, num: u} }

// Double returns a floating point value.
func Double(f float64) Value { return Value{kind: KindDouble, num: math.Float64bits(f)} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bytes returns a raw byte string value. The slice is not copied.
func Bytes(b []byte) Value { return Value{kind: KindBytes, raw: b} }

// ArrayOf returns an array value holding items. The slice is not copied.
func ArrayOf(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}

	return Value{kind: KindArray, arr: items}
}

// ObjectOf returns an object value wrapping o. A nil o yields an empty object.
func ObjectOf(o *Object) Value {
	if o == nil {
		o = NewObject()
	}

	return Value{kind: KindObject, obj: o}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNumber reports whether v is an int, uint or double.
func (v Value) IsNumber() bool {
	return v.kind == KindInt || v.kind == KindUint || v.kind == KindDouble
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	return v.num != 0, v.kind == KindBool
}

// AsInt64 returns v as an int64 when v is an integer that fits.
func (v Value) AsInt64() (int64, bool) {
	switch v.kind {
	case KindInt:
		return int64(v.num), true //nolint:gosec
	case KindUint:
		if v.num <= math.MaxInt64 {
			return int64(v.num), true //nolint:gosec
		}
	}

	return 0, false
}

// AsUint64 returns v as a uint64 when v is a non-negative integer.
func (v Value) AsUint64() (uint64, bool) {
	switch v.kind {
	case KindUint:
		return v.num, true
	case KindInt:
		if int64(v.num) >= 0 { //nolint:gosec
			return v.num, true
		}
	}

	return 0, false
}

// AsFloat64 returns any numeric v as a float64. Large integers lose precision.
func (v Value) AsFloat64() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(int64(v.num)), true //nolint:gosec
	case KindUint:
		return float64(v.num), true
	case KindDouble:
		return math.Float64frombits(v.num), true
	}

	return 0, false
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsBytes returns the raw bytes held by v.
func (v Value) AsBytes() ([]byte, bool) {
	return v.raw, v.kind == KindBytes
}

// Array returns the items of an array value, or nil for other kinds.
func (v Value) Array() []Value {
	if v.kind != KindArray {
		return nil
	}

	return v.arr
}

// Object returns the object of an object value, or nil for other kinds.
func (v Value) Object() *Object {
	if v.kind != KindObject {
		return nil
	}

	return v.obj
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindBytes:
		if v.raw != nil {
			v.raw = append([]byte{}, v.raw...)
		}
	case KindArray:
		items := make([]Value, len(v.arr))
		for i, item := range v.arr {
			items[i] = item.Clone()
		}
		v.arr = items
	case KindObject:
		v.obj = v.obj.Clone()
	}

	return v
}
