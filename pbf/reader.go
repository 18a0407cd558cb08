package pbf

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/geobuf/endian"
	"github.com/arloliu/geobuf/errs"
)

// Reader decodes protocol buffer fields from a byte slice.
//
// The reader never copies: Bytes and Message return sub slices of the input.
// A Reader is not safe for concurrent use.
type Reader struct {
	data   []byte
	off    int
	cur    Field
	engine endian.EndianEngine
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data, engine: endian.Wire()}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// Offset returns the current read position.
func (r *Reader) Offset() int {
	return r.off
}

// Field returns the field the reader is positioned on.
func (r *Reader) Field() Field {
	return r.cur
}

// Next reads the next field key. It returns io.EOF when the input is
// exhausted exactly at a field boundary.
func (r *Reader) Next() (Field, error) {
	if r.off >= len(r.data) {
		return Field{}, io.EOF
	}

	key, err := r.varint()
	if err != nil {
		return Field{}, err
	}

	num := key >> 3
	wt := WireType(key & 0x7)
	if num == 0 || num > MaxFieldNumber {
		return Field{}, errors.Wrapf(errs.ErrCorruptInput, "invalid field number %d at offset %d", num, r.off)
	}

	switch wt {
	case WireVarint, WireFixed64, WireBytes, WireFixed32:
	default:
		return Field{}, errors.Wrapf(errs.ErrCorruptInput, "unsupported wire type %s for field %d", wt, num)
	}

	r.cur = Field{Num: int(num), Type: wt}

	return r.cur, nil
}

func (r *Reader) varint() (uint64, error) {
	v, n := binary.Uvarint(r.data[r.off:])
	if n == 0 {
		return 0, errors.Wrapf(errs.ErrCorruptInput, "truncated varint at offset %d", r.off)
	}
	if n < 0 {
		return 0, errors.Wrapf(errs.ErrCorruptInput, "varint overflows 64 bits at offset %d", r.off)
	}
	r.off += n

	return v, nil
}

func (r *Reader) expect(wt WireType) error {
	if r.cur.Type != wt {
		return errors.Wrapf(errs.ErrCorruptInput, "field %d: expected wire type %s, got %s", r.cur.Num, wt, r.cur.Type)
	}

	return nil
}

// Varint reads the current varint field.
func (r *Reader) Varint() (uint64, error) {
	if err := r.expect(WireVarint); err != nil {
		return 0, err
	}

	return r.varint()
}

// Uint32 reads the current varint field and rejects values beyond 32 bits.
func (r *Reader) Uint32() (uint32, error) {
	v, err := r.Varint()
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, errors.Wrapf(errs.ErrCorruptInput, "field %d: value %d overflows uint32", r.cur.Num, v)
	}

	return uint32(v), nil
}

// Sint64 reads the current zigzag varint field.
func (r *Reader) Sint64() (int64, error) {
	v, err := r.Varint()
	if err != nil {
		return 0, err
	}

	return DecodeZigZag(v), nil
}

// Bool reads the current varint field as a boolean.
func (r *Reader) Bool() (bool, error) {
	v, err := r.Varint()
	if err != nil {
		return false, err
	}

	return v != 0, nil
}

// Double reads the current fixed64 field as an IEEE 754 double.
func (r *Reader) Double() (float64, error) {
	if err := r.expect(WireFixed64); err != nil {
		return 0, err
	}
	if r.Remaining() < 8 {
		return 0, errors.Wrapf(errs.ErrCorruptInput, "field %d: truncated fixed64", r.cur.Num)
	}

	bits := r.engine.Uint64(r.data[r.off : r.off+8])
	r.off += 8

	return math.Float64frombits(bits), nil
}

// Bytes reads the current length-delimited field. The result aliases the input.
func (r *Reader) Bytes() ([]byte, error) {
	if err := r.expect(WireBytes); err != nil {
		return nil, err
	}

	return r.delimited()
}

func (r *Reader) delimited() ([]byte, error) {
	length, err := r.varint()
	if err != nil {
		return nil, err
	}
	if length > uint64(r.Remaining()) { //nolint:gosec
		return nil, errors.Wrapf(errs.ErrCorruptInput,
			"field %d: length %d exceeds remaining %d bytes", r.cur.Num, length, r.Remaining())
	}

	start := r.off
	r.off += int(length) //nolint:gosec

	return r.data[start:r.off:r.off], nil
}

// String reads the current length-delimited field as UTF-8 text.
func (r *Reader) String() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.Wrapf(errs.ErrCorruptInput, "field %d: invalid UTF-8", r.cur.Num)
	}

	return string(b), nil
}

// Message reads the current length-delimited field and returns a Reader over
// its contents.
func (r *Reader) Message() (*Reader, error) {
	b, err := r.Bytes()
	if err != nil {
		return nil, err
	}

	return NewReader(b), nil
}

// Skip consumes the value of the current field whatever its wire type.
func (r *Reader) Skip() error {
	switch r.cur.Type {
	case WireVarint:
		_, err := r.varint()
		return err
	case WireFixed64:
		return r.skipN(8)
	case WireFixed32:
		return r.skipN(4)
	case WireBytes:
		_, err := r.delimited()
		return err
	default:
		return errors.Wrapf(errs.ErrCorruptInput, "cannot skip wire type %s", r.cur.Type)
	}
}

func (r *Reader) skipN(n int) error {
	if r.Remaining() < n {
		return errors.Wrapf(errs.ErrCorruptInput, "field %d: truncated %s", r.cur.Num, r.cur.Type)
	}
	r.off += n

	return nil
}

// PackedUint32 appends the values of the current repeated uint32 field to dst.
// Both the packed and the unpacked (one varint per field) encodings are accepted.
func (r *Reader) PackedUint32(dst []uint32) ([]uint32, error) {
	if r.cur.Type == WireVarint {
		v, err := r.Uint32()
		if err != nil {
			return dst, err
		}

		return append(dst, v), nil
	}

	b, err := r.Bytes()
	if err != nil {
		return dst, err
	}

	for off := 0; off < len(b); {
		v, n := binary.Uvarint(b[off:])
		if n <= 0 {
			return dst, errors.Wrapf(errs.ErrCorruptInput, "field %d: malformed packed varint", r.cur.Num)
		}
		if v > math.MaxUint32 {
			return dst, errors.Wrapf(errs.ErrCorruptInput, "field %d: packed value %d overflows uint32", r.cur.Num, v)
		}
		off += n
		dst = append(dst, uint32(v))
	}

	return dst, nil
}

// PackedSint64 appends the values of the current repeated sint64 field to dst.
// Both the packed and the unpacked encodings are accepted.
func (r *Reader) PackedSint64(dst []int64) ([]int64, error) {
	if r.cur.Type == WireVarint {
		v, err := r.Sint64()
		if err != nil {
			return dst, err
		}

		return append(dst, v), nil
	}

	b, err := r.Bytes()
	if err != nil {
		return dst, err
	}

	for off := 0; off < len(b); {
		v, n := binary.Uvarint(b[off:])
		if n <= 0 {
			return dst, errors.Wrapf(errs.ErrCorruptInput, "field %d: malformed packed varint", r.cur.Num)
		}
		off += n
		dst = append(dst, DecodeZigZag(v))
	}

	return dst, nil
}
