package pbf

import (
	"encoding/binary"
	"math"

	"github.com/arloliu/geobuf/endian"
	"github.com/arloliu/geobuf/internal/pool"
)

// Writer appends protocol buffer fields to a pooled buffer.
//
// Fields are written in the order the methods are called; geobuf encoders call
// them in ascending field number order so that output is deterministic.
// A Writer is not safe for concurrent use.
type Writer struct {
	buf    *pool.ByteBuffer
	temp   [binary.MaxVarintLen64]byte
	engine endian.EndianEngine
	doc    bool
}

// NewWriter creates a Writer backed by a pooled document buffer.
func NewWriter() *Writer {
	return &Writer{
		buf:    pool.GetDocumentBuffer(),
		engine: endian.Wire(),
		doc:    true,
	}
}

func newMessageWriter() *Writer {
	return &Writer{
		buf:    pool.GetMessageBuffer(),
		engine: endian.Wire(),
	}
}

// Bytes returns the bytes written so far.
//
// The returned slice shares the writer's buffer and is only valid until the
// next write or Release.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset discards everything written while keeping the buffer.
func (w *Writer) Reset() {
	w.buf.Reset()
}

// Finish returns a copy of the written bytes owned by the caller and releases
// the writer. The writer must not be used afterwards.
func (w *Writer) Finish() []byte {
	out := make([]byte, w.buf.Len())
	copy(out, w.buf.Bytes())
	w.Release()

	return out
}

// Release returns the buffer to its pool. Calling Release twice is harmless.
func (w *Writer) Release() {
	if w.buf == nil {
		return
	}

	if w.doc {
		pool.PutDocumentBuffer(w.buf)
	} else {
		pool.PutMessageBuffer(w.buf)
	}
	w.buf = nil
}

// AppendVarint writes v as an unsigned varint with no tag.
func (w *Writer) AppendVarint(v uint64) {
	n := binary.PutUvarint(w.temp[:], v)
	w.buf.MustWrite(w.temp[:n])
}

// Raw appends already encoded bytes.
func (w *Writer) Raw(data []byte) {
	w.buf.MustWrite(data)
}

// Tag writes a field key combining field number and wire type.
func (w *Writer) Tag(field int, wt WireType) {
	w.AppendVarint(uint64(field)<<3 | uint64(wt)) //nolint:gosec
}

// Uint32 writes a varint field.
func (w *Writer) Uint32(field int, v uint32) {
	w.Tag(field, WireVarint)
	w.AppendVarint(uint64(v))
}

// Uint64 writes a varint field.
func (w *Writer) Uint64(field int, v uint64) {
	w.Tag(field, WireVarint)
	w.AppendVarint(v)
}

// Sint64 writes a zigzag varint field.
func (w *Writer) Sint64(field int, v int64) {
	w.Tag(field, WireVarint)
	w.AppendVarint(EncodeZigZag(v))
}

// Bool writes a varint field holding 0 or 1.
func (w *Writer) Bool(field int, v bool) {
	w.Tag(field, WireVarint)
	if v {
		_ = w.buf.WriteByte(1)
	} else {
		_ = w.buf.WriteByte(0)
	}
}

// Double writes a fixed64 field holding the IEEE 754 bits of v.
func (w *Writer) Double(field int, v float64) {
	w.Tag(field, WireFixed64)
	w.buf.B = w.engine.AppendUint64(w.buf.B, math.Float64bits(v))
}

// String writes a length-delimited UTF-8 field.
func (w *Writer) String(field int, s string) {
	w.Tag(field, WireBytes)
	w.AppendVarint(uint64(len(s)))
	w.buf.B = append(w.buf.B, s...)
}

// BytesField writes a length-delimited field. A nil or empty slice still
// writes the tag and a zero length.
func (w *Writer) BytesField(field int, data []byte) {
	w.Tag(field, WireBytes)
	w.AppendVarint(uint64(len(data)))
	w.buf.MustWrite(data)
}

// PackedUint32 writes values as one packed varint field. Nothing is written for
// an empty slice; use BytesField(field, nil) to mark an explicit empty list.
func (w *Writer) PackedUint32(field int, values []uint32) {
	if len(values) == 0 {
		return
	}

	size := 0
	for _, v := range values {
		size += VarintSize(uint64(v))
	}

	w.Tag(field, WireBytes)
	w.AppendVarint(uint64(size)) //nolint:gosec
	w.buf.Grow(size)
	for _, v := range values {
		w.AppendVarint(uint64(v))
	}
}

// PackedSint64 writes values as one packed zigzag varint field. Nothing is
// written for an empty slice.
func (w *Writer) PackedSint64(field int, values []int64) {
	if len(values) == 0 {
		return
	}

	size := 0
	for _, v := range values {
		size += VarintSize(EncodeZigZag(v))
	}

	w.Tag(field, WireBytes)
	w.AppendVarint(uint64(size)) //nolint:gosec
	w.buf.Grow(size)
	for _, v := range values {
		w.AppendVarint(EncodeZigZag(v))
	}
}

// Message writes a length-delimited sub message built by fn.
//
// fn receives a scratch writer; its output is framed and appended only when fn
// returns nil, so a failed sub message leaves no partial bytes behind.
func (w *Writer) Message(field int, fn func(*Writer) error) error {
	sub := newMessageWriter()
	defer sub.Release()

	if err := fn(sub); err != nil {
		return err
	}

	w.BytesField(field, sub.Bytes())

	return nil
}
