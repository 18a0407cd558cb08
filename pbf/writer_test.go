package pbf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriter_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
		want  []byte
	}{
		{"uint32", func(w *Writer) { w.Uint32(1, 150) }, []byte{0x08, 0x96, 0x01}},
		{"uint64", func(w *Writer) { w.Uint64(3, 1) }, []byte{0x18, 0x01}},
		{"sint64 negative", func(w *Writer) { w.Sint64(2, -1) }, []byte{0x10, 0x01}},
		{"sint64 positive", func(w *Writer) { w.Sint64(12, 64) }, []byte{0x60, 0x80, 0x01}},
		{"bool true", func(w *Writer) { w.Bool(5, true) }, []byte{0x28, 0x01}},
		{"bool false", func(w *Writer) { w.Bool(5, false) }, []byte{0x28, 0x00}},
		{"string", func(w *Writer) { w.String(2, "testing") }, []byte{0x12, 0x07, 't', 'e', 's', 't', 'i', 'n', 'g'}},
		{"empty bytes", func(w *Writer) { w.BytesField(2, nil) }, []byte{0x12, 0x00}},
		{"double", func(w *Writer) { w.Double(1, 1.0) }, []byte{0x09, 0, 0, 0, 0, 0, 0, 0xf0, 0x3f}},
		{"large field number", func(w *Writer) { w.Uint32(15, 1) }, []byte{0x78, 0x01}},
		{"field 16 needs two bytes", func(w *Writer) { w.Uint32(16, 1) }, []byte{0x80, 0x01, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter()
			tt.write(w)
			require.Equal(t, tt.want, w.Finish())
		})
	}
}

func TestWriter_Packed(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	w.PackedSint64(3, []int64{1, -1, 64})
	w.PackedUint32(2, []uint32{3, 300})

	require.Equal(t, []byte{
		0x1a, 0x04, 0x02, 0x01, 0x80, 0x01, // field 3: zigzag 2, 1, 128
		0x12, 0x03, 0x03, 0xac, 0x02, // field 2: 3, 300
	}, w.Bytes())
}

func TestWriter_Packed_EmptyWritesNothing(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	w.PackedSint64(3, nil)
	w.PackedUint32(2, []uint32{})

	require.Equal(t, 0, w.Len())
}

func TestWriter_Message(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	err := w.Message(6, func(g *Writer) error {
		g.Uint32(1, 0)
		return g.Message(4, func(c *Writer) error {
			c.Uint32(1, 2)
			return nil
		})
	})
	require.NoError(t, err)

	require.Equal(t, []byte{0x32, 0x06, 0x08, 0x00, 0x22, 0x02, 0x08, 0x02}, w.Bytes())
}

func TestWriter_Message_FailureLeavesNoBytes(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	w.Uint32(2, 3)
	before := append([]byte(nil), w.Bytes()...)

	err := w.Message(6, func(g *Writer) error {
		g.String(1, "partial")
		return errTest
	})
	require.ErrorIs(t, err, errTest)
	require.Equal(t, before, w.Bytes())
}

func TestWriter_Reset(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	w.String(1, "abc")
	w.Reset()
	require.Equal(t, 0, w.Len())

	w.AppendVarint(300)
	w.Raw([]byte{0xff})
	require.Equal(t, []byte{0xac, 0x02, 0xff}, w.Bytes())
}

func TestWriter_ReleaseTwice(t *testing.T) {
	w := NewWriter()
	w.Release()
	require.NotPanics(t, w.Release)
}
