package codec

import (
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/geojson"
	"github.com/arloliu/geobuf/jsontree"
	"github.com/arloliu/geobuf/pbf"
)

// ==============================================================================
// Helper Functions

func parseJSON(t *testing.T, text string) jsontree.Value {
	t.Helper()

	v, err := jsontree.Parse([]byte(text))
	require.NoError(t, err)

	return v
}

func docFromJSON(t *testing.T, text string) *geojson.Document {
	t.Helper()

	doc, err := geojson.FromTree(parseJSON(t, text), 0)
	require.NoError(t, err)

	return doc
}

func encodeJSON(t *testing.T, text string, opts ...EncoderOption) []byte {
	t.Helper()

	enc, err := NewEncoder(opts...)
	require.NoError(t, err)
	data, err := enc.Encode(docFromJSON(t, text))
	require.NoError(t, err)

	return data
}

func decodeTree(t *testing.T, data []byte, opts ...DecoderOption) jsontree.Value {
	t.Helper()

	dec, err := NewDecoder(opts...)
	require.NoError(t, err)
	doc, err := dec.Decode(data)
	require.NoError(t, err)

	return doc.Tree()
}

func decodeErr(t *testing.T, data []byte) error {
	t.Helper()

	dec, err := NewDecoder()
	require.NoError(t, err)
	doc, err := dec.Decode(data)
	require.Nil(t, doc)

	return err
}

// buildMessage returns the bytes written by fn.
func buildMessage(t *testing.T, fn func(w *pbf.Writer)) []byte {
	t.Helper()

	w := pbf.NewWriter()
	fn(w)

	return w.Finish()
}

// sub writes a sub message built by fn.
func sub(w *pbf.Writer, field int, fn func(w *pbf.Writer)) {
	_ = w.Message(field, func(m *pbf.Writer) error {
		fn(m)
		return nil
	})
}

// scanGeometry calls fn for every field of the top-level Geometry message
// of data.
func scanGeometry(t *testing.T, data []byte, fn func(r *pbf.Reader, f pbf.Field)) {
	t.Helper()

	h, err := scanHeader(data)
	require.NoError(t, err)

	r := pbf.NewReader(h.payload)
	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err)
		fn(r, f)
	}
}

func coordsOf(t *testing.T, data []byte) []int64 {
	t.Helper()

	var coords []int64
	scanGeometry(t, data, func(r *pbf.Reader, f pbf.Field) {
		var err error
		if f.Num == format.GeometryCoords {
			coords, err = r.PackedSint64(coords)
		} else {
			err = r.Skip()
		}
		require.NoError(t, err)
	})

	return coords
}

func lengthsOf(t *testing.T, data []byte) ([]uint32, bool) {
	t.Helper()

	var lengths []uint32
	found := false
	scanGeometry(t, data, func(r *pbf.Reader, f pbf.Field) {
		var err error
		if f.Num == format.GeometryLengths {
			found = true
			lengths, err = r.PackedUint32(lengths)
		} else {
			err = r.Skip()
		}
		require.NoError(t, err)
	})

	return lengths, found
}
