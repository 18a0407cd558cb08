package codec

import (
	"github.com/cockroachdb/errors"

	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/jsontree"
	"github.com/arloliu/geobuf/pbf"
)

// writeValue writes v as the fields of a Value message.
//
// Scalars use their typed field. Integers are split by sign into pos_int and
// neg_int (magnitude), raw bytes use the bytes field, and null, arrays and
// objects are stored as compact JSON text. JSON text has no byte strings, so
// raw bytes nested in an array or object are rejected.
func writeValue(w *pbf.Writer, v jsontree.Value) error {
	switch v.Kind() {
	case jsontree.KindString:
		s, _ := v.AsString()
		w.String(format.ValueString, s)
	case jsontree.KindDouble:
		f, _ := v.AsFloat64()
		w.Double(format.ValueDouble, f)
	case jsontree.KindInt:
		i, _ := v.AsInt64()
		if i >= 0 {
			w.Uint64(format.ValuePosInt, uint64(i))
		} else {
			w.Uint64(format.ValueNegInt, uint64(-(i+1))+1) //nolint:gosec
		}
	case jsontree.KindUint:
		u, _ := v.AsUint64()
		w.Uint64(format.ValuePosInt, u)
	case jsontree.KindBool:
		b, _ := v.AsBool()
		w.Bool(format.ValueBool, b)
	case jsontree.KindBytes:
		b, _ := v.AsBytes()
		w.BytesField(format.ValueBytes, b)
	default:
		if nestedBytes(v) {
			return errors.Wrapf(errs.ErrInvalidGeoJSON, "raw bytes nested in %s property value", v.Kind())
		}
		text, err := jsontree.Marshal(v, jsontree.Compact)
		if err != nil {
			return err
		}
		w.BytesField(format.ValueJSON, text)
	}

	return nil
}

// nestedBytes reports whether an array or object holds raw bytes at any depth.
func nestedBytes(v jsontree.Value) bool {
	switch v.Kind() {
	case jsontree.KindBytes:
		return true
	case jsontree.KindArray:
		for _, item := range v.Array() {
			if nestedBytes(item) {
				return true
			}
		}
	case jsontree.KindObject:
		for _, item := range v.Object().All() {
			if nestedBytes(item) {
				return true
			}
		}
	}

	return false
}
