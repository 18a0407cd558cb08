package codec

import (
	"io"
	"math"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/geobuf/encoding"
	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/jsontree"
	"github.com/arloliu/geobuf/pbf"
)

// readValue decodes a Value message. A message without a value field is null.
func readValue(r *pbf.Reader) (jsontree.Value, error) {
	v := jsontree.Null()

	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			return v, nil
		}
		if err != nil {
			return v, err
		}

		switch f.Num {
		case format.ValueString:
			s, err := r.String()
			if err != nil {
				return v, err
			}
			v = jsontree.String(s)
		case format.ValueDouble:
			d, err := r.Double()
			if err != nil {
				return v, err
			}
			v = jsontree.Double(d)
		case format.ValuePosInt:
			u, err := r.Varint()
			if err != nil {
				return v, err
			}
			if u <= math.MaxInt64 {
				v = jsontree.Int(int64(u))
			} else {
				v = jsontree.Uint(u)
			}
		case format.ValueNegInt:
			u, err := r.Varint()
			if err != nil {
				return v, err
			}
			v = negative(u)
		case format.ValueBool:
			b, err := r.Bool()
			if err != nil {
				return v, err
			}
			v = jsontree.Bool(b)
		case format.ValueJSON:
			text, err := r.Bytes()
			if err != nil {
				return v, err
			}
			parsed, err := jsontree.Parse(text)
			if err != nil {
				return v, errors.Wrapf(errs.ErrCorruptInput, "json value: %v", err)
			}
			v = parsed
		case format.ValueBytes:
			b, err := r.Bytes()
			if err != nil {
				return v, err
			}
			v = jsontree.Bytes(append([]byte{}, b...))
		default:
			if err := r.Skip(); err != nil {
				return v, err
			}
		}
	}
}

// negative returns -u, falling back to a double below the int64 range.
func negative(u uint64) jsontree.Value {
	switch {
	case u == 1<<63:
		return jsontree.Int(math.MinInt64)
	case u < 1<<63:
		return jsontree.Int(-int64(u))
	default:
		return jsontree.Double(-float64(u))
	}
}

// pairList collects the packed (key index, value index) pairs of one
// properties field.
type pairList struct {
	indices []uint32
	base    int
	seen    bool
}

// propertyReader gathers the values and key/value pairs of a message.
//
// Value indices of a pairs field count from the values appended since the
// previous pairs field when there are any, and from the first value of the
// message otherwise. This reads both the layout written by Encoder (all values
// first) and the interleaved layout of the reference JavaScript encoder.
type propertyReader struct {
	values []jsontree.Value
	mark   int
	props  pairList
	custom pairList
}

// read consumes the current field when it is a values or pairs field and
// skips it otherwise. A zero propsField disables the properties field.
func (p *propertyReader) read(r *pbf.Reader, valuesField, propsField, customField int) error {
	switch n := r.Field().Num; {
	case n == valuesField:
		msg, err := r.Message()
		if err != nil {
			return err
		}
		v, err := readValue(msg)
		if err != nil {
			return err
		}
		p.values = append(p.values, v)

		return nil
	case propsField != 0 && n == propsField:
		return p.collect(r, &p.props)
	case n == customField:
		return p.collect(r, &p.custom)
	default:
		return r.Skip()
	}
}

func (p *propertyReader) collect(r *pbf.Reader, list *pairList) error {
	if !list.seen {
		list.seen = true
		if len(p.values) > p.mark {
			list.base = p.mark
		}
	}

	var err error
	list.indices, err = r.PackedUint32(list.indices)
	p.mark = len(p.values)

	return err
}

// resolve builds the object described by the pairs. It returns nil when the
// field never appeared.
func (l *pairList) resolve(keys *encoding.KeyDictionary, values []jsontree.Value) (*jsontree.Object, error) {
	if !l.seen {
		return nil, nil
	}
	if len(l.indices)%2 != 0 {
		return nil, errors.Wrapf(errs.ErrCorruptInput, "odd number of property indices (%d)", len(l.indices))
	}

	obj := jsontree.NewObject(len(l.indices) / 2)
	for i := 0; i < len(l.indices); i += 2 {
		key, ok := keys.Key(l.indices[i])
		if !ok {
			return nil, errors.Wrapf(errs.ErrCorruptInput, "key index %d out of range (%d keys)", l.indices[i], keys.Len())
		}
		vi := l.base + int(l.indices[i+1])
		if vi >= len(values) {
			return nil, errors.Wrapf(errs.ErrCorruptInput, "value index %d out of range (%d values)", l.indices[i+1], len(values))
		}
		obj.Set(key, values[vi])
	}

	return obj, nil
}
