package jsontree

import (
	"bytes"
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	gojson "github.com/goccy/go-json"

	"github.com/arloliu/geobuf/errs"
)

// RenderOptions controls the textual form produced by Marshal.
type RenderOptions struct {
	// Indent is repeated once per nesting level; empty means compact output.
	Indent string
	// SortKeys orders object members by key instead of insertion order.
	SortKeys bool
}

// Compact renders without whitespace, members in insertion order.
var Compact = RenderOptions{}

// Marshal renders v as JSON text.
//
// Bytes values are rendered as base64 strings. NaN and infinite doubles have no
// JSON form and fail with errs.ErrInvalidJSON.
func Marshal(v Value, opts RenderOptions) ([]byte, error) {
	r := renderer{opts: opts}
	if err := r.value(v, 0); err != nil {
		return nil, err
	}

	return r.buf, nil
}

// MarshalString is Marshal returning a string.
func MarshalString(v Value, opts RenderOptions) (string, error) {
	b, err := Marshal(v, opts)
	return string(b), err
}

type renderer struct {
	buf  []byte
	opts RenderOptions
}

func (r *renderer) newline(depth int) {
	if r.opts.Indent == "" {
		return
	}
	r.buf = append(r.buf, '\n')
	r.buf = append(r.buf, strings.Repeat(r.opts.Indent, depth)...)
}

func (r *renderer) value(v Value, depth int) error {
	switch v.kind {
	case KindNull:
		r.buf = append(r.buf, "null"...)
	case KindBool:
		r.buf = strconv.AppendBool(r.buf, v.num != 0)
	case KindInt:
		r.buf = strconv.AppendInt(r.buf, int64(v.num), 10) //nolint:gosec
	case KindUint:
		r.buf = strconv.AppendUint(r.buf, v.num, 10)
	case KindDouble:
		f := math.Float64frombits(v.num)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.Wrapf(errs.ErrInvalidJSON, "cannot render %v", f)
		}
		b, err := gojson.Marshal(f)
		if err != nil {
			return errors.Wrapf(errs.ErrInvalidJSON, "%v", err)
		}
		r.buf = append(r.buf, b...)
		// integral doubles keep a fraction so they parse back as doubles
		if !bytes.ContainsAny(b, ".eE") {
			r.buf = append(r.buf, ".0"...)
		}
	case KindString:
		return r.string(v.str)
	case KindBytes:
		return r.string(base64.StdEncoding.EncodeToString(v.raw))
	case KindArray:
		return r.array(v.arr, depth)
	case KindObject:
		return r.object(v.obj, depth)
	}

	return nil
}

func (r *renderer) string(s string) error {
	b, err := gojson.MarshalNoEscape(s)
	if err != nil {
		return errors.Wrapf(errs.ErrInvalidJSON, "%v", err)
	}
	r.buf = append(r.buf, b...)

	return nil
}

func (r *renderer) array(items []Value, depth int) error {
	if len(items) == 0 {
		r.buf = append(r.buf, "[]"...)
		return nil
	}

	r.buf = append(r.buf, '[')
	for i, item := range items {
		if i > 0 {
			r.buf = append(r.buf, ',')
		}
		r.newline(depth + 1)
		if err := r.value(item, depth+1); err != nil {
			return err
		}
	}
	r.newline(depth)
	r.buf = append(r.buf, ']')

	return nil
}

func (r *renderer) object(obj *Object, depth int) error {
	if obj.Len() == 0 {
		r.buf = append(r.buf, "{}"...)
		return nil
	}

	var order []int
	if r.opts.SortKeys {
		order = obj.sortedIndexes()
	}

	r.buf = append(r.buf, '{')
	for n := 0; n < obj.Len(); n++ {
		i := n
		if order != nil {
			i = order[n]
		}
		if n > 0 {
			r.buf = append(r.buf, ',')
		}
		r.newline(depth + 1)
		if err := r.string(obj.keys[i]); err != nil {
			return err
		}
		r.buf = append(r.buf, ':')
		if r.opts.Indent != "" {
			r.buf = append(r.buf, ' ')
		}
		if err := r.value(obj.values[i], depth+1); err != nil {
			return err
		}
	}
	r.newline(depth)
	r.buf = append(r.buf, '}')

	return nil
}
