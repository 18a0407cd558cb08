package jsontree

import (
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"
	gojson "github.com/goccy/go-json"

	"github.com/arloliu/geobuf/errs"
)

// MaxParseDepth bounds array/object nesting accepted by Parse.
const MaxParseDepth = 1000

// Parse parses JSON text into a tree.
//
// Members keep their textual order; a repeated key keeps its first position
// and its last value. Integer literals become Int, or Uint above MaxInt64;
// literals with a fraction or exponent, and integers beyond 64 bits, become
// Double.
//
// Returns an error wrapping errs.ErrInvalidJSON for malformed text and
// errs.ErrDepthLimitExceeded for nesting deeper than MaxParseDepth.
func Parse(data []byte) (Value, error) {
	if !gojson.Valid(data) {
		return Value{}, errors.Wrap(errs.ErrInvalidJSON, "malformed json text")
	}

	raw, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return Value{}, errors.Wrapf(errs.ErrInvalidJSON, "%v", err)
	}

	return parseValue(raw, dataType, 0)
}

func parseValue(raw []byte, dataType jsonparser.ValueType, depth int) (Value, error) {
	switch dataType {
	case jsonparser.Null:
		return Null(), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return Value{}, errors.Wrapf(errs.ErrInvalidJSON, "%v", err)
		}

		return Bool(b), nil
	case jsonparser.Number:
		return parseNumber(string(raw))
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return Value{}, errors.Wrapf(errs.ErrInvalidJSON, "%v", err)
		}

		return String(s), nil
	case jsonparser.Array:
		return parseArray(raw, depth+1)
	case jsonparser.Object:
		return parseObject(raw, depth+1)
	default:
		return Value{}, errors.Wrapf(errs.ErrInvalidJSON, "unexpected token %q", truncate(raw))
	}
}

func parseNumber(text string) (Value, error) {
	if !strings.ContainsAny(text, ".eE") {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return Int(i), nil
		}
		if text[0] != '-' {
			if u, err := strconv.ParseUint(text, 10, 64); err == nil {
				return Uint(u), nil
			}
		}
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// ParseFloat returns ±Inf with ErrRange for huge literals
		return Value{}, errors.Wrapf(errs.ErrInvalidJSON, "number %q out of range", text)
	}

	return Double(f), nil
}

func parseArray(raw []byte, depth int) (Value, error) {
	if depth > MaxParseDepth {
		return Value{}, errors.Wrapf(errs.ErrDepthLimitExceeded, "json nesting deeper than %d", MaxParseDepth)
	}

	items := make([]Value, 0)
	var inner error
	_, err := jsonparser.ArrayEach(raw, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if inner != nil {
			return
		}
		if err != nil {
			inner = errors.Wrapf(errs.ErrInvalidJSON, "%v", err)
			return
		}

		item, err := parseValue(value, dataType, depth)
		if err != nil {
			inner = err
			return
		}
		items = append(items, item)
	})
	if inner != nil {
		return Value{}, inner
	}
	if err != nil {
		return Value{}, errors.Wrapf(errs.ErrInvalidJSON, "%v", err)
	}

	return ArrayOf(items...), nil
}

func parseObject(raw []byte, depth int) (Value, error) {
	if depth > MaxParseDepth {
		return Value{}, errors.Wrapf(errs.ErrDepthLimitExceeded, "json nesting deeper than %d", MaxParseDepth)
	}

	obj := NewObject()
	err := jsonparser.ObjectEach(raw, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		member, err := parseValue(value, dataType, depth)
		if err != nil {
			return err
		}
		obj.Set(string(key), member)

		return nil
	})
	if err != nil {
		if errors.Is(err, errs.ErrDepthLimitExceeded) || errors.Is(err, errs.ErrInvalidJSON) {
			return Value{}, err
		}

		return Value{}, errors.Wrapf(errs.ErrInvalidJSON, "%v", err)
	}

	return ObjectOf(obj), nil
}

func truncate(raw []byte) string {
	const limit = 32
	if len(raw) > limit {
		return string(raw[:limit]) + "..."
	}

	return string(raw)
}
