// Package geobuf converts GeoJSON documents to and from Geobuf, a compact
// protocol buffer encoding of GeoJSON.
//
// Geobuf keeps every GeoJSON construct: all geometry kinds including nested
// GeometryCollections, feature ids and properties, and foreign members at
// every level. Coordinates are stored as integers at a fixed decimal
// precision (6 digits by default), so a round trip is lossless up to that
// precision and exact for everything else.
//
// # Core Features
//
//   - Shared key dictionary and typed property values (strings, integers of
//     either sign up to 64 bits, doubles, booleans, nested JSON)
//   - Per-ring delta encoding of quantized coordinates in packed zigzag varints
//   - Mixed 2D/3D documents: a geometry is 3D when a Z ordinate is nonzero
//   - Deterministic output: the same input and options give the same bytes,
//     and re-encoding a decoded document reproduces them
//   - Optional adaptive precision and parallel feature encoding
//
// # Basic Usage
//
// Encoding GeoJSON text:
//
//	import "github.com/arloliu/geobuf"
//
//	pbf, err := geobuf.Encode([]byte(`{"type":"Point","coordinates":[120.4,31.4]}`))
//
//	// Keep 8 decimal digits instead of 6
//	pbf, err = geobuf.Encode(data, codec.WithPrecision(8))
//
// Decoding back to JSON text:
//
//	text, err := geobuf.DecodeJSON(pbf, jsontree.RenderOptions{Indent: "  "})
//
// Inspecting the wire structure:
//
//	dump, err := geobuf.Dump(pbf)
//
// # Package Structure
//
// This package wraps the codec, geojson and jsontree packages for the common
// text-in, bytes-out cases. Use codec.Encoder and codec.Decoder directly to
// work on geojson.Document values.
package geobuf

import (
	"math"

	"github.com/arloliu/geobuf/codec"
	"github.com/arloliu/geobuf/geojson"
	"github.com/arloliu/geobuf/internal/hash"
	"github.com/arloliu/geobuf/jsontree"
	"github.com/arloliu/geobuf/pbf"
)

// Encode converts GeoJSON text to Geobuf.
//
// Parameters:
//   - json: A GeoJSON geometry, Feature or FeatureCollection
//   - opts: Encoder options (codec.WithPrecision, codec.WithScale, ...)
//
// Returns:
//   - []byte: Encoded Geobuf message
//   - error: errs.ErrInvalidJSON for malformed text, errs.ErrInvalidGeoJSON for
//     a tree that is not GeoJSON, or any error of EncodeTree
func Encode(json []byte, opts ...codec.EncoderOption) ([]byte, error) {
	v, err := jsontree.Parse(json)
	if err != nil {
		return nil, err
	}

	return EncodeTree(v, opts...)
}

// EncodeTree converts a parsed GeoJSON tree to Geobuf.
//
// Returns:
//   - []byte: Encoded Geobuf message
//   - error: errs.ErrInvalidOption, errs.ErrInvalidGeoJSON,
//     errs.ErrPrecisionOverflow, errs.ErrDepthLimitExceeded or
//     errs.ErrKeyDictionaryOverflow
func EncodeTree(v jsontree.Value, opts ...codec.EncoderOption) ([]byte, error) {
	enc, err := codec.NewEncoder(opts...)
	if err != nil {
		return nil, err
	}

	doc, err := geojson.FromTree(v, enc.Config().MaxDepth())
	if err != nil {
		return nil, err
	}

	return enc.Encode(doc)
}

// Decode converts Geobuf to a GeoJSON tree.
//
// Returns:
//   - jsontree.Value: The decoded GeoJSON object
//   - error: errs.ErrCorruptInput, errs.ErrUnsupportedGeometryType or
//     errs.ErrDepthLimitExceeded
func Decode(buf []byte, opts ...codec.DecoderOption) (jsontree.Value, error) {
	dec, err := codec.NewDecoder(opts...)
	if err != nil {
		return jsontree.Null(), err
	}

	doc, err := dec.Decode(buf)
	if err != nil {
		return jsontree.Null(), err
	}

	return doc.Tree(), nil
}

// DecodeJSON converts Geobuf to GeoJSON text rendered with render.
func DecodeJSON(buf []byte, render jsontree.RenderOptions, opts ...codec.DecoderOption) ([]byte, error) {
	v, err := Decode(buf, opts...)
	if err != nil {
		return nil, err
	}

	return jsontree.Marshal(v, render)
}

// Dump renders the protocol buffer field structure of buf for debugging.
func Dump(buf []byte) (string, error) {
	return pbf.Dump(buf, "")
}

// Normalize renders GeoJSON text through the document model, the way a decoded
// document is rendered: features always carry "properties", positions of 3D
// geometries have three ordinates and members follow the decoder's order.
// Coordinates are not quantized.
func Normalize(json []byte, render jsontree.RenderOptions) ([]byte, error) {
	v, err := jsontree.Parse(json)
	if err != nil {
		return nil, err
	}

	normalized, err := NormalizeTree(v)
	if err != nil {
		return nil, err
	}

	return jsontree.Marshal(normalized, render)
}

// NormalizeTree is Normalize on a parsed tree.
func NormalizeTree(v jsontree.Value) (jsontree.Value, error) {
	doc, err := geojson.FromTree(v, 0)
	if err != nil {
		return jsontree.Null(), err
	}

	return doc.Tree(), nil
}

// NormalizeGeobuf decodes buf and encodes it again with opts, which gives the
// canonical field layout (and precision) for data written by other encoders.
func NormalizeGeobuf(buf []byte, opts ...codec.EncoderOption) ([]byte, error) {
	enc, err := codec.NewEncoder(opts...)
	if err != nil {
		return nil, err
	}

	dec, err := codec.NewDecoder(codec.WithDecoderMaxDepth(enc.Config().MaxDepth()))
	if err != nil {
		return nil, err
	}

	doc, err := dec.Decode(buf)
	if err != nil {
		return nil, err
	}

	return enc.Encode(doc)
}

// Fingerprint returns the xxHash64 of the compact, key-sorted rendering of v.
// Trees that differ only in object member order, or in the kind of an
// integral number (2 and 2.0), share a fingerprint.
func Fingerprint(v jsontree.Value) (uint64, error) {
	text, err := jsontree.Marshal(integralAsInt(v), jsontree.RenderOptions{SortKeys: true})
	if err != nil {
		return 0, err
	}

	return hash.Fingerprint(text), nil
}

// maxExactInt is the largest magnitude below which every integer is an exact double.
const maxExactInt = 1 << 53

// integralAsInt rewrites integral doubles in the exact integer range as Int.
func integralAsInt(v jsontree.Value) jsontree.Value {
	switch v.Kind() {
	case jsontree.KindDouble:
		f, _ := v.AsFloat64()
		if f == math.Trunc(f) && math.Abs(f) < maxExactInt {
			return jsontree.Int(int64(f))
		}
	case jsontree.KindArray:
		items := v.Array()
		out := make([]jsontree.Value, len(items))
		for i, item := range items {
			out[i] = integralAsInt(item)
		}

		return jsontree.ArrayOf(out...)
	case jsontree.KindObject:
		obj := v.Object()
		out := jsontree.NewObject(obj.Len())
		for k, item := range obj.All() {
			out.Set(k, integralAsInt(item))
		}

		return jsontree.ObjectOf(out)
	}

	return v
}
