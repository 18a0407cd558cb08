// Package errs defines the error taxonomy shared by every geobuf package.
//
// Callers distinguish failure kinds with errors.Is against the sentinels below.
// Every error returned by the codec wraps exactly one of them.
package errs

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidGeoJSON is returned when the input tree is not a recognizable
	// GeoJSON object (missing or unknown "type", malformed coordinates, ...).
	ErrInvalidGeoJSON = errors.New("invalid geojson")

	// ErrUnsupportedGeometryType is returned on decode when a geometry carries a
	// type tag outside Point..GeometryCollection.
	ErrUnsupportedGeometryType = errors.New("unsupported geometry type")

	// ErrCorruptInput is returned on decode for truncated buffers, malformed
	// varints, out-of-range lengths or indices, and wire type mismatches.
	ErrCorruptInput = errors.New("corrupt input")

	// ErrPrecisionOverflow is returned when a coordinate scaled by the precision
	// factor does not fit the quantized integer range.
	ErrPrecisionOverflow = errors.New("precision overflow")

	// ErrDepthLimitExceeded is returned when GeometryCollection nesting (or JSON
	// nesting while parsing) goes beyond the configured maximum.
	ErrDepthLimitExceeded = errors.New("depth limit exceeded")

	// ErrKeyDictionaryOverflow is returned when a document holds more distinct
	// keys than a uint32 index can address.
	ErrKeyDictionaryOverflow = errors.New("key dictionary overflow")

	// ErrInvalidJSON is returned when JSON or YAML text cannot be parsed.
	ErrInvalidJSON = errors.New("invalid json")

	// ErrInvalidOption is returned by encoder/decoder constructors for
	// out-of-range configuration values.
	ErrInvalidOption = errors.New("invalid option")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrInvalidGeoJSON, "InvalidGeoJSON"},
	{ErrUnsupportedGeometryType, "UnsupportedGeometryType"},
	{ErrCorruptInput, "CorruptInput"},
	{ErrPrecisionOverflow, "PrecisionOverflow"},
	{ErrDepthLimitExceeded, "DepthLimitExceeded"},
	{ErrKeyDictionaryOverflow, "KeyDictionaryOverflow"},
	{ErrInvalidJSON, "InvalidJSON"},
	{ErrInvalidOption, "InvalidOption"},
}

// KindOf returns the taxonomy name of err, or "Unknown" when err does not wrap
// any geobuf sentinel. It returns an empty string for a nil error.
func KindOf(err error) string {
	if err == nil {
		return ""
	}

	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}

	return "Unknown"
}
