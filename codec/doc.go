// Package codec converts between the typed GeoJSON model and geobuf bytes.
//
// Encoding runs in two passes. The analysis pass walks the whole document once
// to build the key dictionary, find the coordinate dimension and settle the
// precision. The write pass then serializes geometries, features and
// collections using dictionary indices and the quantizer. Nothing is written
// before the dictionary is complete, so the per-feature work of the write pass
// is independent and can run in parallel (see WithConcurrency).
//
// Decoding scans the top-level message for the key table, dimension and
// precision first, then decodes the payload in one linear pass.
//
// # Wire Layout
//
//	Data              keys=1 dimensions=2 precision=3
//	                  feature_collection=4 | feature=5 | geometry=6
//	FeatureCollection features=1 values=13 custom_properties=15
//	Feature           geometry=1 id=11 int_id=12 values=13
//	                  properties=14 custom_properties=15
//	Geometry          type=1 lengths=2 coords=3 geometries=4
//	                  dimensions=5 values=13 custom_properties=15
//	Value             string=1 double=2 pos_int=3 neg_int=4
//	                  bool=5 json=6 bytes=7
//
// Geometry dimensions=5 and Value bytes=7 extend the reference layout; they
// are only written for three dimensional geometries inside a two dimensional
// document (or the reverse) and for raw byte values.
//
// # Errors
//
// Encode and Decode either return a complete result or an error wrapping one
// of the errs sentinels; partial output is never returned.
package codec
