// Package encoding provides the numeric building blocks of the geobuf format.
//
// Geobuf stores geometry as integers: every ordinate is multiplied by a power
// of ten, rounded, and written as the difference from the previous vertex of
// the same ring or line. Property keys are stored once in a document-wide
// dictionary and referenced by index.
//
// # Components
//
//   - KeyDictionary: ordered, index-addressable set of property keys
//   - Quantizer: fixed point conversion at 0 to 15 decimal digits
//   - DigitsFitter: smallest precision that keeps every coordinate exact
//   - CoordDeltaEncoder/CoordDeltaDecoder: per-axis delta chains
//
// # Quantization
//
// With d digits the scale factor is S = 10^d and a value v is stored as
// round(v*S). Decoding divides by S, so the reconstructed value lies within
// 0.5/S of the input:
//
//	q, _ := encoding.NewQuantizer(6)
//	x, _ := q.Quantize(13.4166667)  // 13416667
//	q.Dequantize(x)                 // 13.416667
//
// Values whose rounded magnitude reaches MaxQuantized (2^62) fail with
// errs.ErrPrecisionOverflow, as do NaN and infinities.
//
// # Delta Chains
//
// A chain starts with absolute values and continues with per-axis deltas:
//
//	positions: (100.0, 0.0) (101.0, 0.0) (101.0, 1.0)
//	quantized: (100000000, 0) (101000000, 0) (101000000, 1000000)
//	written:   100000000 0 1000000 0 0 1000000
//
// The writer zigzag-encodes each delta into a packed varint field, so
// neighbouring vertices usually cost one or two bytes per axis.
//
// # Thread Safety
//
// Encoders, decoders and dictionaries are per call and not safe for concurrent
// mutation. Quantizer is an immutable value.
package encoding
