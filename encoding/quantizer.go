package encoding

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/format"
)

// MaxQuantized bounds the magnitude of a quantized coordinate.
//
// Keeping |q| below 2^62 guarantees that the difference of any two quantized
// values fits in an int64, so delta chains never wrap.
const MaxQuantized = 1 << 62

var pow10 = [format.MaxPrecision + 1]int64{
	1, 10, 100, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9,
	1e10, 1e11, 1e12, 1e13, 1e14, 1e15,
}

// ScaleForDigits returns 10^digits.
//
// Parameters:
//   - digits: Number of decimal digits, 0 to format.MaxPrecision
//
// Returns:
//   - int64: The scale factor
//   - bool: false when digits is out of range
func ScaleForDigits(digits int) (int64, bool) {
	if digits < 0 || digits > format.MaxPrecision {
		return 0, false
	}

	return pow10[digits], true
}

// DigitsForScale returns the digit count of a power-of-ten scale factor.
// It reports false for any other value.
func DigitsForScale(scale int64) (int, bool) {
	for d, s := range pow10 {
		if s == scale {
			return d, true
		}
	}

	return 0, false
}

// Quantizer converts coordinates to fixed point integers at a decimal scale.
//
// The zero Quantizer uses a scale of 1 (zero digits).
type Quantizer struct {
	digits int
	scale  float64
}

// NewQuantizer creates a quantizer for the given number of decimal digits.
//
// Returns an error wrapping errs.ErrInvalidOption when digits is outside
// 0..format.MaxPrecision.
func NewQuantizer(digits int) (Quantizer, error) {
	s, ok := ScaleForDigits(digits)
	if !ok {
		return Quantizer{}, errors.Wrapf(errs.ErrInvalidOption, "precision %d outside [0, %d]", digits, format.MaxPrecision)
	}

	return Quantizer{digits: digits, scale: float64(s)}, nil
}

// Digits returns the number of decimal digits kept.
func (q Quantizer) Digits() int {
	return q.digits
}

// Scale returns the scale factor 10^Digits.
func (q Quantizer) Scale() int64 {
	return pow10[q.digits]
}

func (q Quantizer) factor() float64 {
	if q.scale == 0 {
		return 1
	}

	return q.scale
}

// Quantize returns round(v * scale), rounding half away from zero.
//
// Returns an error wrapping errs.ErrPrecisionOverflow when v is not finite or
// the rounded result reaches MaxQuantized in magnitude.
func (q Quantizer) Quantize(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Wrapf(errs.ErrPrecisionOverflow, "coordinate %v is not finite", v)
	}

	r := math.Round(v * q.factor())
	if math.Abs(r) >= MaxQuantized {
		return 0, errors.Wrapf(errs.ErrPrecisionOverflow, "coordinate %v exceeds the integer range at %d digits", v, q.digits)
	}

	return int64(r), nil
}

// Dequantize returns x / scale.
func (q Quantizer) Dequantize(x int64) float64 {
	return float64(x) / q.factor()
}

// Exact reports whether v survives Quantize and Dequantize unchanged.
func (q Quantizer) Exact(v float64) bool {
	s := q.factor()
	return math.Round(v*s)/s == v
}

// DigitsFitter finds the smallest precision that represents every observed
// coordinate exactly, capped at a maximum.
//
// Observing values in any order yields the same result.
type DigitsFitter struct {
	max    int
	digits int
}

// NewDigitsFitter creates a fitter that never exceeds maxDigits.
func NewDigitsFitter(maxDigits int) *DigitsFitter {
	return &DigitsFitter{max: maxDigits}
}

// Observe widens the precision until v is exactly representable or the
// maximum is reached.
func (f *DigitsFitter) Observe(v float64) {
	for f.digits < f.max {
		s := float64(pow10[f.digits])
		if math.Round(v*s)/s == v {
			return
		}
		f.digits++
	}
}

// Digits returns the fitted precision.
func (f *DigitsFitter) Digits() int {
	return f.digits
}
