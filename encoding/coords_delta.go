package encoding

import (
	"github.com/cockroachdb/errors"

	"github.com/arloliu/geobuf/errs"
)

// Position is a coordinate triple. Two dimensional positions leave the third
// axis at zero.
type Position = [3]float64

// CoordDeltaEncoder quantizes positions and appends them as per-axis deltas.
//
// The first position after construction or Reset is stored as absolute
// quantized values; every following position stores q[i] - q[i-1] for each
// axis. The resulting integers are meant for a packed sint64 field, where the
// zigzag mapping keeps the small deltas of neighbouring vertices short.
//
// A chain covers one ring, line or point sequence. Callers Reset at every
// sub-sequence boundary so that each chain can be decoded independently.
type CoordDeltaEncoder struct {
	quant  Quantizer
	dims   int
	prev   [3]int64
	values []int64
	count  int
}

// NewCoordDeltaEncoder creates an encoder writing dims axes per position.
//
// Parameters:
//   - quant: Quantizer applied to every ordinate
//   - dims: Axes written per position, 2 or 3
//   - dst: Slice the deltas are appended to (may be nil, typically pooled)
func NewCoordDeltaEncoder(quant Quantizer, dims int, dst []int64) *CoordDeltaEncoder {
	return &CoordDeltaEncoder{
		quant:  quant,
		dims:   dims,
		values: dst[:0],
	}
}

// Write appends one position to the current chain.
//
// Returns an error wrapping errs.ErrPrecisionOverflow when an ordinate cannot
// be quantized; the chain is left unchanged in that case.
func (e *CoordDeltaEncoder) Write(p Position) error {
	var q [3]int64
	for axis := 0; axis < e.dims; axis++ {
		v, err := e.quant.Quantize(p[axis])
		if err != nil {
			return err
		}
		q[axis] = v
	}

	for axis := 0; axis < e.dims; axis++ {
		e.values = append(e.values, q[axis]-e.prev[axis])
		e.prev[axis] = q[axis]
	}
	e.count++

	return nil
}

// WriteSlice appends positions to the current chain.
func (e *CoordDeltaEncoder) WriteSlice(ps []Position) error {
	for _, p := range ps {
		if err := e.Write(p); err != nil {
			return err
		}
	}

	return nil
}

// Reset starts a new chain. Values written so far are kept.
func (e *CoordDeltaEncoder) Reset() {
	e.prev = [3]int64{}
}

// Values returns the encoded deltas.
func (e *CoordDeltaEncoder) Values() []int64 {
	return e.values
}

// Len returns the number of positions written.
func (e *CoordDeltaEncoder) Len() int {
	return e.count
}

// CoordDeltaDecoder reads positions back from a flat delta sequence.
//
// It mirrors CoordDeltaEncoder: a running per-axis sum is kept and cleared by
// Reset, which callers invoke at the same boundaries the encoder did.
type CoordDeltaDecoder struct {
	quant  Quantizer
	dims   int
	prev   [3]int64
	values []int64
	off    int
}

// NewCoordDeltaDecoder creates a decoder over values holding dims axes per
// position.
func NewCoordDeltaDecoder(quant Quantizer, dims int, values []int64) *CoordDeltaDecoder {
	return &CoordDeltaDecoder{
		quant:  quant,
		dims:   dims,
		values: values,
	}
}

// Reset starts a new chain at the current read position.
func (d *CoordDeltaDecoder) Reset() {
	d.prev = [3]int64{}
}

// Remaining returns the number of complete positions left.
func (d *CoordDeltaDecoder) Remaining() int {
	if d.dims <= 0 {
		return 0
	}

	return (len(d.values) - d.off) / d.dims
}

// Done reports whether every value has been consumed.
func (d *CoordDeltaDecoder) Done() bool {
	return d.off == len(d.values)
}

// Next decodes one position.
//
// Returns an error wrapping errs.ErrCorruptInput when fewer than dims values
// remain or when a running sum reaches MaxQuantized in magnitude, the bound
// every encoded coordinate stays below.
func (d *CoordDeltaDecoder) Next() (Position, error) {
	var p Position
	if len(d.values)-d.off < d.dims {
		return p, errors.Wrapf(errs.ErrCorruptInput, "%d values left for a %d-axis position", len(d.values)-d.off, d.dims)
	}

	for axis := 0; axis < d.dims; axis++ {
		prev, delta := d.prev[axis], d.values[d.off]
		// |prev| < MaxQuantized, so neither bound below overflows
		if (delta > 0 && delta >= MaxQuantized-prev) || (delta < 0 && delta <= -MaxQuantized-prev) {
			return p, errors.Wrapf(errs.ErrCorruptInput, "coordinate delta %d from %d out of range", delta, prev)
		}
		d.prev[axis] = prev + delta
		d.off++
		p[axis] = d.quant.Dequantize(d.prev[axis])
	}

	return p, nil
}

// ReadN appends n decoded positions to dst.
//
// Returns an error wrapping errs.ErrCorruptInput when the sequence holds fewer
// than n positions or a coordinate is out of range.
func (d *CoordDeltaDecoder) ReadN(dst []Position, n int) ([]Position, error) {
	if n < 0 || n > d.Remaining() {
		return dst, errors.Wrapf(errs.ErrCorruptInput, "need %d positions, %d left in coords", n, d.Remaining())
	}

	for range n {
		p, err := d.Next()
		if err != nil {
			return dst, err
		}
		dst = append(dst, p)
	}

	return dst, nil
}
