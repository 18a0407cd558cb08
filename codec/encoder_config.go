package codec

import (
	"github.com/cockroachdb/errors"

	"github.com/arloliu/geobuf/encoding"
	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/geojson"
	"github.com/arloliu/geobuf/internal/options"
)

// EncoderConfig holds the encoder settings.
type EncoderConfig struct {
	precision   int
	adaptive    bool
	maxDepth    int
	concurrency int
}

// NewEncoderConfig returns the default configuration: 6 digits, fixed
// precision, depth limit geojson.DefaultMaxDepth, sequential encoding.
func NewEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		precision:   format.DefaultPrecision,
		maxDepth:    geojson.DefaultMaxDepth,
		concurrency: 1,
	}
}

// Precision returns the configured number of decimal digits.
func (c *EncoderConfig) Precision() int { return c.precision }

// Adaptive reports whether the precision may be lowered to fit the data.
func (c *EncoderConfig) Adaptive() bool { return c.adaptive }

// MaxDepth returns the GeometryCollection nesting limit.
func (c *EncoderConfig) MaxDepth() int { return c.maxDepth }

// Concurrency returns the number of goroutines encoding features.
func (c *EncoderConfig) Concurrency() int { return c.concurrency }

func (c *EncoderConfig) setPrecision(digits int) error {
	if _, ok := encoding.ScaleForDigits(digits); !ok {
		return errors.Wrapf(errs.ErrInvalidOption, "precision %d outside [0, %d]", digits, format.MaxPrecision)
	}
	c.precision = digits

	return nil
}

// EncoderOption configures an EncoderConfig.
type EncoderOption = options.Option[*EncoderConfig]

// WithPrecision sets the number of decimal digits kept for coordinates.
//
// Parameters:
//   - digits: 0 to format.MaxPrecision (15); the default is 6
func WithPrecision(digits int) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		return c.setPrecision(digits)
	})
}

// WithScale sets the precision by scale factor. The scale must be a power of
// ten between 1 and 10^15.
func WithScale(scale int64) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		digits, ok := encoding.DigitsForScale(scale)
		if !ok {
			return errors.Wrapf(errs.ErrInvalidOption, "scale %d is not a power of ten in [1, 1e%d]", scale, format.MaxPrecision)
		}

		return c.setPrecision(digits)
	})
}

// WithAdaptivePrecision lets the encoder lower the precision to the smallest
// digit count that represents every coordinate exactly. The configured
// precision stays the upper bound.
func WithAdaptivePrecision(enabled bool) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.adaptive = enabled
	})
}

// WithMaxDepth sets the GeometryCollection nesting limit.
func WithMaxDepth(depth int) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if depth <= 0 {
			return errors.Wrapf(errs.ErrInvalidOption, "max depth %d must be positive", depth)
		}
		c.maxDepth = depth

		return nil
	})
}

// WithConcurrency encodes the features of a FeatureCollection on up to n
// goroutines. The output is identical to sequential encoding.
func WithConcurrency(n int) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if n <= 0 {
			return errors.Wrapf(errs.ErrInvalidOption, "concurrency %d must be positive", n)
		}
		c.concurrency = n

		return nil
	})
}
