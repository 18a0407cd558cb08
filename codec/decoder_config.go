package codec

import (
	"github.com/cockroachdb/errors"

	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/geojson"
	"github.com/arloliu/geobuf/internal/options"
)

// DecoderConfig holds the decoder settings.
type DecoderConfig struct {
	maxDepth int
}

// NewDecoderConfig returns the default configuration.
func NewDecoderConfig() *DecoderConfig {
	return &DecoderConfig{maxDepth: geojson.DefaultMaxDepth}
}

// MaxDepth returns the GeometryCollection nesting limit.
func (c *DecoderConfig) MaxDepth() int { return c.maxDepth }

// DecoderOption configures a DecoderConfig.
type DecoderOption = options.Option[*DecoderConfig]

// WithDecoderMaxDepth sets the GeometryCollection nesting limit applied while
// decoding.
func WithDecoderMaxDepth(depth int) DecoderOption {
	return options.New(func(c *DecoderConfig) error {
		if depth <= 0 {
			return errors.Wrapf(errs.ErrInvalidOption, "max depth %d must be positive", depth)
		}
		c.maxDepth = depth

		return nil
	})
}
