package codec

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/geobuf/encoding"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/geojson"
	"github.com/arloliu/geobuf/internal/options"
	"github.com/arloliu/geobuf/jsontree"
	"github.com/arloliu/geobuf/pbf"
)

// Encoder serializes geojson documents into geobuf bytes.
//
// An Encoder only holds configuration; it is safe for concurrent use and every
// Encode call builds its own dictionary and buffers.
type Encoder struct {
	cfg *EncoderConfig
}

// NewEncoder creates an encoder.
//
// Parameters:
//   - opts: Optional settings (WithPrecision, WithScale, WithAdaptivePrecision,
//     WithMaxDepth, WithConcurrency)
//
// Returns:
//   - *Encoder: Encoder ready for use
//   - error: errs.ErrInvalidOption if an option is rejected
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	cfg := NewEncoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Encoder{cfg: cfg}, nil
}

// Config returns the encoder configuration.
func (e *Encoder) Config() *EncoderConfig {
	return e.cfg
}

// Encode serializes doc.
//
// The document is analyzed first (key dictionary, dimension, precision) and
// written afterwards; the same document and options always produce the same
// bytes.
//
// Returns:
//   - []byte: Encoded geobuf message owned by the caller
//   - error: errs.ErrPrecisionOverflow, errs.ErrDepthLimitExceeded,
//     errs.ErrKeyDictionaryOverflow or errs.ErrUnsupportedGeometryType
func (e *Encoder) Encode(doc *geojson.Document) ([]byte, error) {
	a, err := analyze(doc, e.cfg)
	if err != nil {
		return nil, err
	}

	s := &encodeState{
		keys:        a.keys,
		quant:       a.quant,
		dims:        a.dims,
		maxDepth:    e.cfg.maxDepth,
		concurrency: e.cfg.concurrency,
	}

	w := pbf.NewWriter()
	defer w.Release()

	for _, k := range a.keys.Keys() {
		w.String(format.DataKeys, k)
	}
	if a.dims != format.DefaultDimensions {
		w.Uint32(format.DataDimensions, uint32(a.dims)) //nolint:gosec
	}
	if a.digits != format.DefaultPrecision {
		w.Uint32(format.DataPrecision, uint32(a.digits)) //nolint:gosec
	}

	switch doc.Type {
	case format.PayloadFeatureCollection:
		err = w.Message(format.DataFeatureCollection, func(m *pbf.Writer) error {
			return s.writeCollection(m, doc.Collection)
		})
	case format.PayloadFeature:
		err = w.Message(format.DataFeature, func(m *pbf.Writer) error {
			return s.writeFeature(m, doc.Feature)
		})
	default:
		err = w.Message(format.DataGeometry, func(m *pbf.Writer) error {
			return s.writeGeometry(m, doc.Geometry, 0)
		})
	}
	if err != nil {
		return nil, err
	}

	return w.Finish(), nil
}

// encodeState is shared by all writers of one Encode call. It is read-only
// once the analysis pass is done, so feature writers may run concurrently.
type encodeState struct {
	keys        *encoding.KeyDictionary
	quant       encoding.Quantizer
	dims        int
	maxDepth    int
	concurrency int
}

func (s *encodeState) writeCollection(w *pbf.Writer, fc *geojson.FeatureCollection) error {
	if s.concurrency > 1 && len(fc.Features) > 1 {
		if err := s.writeFeaturesParallel(w, fc.Features); err != nil {
			return err
		}
	} else {
		for _, f := range fc.Features {
			err := w.Message(format.CollectionFeatures, func(m *pbf.Writer) error {
				return s.writeFeature(m, f)
			})
			if err != nil {
				return err
			}
		}
	}

	return s.writeProperties(w, nil, fc.Foreign, format.CollectionValues, 0, format.CollectionCustomProperties)
}

// writeFeaturesParallel encodes every feature into its own buffer and appends
// the buffers in collection order.
func (s *encodeState) writeFeaturesParallel(w *pbf.Writer, features []*geojson.Feature) error {
	encoded := make([][]byte, len(features))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, f := range features {
		g.Go(func() error {
			fw := pbf.NewWriter()
			defer fw.Release()

			if err := s.writeFeature(fw, f); err != nil {
				return errors.Wrapf(err, "feature %d", i)
			}
			encoded[i] = fw.Finish()

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, b := range encoded {
		w.BytesField(format.CollectionFeatures, b)
	}

	return nil
}

func (s *encodeState) writeFeature(w *pbf.Writer, f *geojson.Feature) error {
	if f.Geometry != nil {
		err := w.Message(format.FeatureGeometry, func(m *pbf.Writer) error {
			return s.writeGeometry(m, f.Geometry, 0)
		})
		if err != nil {
			return err
		}
	}

	if f.ID != nil {
		if f.ID.IsInt() {
			w.Sint64(format.FeatureIntID, f.ID.Int())
		} else {
			w.String(format.FeatureID, f.ID.Str())
		}
	}

	return s.writeProperties(w, f.Properties, f.Foreign,
		format.FeatureValues, format.FeatureProperties, format.FeatureCustomProperties)
}

// writeProperties writes the values of props and custom as Value messages,
// followed by the packed (key index, value index) pairs of each. Value indices
// count from the first value of the message.
func (s *encodeState) writeProperties(w *pbf.Writer, props, custom *jsontree.Object, valuesField, propsField, customField int) error {
	if props.Len() == 0 && custom.Len() == 0 {
		return nil
	}

	var next uint32
	pairs := func(obj *jsontree.Object) ([]uint32, error) {
		if obj.Len() == 0 {
			return nil, nil
		}

		out := make([]uint32, 0, 2*obj.Len())
		for k, v := range obj.All() {
			key, ok := s.keys.Index(k)
			if !ok {
				return nil, errors.AssertionFailedf("key %q missing from dictionary", k)
			}
			err := w.Message(valuesField, func(m *pbf.Writer) error {
				return writeValue(m, v)
			})
			if err != nil {
				return nil, err
			}
			out = append(out, key, next)
			next++
		}

		return out, nil
	}

	propPairs, err := pairs(props)
	if err != nil {
		return err
	}
	customPairs, err := pairs(custom)
	if err != nil {
		return err
	}

	if propsField != 0 {
		w.PackedUint32(propsField, propPairs)
	}
	w.PackedUint32(customField, customPairs)

	return nil
}
