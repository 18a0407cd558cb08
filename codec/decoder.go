package codec

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/geobuf/encoding"
	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/geojson"
	"github.com/arloliu/geobuf/internal/options"
	"github.com/arloliu/geobuf/jsontree"
	"github.com/arloliu/geobuf/pbf"
)

// Decoder reads geobuf bytes back into geojson documents.
//
// A Decoder only holds configuration and is safe for concurrent use.
type Decoder struct {
	cfg *DecoderConfig
}

// NewDecoder creates a decoder.
//
// Returns:
//   - *Decoder: Decoder ready for use
//   - error: errs.ErrInvalidOption if an option is rejected
func NewDecoder(opts ...DecoderOption) (*Decoder, error) {
	cfg := NewDecoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Decoder{cfg: cfg}, nil
}

// header is the result of the first decoding phase.
type header struct {
	keys        []string
	dims        int
	digits      int
	payload     []byte
	payloadType format.PayloadType
}

// Decode parses a geobuf message.
//
// The top-level message is scanned first for the key table, dimension and
// precision, wherever they appear; the payload is decoded afterwards. Unknown
// fields are skipped at every level.
//
// Returns:
//   - *geojson.Document: The decoded document
//   - error: errs.ErrCorruptInput for malformed or truncated input,
//     errs.ErrUnsupportedGeometryType for an unknown geometry tag,
//     errs.ErrDepthLimitExceeded for collections nested too deep
func (d *Decoder) Decode(data []byte) (*geojson.Document, error) {
	h, err := scanHeader(data)
	if err != nil {
		return nil, err
	}

	quant, err := encoding.NewQuantizer(h.digits)
	if err != nil {
		return nil, errors.Wrapf(errs.ErrCorruptInput, "precision %d", h.digits)
	}

	s := &decodeState{
		keys:     encoding.NewKeyDictionaryFrom(h.keys),
		quant:    quant,
		dims:     h.dims,
		maxDepth: d.cfg.maxDepth,
	}

	r := pbf.NewReader(h.payload)
	switch h.payloadType {
	case format.PayloadFeatureCollection:
		fc, err := s.readCollection(r)
		if err != nil {
			return nil, err
		}

		return geojson.CollectionDocument(fc), nil
	case format.PayloadFeature:
		f, err := s.readFeature(r)
		if err != nil {
			return nil, err
		}

		return geojson.FeatureDocument(f), nil
	default:
		g, err := s.readGeometry(r, 0)
		if err != nil {
			return nil, err
		}

		return geojson.GeometryDocument(g), nil
	}
}

func scanHeader(data []byte) (*header, error) {
	h := &header{
		dims:   format.DefaultDimensions,
		digits: format.DefaultPrecision,
	}
	r := pbf.NewReader(data)

	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch f.Num {
		case format.DataKeys:
			k, err := r.String()
			if err != nil {
				return nil, err
			}
			h.keys = append(h.keys, k)
		case format.DataDimensions:
			v, err := r.Uint32()
			if err != nil {
				return nil, err
			}
			if v != 2 && v != 3 {
				return nil, errors.Wrapf(errs.ErrCorruptInput, "dimensions %d not 2 or 3", v)
			}
			h.dims = int(v)
		case format.DataPrecision:
			v, err := r.Uint32()
			if err != nil {
				return nil, err
			}
			if v > format.MaxPrecision {
				return nil, errors.Wrapf(errs.ErrCorruptInput, "precision %d above %d", v, format.MaxPrecision)
			}
			h.digits = int(v)
		case format.DataFeatureCollection, format.DataFeature, format.DataGeometry:
			if h.payload != nil {
				return nil, errors.Wrap(errs.ErrCorruptInput, "more than one payload")
			}
			b, err := r.Bytes()
			if err != nil {
				return nil, err
			}
			h.payload = b
			h.payloadType = format.PayloadType(f.Num) //nolint:gosec
		default:
			if err := r.Skip(); err != nil {
				return nil, err
			}
		}
	}

	if h.payload == nil {
		return nil, errors.Wrap(errs.ErrCorruptInput, "no feature collection, feature or geometry")
	}

	return h, nil
}

// decodeState is shared by the readers of one Decode call.
type decodeState struct {
	keys     *encoding.KeyDictionary
	quant    encoding.Quantizer
	dims     int
	maxDepth int
}

func (s *decodeState) readCollection(r *pbf.Reader) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}
	var props propertyReader

	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch f.Num {
		case format.CollectionFeatures:
			msg, err := r.Message()
			if err != nil {
				return nil, err
			}
			feature, err := s.readFeature(msg)
			if err != nil {
				return nil, errors.Wrapf(err, "feature %d", len(fc.Features))
			}
			fc.Features = append(fc.Features, feature)
		default:
			if err := props.read(r, format.CollectionValues, 0, format.CollectionCustomProperties); err != nil {
				return nil, err
			}
		}
	}

	custom, err := props.custom.resolve(s.keys, props.values)
	if err != nil {
		return nil, err
	}
	fc.Foreign = custom

	return fc, nil
}

func (s *decodeState) readFeature(r *pbf.Reader) (*geojson.Feature, error) {
	f := &geojson.Feature{}
	var props propertyReader

	for {
		field, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch field.Num {
		case format.FeatureGeometry:
			msg, err := r.Message()
			if err != nil {
				return nil, err
			}
			if f.Geometry, err = s.readGeometry(msg, 0); err != nil {
				return nil, err
			}
		case format.FeatureID:
			id, err := r.String()
			if err != nil {
				return nil, err
			}
			f.ID = geojson.StringID(id)
		case format.FeatureIntID:
			id, err := r.Sint64()
			if err != nil {
				return nil, err
			}
			f.ID = geojson.IntID(id)
		default:
			if err := props.read(r, format.FeatureValues, format.FeatureProperties, format.FeatureCustomProperties); err != nil {
				return nil, err
			}
		}
	}

	properties, err := props.props.resolve(s.keys, props.values)
	if err != nil {
		return nil, err
	}
	if properties == nil {
		properties = jsontree.NewObject()
	}
	f.Properties = properties

	if f.Foreign, err = props.custom.resolve(s.keys, props.values); err != nil {
		return nil, err
	}

	return f, nil
}
