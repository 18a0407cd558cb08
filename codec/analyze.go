package codec

import (
	"github.com/cockroachdb/errors"

	"github.com/arloliu/geobuf/encoding"
	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/geojson"
	"github.com/arloliu/geobuf/jsontree"
)

// analysis is the outcome of the first encoding pass.
type analysis struct {
	keys   *encoding.KeyDictionary
	dims   int
	digits int
	quant  encoding.Quantizer
}

type analyzer struct {
	cfg    *EncoderConfig
	keys   *encoding.KeyDictionary
	fitter *encoding.DigitsFitter
}

// analyze walks the document and collects the key dictionary, the effective
// precision and the document dimension. The dimension is taken after the
// precision is known, from the quantized Z ordinates.
//
// Keys are recorded in this order: collection foreign members, then for each
// feature its property keys, its foreign members and the foreign members of
// its geometry tree in pre-order.
func analyze(doc *geojson.Document, cfg *EncoderConfig) (*analysis, error) {
	a := &analyzer{
		cfg:  cfg,
		keys: encoding.NewKeyDictionary(),
	}
	if cfg.adaptive {
		a.fitter = encoding.NewDigitsFitter(cfg.precision)
	}

	var err error
	switch doc.Type {
	case format.PayloadFeatureCollection:
		err = a.collection(doc.Collection)
	case format.PayloadFeature:
		err = a.feature(doc.Feature)
	case format.PayloadGeometry:
		err = a.geometry(doc.Geometry, 0)
	default:
		err = errors.Wrapf(errs.ErrInvalidGeoJSON, "unknown document type %d", doc.Type)
	}
	if err != nil {
		return nil, err
	}

	res := &analysis{keys: a.keys, dims: format.DefaultDimensions, digits: cfg.precision}
	if a.fitter != nil {
		res.digits = a.fitter.Digits()
	}
	if res.quant, err = encoding.NewQuantizer(res.digits); err != nil {
		return nil, err
	}
	for g := range doc.Geometries() {
		if g.Type != format.TypeGeometryCollection {
			res.dims = max(res.dims, quantizedDims(g, res.quant))
		}
	}

	return res, nil
}

func (a *analyzer) collection(fc *geojson.FeatureCollection) error {
	if err := a.addKeys(fc.Foreign); err != nil {
		return err
	}
	for _, f := range fc.Features {
		if err := a.feature(f); err != nil {
			return err
		}
	}

	return nil
}

func (a *analyzer) feature(f *geojson.Feature) error {
	if err := a.addKeys(f.Properties); err != nil {
		return err
	}
	if err := a.addKeys(f.Foreign); err != nil {
		return err
	}
	if f.Geometry == nil {
		return nil
	}

	return a.geometry(f.Geometry, 0)
}

func (a *analyzer) geometry(g *geojson.Geometry, depth int) error {
	if !g.Type.Valid() {
		return errors.Wrapf(errs.ErrUnsupportedGeometryType, "geometry type %d", g.Type)
	}
	if err := a.addKeys(g.Foreign); err != nil {
		return err
	}

	if g.Type == format.TypeGeometryCollection {
		if depth >= a.cfg.maxDepth {
			return errors.Wrapf(errs.ErrDepthLimitExceeded, "GeometryCollection nested deeper than %d", a.cfg.maxDepth)
		}
		for _, child := range g.Geometries {
			if err := a.geometry(child, depth+1); err != nil {
				return err
			}
		}

		return nil
	}

	if a.fitter != nil {
		dims := g.Dims()
		for p := range g.Positions() {
			for axis := range dims {
				a.fitter.Observe(p[axis])
			}
		}
	}

	return nil
}

func (a *analyzer) addKeys(obj *jsontree.Object) error {
	for k := range obj.All() {
		if _, err := a.keys.Add(k); err != nil {
			return err
		}
	}

	return nil
}

// quantizedDims returns 3 when a Z ordinate of g is nonzero once quantized,
// and 2 otherwise. A Z that cannot be quantized counts as nonzero so that the
// writer reports the overflow.
func quantizedDims(g *geojson.Geometry, quant encoding.Quantizer) int {
	if g.Dims() < format.MaxDimensions {
		return format.DefaultDimensions
	}
	for p := range g.Positions() {
		if q, err := quant.Quantize(p[2]); err != nil || q != 0 {
			return format.MaxDimensions
		}
	}

	return format.DefaultDimensions
}
