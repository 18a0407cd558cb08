package geojson

import (
	"math"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/jsontree"
)

// Member names interpreted by the model.
const (
	memberType        = "type"
	memberCoordinates = "coordinates"
	memberGeometries  = "geometries"
	memberGeometry    = "geometry"
	memberProperties  = "properties"
	memberID          = "id"
	memberFeatures    = "features"
)

// FromTree validates a GeoJSON tree and converts it into a Document.
//
// The root must be an object whose "type" names a geometry kind, "Feature" or
// "FeatureCollection". Members the model does not interpret are kept as
// foreign members. A FeatureCollection without "features" is empty, and a
// Feature without "properties" gets an empty properties object.
//
// Parameters:
//   - v: Parsed GeoJSON document
//   - maxDepth: GeometryCollection nesting limit; zero or less means DefaultMaxDepth
//
// Returns:
//   - *Document: The typed document
//   - error: errs.ErrInvalidGeoJSON for a malformed document,
//     errs.ErrDepthLimitExceeded for collections nested deeper than maxDepth
func FromTree(v jsontree.Value, maxDepth int) (*Document, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	p := treeParser{maxDepth: maxDepth}

	obj, typ, err := p.typedObject(v, "root")
	if err != nil {
		return nil, err
	}

	switch typ {
	case "FeatureCollection":
		fc, err := p.collection(obj)
		if err != nil {
			return nil, err
		}

		return CollectionDocument(fc), nil
	case "Feature":
		f, err := p.feature(obj)
		if err != nil {
			return nil, err
		}

		return FeatureDocument(f), nil
	default:
		g, err := p.geometry(obj, typ, 0)
		if err != nil {
			return nil, err
		}

		return GeometryDocument(g), nil
	}
}

type treeParser struct {
	maxDepth int
}

func (p *treeParser) typedObject(v jsontree.Value, where string) (*jsontree.Object, string, error) {
	obj := v.Object()
	if obj == nil {
		return nil, "", errors.Wrapf(errs.ErrInvalidGeoJSON, "%s: expected an object, got %s", where, v.Kind())
	}

	t, ok := obj.Get(memberType)
	if !ok {
		return nil, "", errors.Wrapf(errs.ErrInvalidGeoJSON, "%s: missing \"type\"", where)
	}
	typ, ok := t.AsString()
	if !ok {
		return nil, "", errors.Wrapf(errs.ErrInvalidGeoJSON, "%s: \"type\" must be a string, got %s", where, t.Kind())
	}

	return obj, typ, nil
}

func (p *treeParser) collection(obj *jsontree.Object) (*FeatureCollection, error) {
	fc := &FeatureCollection{Features: []*Feature{}}
	fc.Foreign = foreignMembers(obj, memberType, memberFeatures)

	features, ok := obj.Get(memberFeatures)
	if !ok {
		return fc, nil
	}
	items := features.Array()
	if items == nil {
		return nil, errors.Wrapf(errs.ErrInvalidGeoJSON, "\"features\" must be an array, got %s", features.Kind())
	}

	fc.Features = make([]*Feature, 0, len(items))
	for i, item := range items {
		fobj, typ, err := p.typedObject(item, "feature")
		if err != nil {
			return nil, errors.Wrapf(err, "features[%d]", i)
		}
		if typ != "Feature" {
			return nil, errors.Wrapf(errs.ErrInvalidGeoJSON, "features[%d]: type %q is not \"Feature\"", i, typ)
		}

		f, err := p.feature(fobj)
		if err != nil {
			return nil, errors.Wrapf(err, "features[%d]", i)
		}
		fc.Features = append(fc.Features, f)
	}

	return fc, nil
}

func (p *treeParser) feature(obj *jsontree.Object) (*Feature, error) {
	f := &Feature{Properties: jsontree.NewObject()}
	f.Foreign = foreignMembers(obj, memberType, memberGeometry, memberProperties, memberID)

	if id, ok := obj.Get(memberID); ok {
		if s, ok := id.AsString(); ok {
			f.ID = StringID(s)
		} else if n, ok := integerID(id); ok {
			f.ID = IntID(n)
		} else {
			f.Foreign = withMember(f.Foreign, memberID, id)
		}
	}

	if props, ok := obj.Get(memberProperties); ok {
		if o := props.Object(); o != nil {
			f.Properties = o
		} else {
			f.Foreign = withMember(f.Foreign, memberProperties, props)
		}
	}

	if geom, ok := obj.Get(memberGeometry); ok && !geom.IsNull() {
		gobj, typ, err := p.typedObject(geom, "geometry")
		if err != nil {
			return nil, err
		}
		g, err := p.geometry(gobj, typ, 0)
		if err != nil {
			return nil, err
		}
		f.Geometry = g
	}

	return f, nil
}

func integerID(v jsontree.Value) (int64, bool) {
	if v.Kind() != jsontree.KindInt && v.Kind() != jsontree.KindUint {
		return 0, false
	}

	return v.AsInt64()
}

func (p *treeParser) geometry(obj *jsontree.Object, typ string, depth int) (*Geometry, error) {
	gt, ok := format.ParseGeometryType(typ)
	if !ok {
		return nil, errors.Wrapf(errs.ErrInvalidGeoJSON, "unknown type %q", typ)
	}

	if gt == format.TypeGeometryCollection {
		return p.geometryCollection(obj, depth)
	}

	coords, ok := obj.Get(memberCoordinates)
	if !ok {
		return nil, errors.Wrapf(errs.ErrInvalidGeoJSON, "%s: missing \"coordinates\"", gt)
	}

	g := &Geometry{Type: gt, Foreign: foreignMembers(obj, memberType, memberCoordinates)}
	var err error
	switch gt {
	case format.TypePoint:
		g.Point, err = position(coords)
	case format.TypeMultiPoint, format.TypeLineString:
		g.Line, err = positions(coords)
	case format.TypeMultiLineString, format.TypePolygon:
		g.Lines, err = lines(coords)
	case format.TypeMultiPolygon:
		g.Polygons, err = polygons(coords)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s coordinates", gt)
	}

	return g, nil
}

func (p *treeParser) geometryCollection(obj *jsontree.Object, depth int) (*Geometry, error) {
	if depth >= p.maxDepth {
		return nil, errors.Wrapf(errs.ErrDepthLimitExceeded, "GeometryCollection nested deeper than %d", p.maxDepth)
	}

	children, ok := obj.Get(memberGeometries)
	if !ok {
		return nil, errors.Wrap(errs.ErrInvalidGeoJSON, "GeometryCollection: missing \"geometries\"")
	}
	items := children.Array()
	if items == nil {
		return nil, errors.Wrapf(errs.ErrInvalidGeoJSON, "\"geometries\" must be an array, got %s", children.Kind())
	}

	g := NewGeometryCollection()
	g.Foreign = foreignMembers(obj, memberType, memberGeometries)
	g.Geometries = make([]*Geometry, 0, len(items))
	for i, item := range items {
		cobj, typ, err := p.typedObject(item, "geometry")
		if err != nil {
			return nil, errors.Wrapf(err, "geometries[%d]", i)
		}
		child, err := p.geometry(cobj, typ, depth+1)
		if err != nil {
			return nil, errors.Wrapf(err, "geometries[%d]", i)
		}
		g.Geometries = append(g.Geometries, child)
	}

	return g, nil
}

func position(v jsontree.Value) (Position, error) {
	var p Position
	items := v.Array()
	if len(items) < 2 || len(items) > 3 {
		return p, errors.Wrapf(errs.ErrInvalidGeoJSON, "position must hold 2 or 3 numbers, got %s of length %d", v.Kind(), len(items))
	}

	for i, item := range items {
		f, ok := item.AsFloat64()
		if !ok {
			return p, errors.Wrapf(errs.ErrInvalidGeoJSON, "position ordinate %d is %s, not a number", i, item.Kind())
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return p, errors.Wrapf(errs.ErrInvalidGeoJSON, "position ordinate %d is not finite", i)
		}
		p[i] = f
	}

	return p, nil
}

func positions(v jsontree.Value) ([]Position, error) {
	items, err := array(v)
	if err != nil {
		return nil, err
	}

	out := make([]Position, 0, len(items))
	for _, item := range items {
		p, err := position(item)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, nil
}

func lines(v jsontree.Value) ([][]Position, error) {
	items, err := array(v)
	if err != nil {
		return nil, err
	}

	out := make([][]Position, 0, len(items))
	for _, item := range items {
		line, err := positions(item)
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}

	return out, nil
}

func polygons(v jsontree.Value) ([][][]Position, error) {
	items, err := array(v)
	if err != nil {
		return nil, err
	}

	out := make([][][]Position, 0, len(items))
	for _, item := range items {
		rings, err := lines(item)
		if err != nil {
			return nil, err
		}
		out = append(out, rings)
	}

	return out, nil
}

func array(v jsontree.Value) ([]jsontree.Value, error) {
	items := v.Array()
	if items == nil {
		return nil, errors.Wrapf(errs.ErrInvalidGeoJSON, "expected an array, got %s", v.Kind())
	}

	return items, nil
}

// foreignMembers copies the members of obj not named in reserved. It returns
// nil when nothing is left.
func foreignMembers(obj *jsontree.Object, reserved ...string) *jsontree.Object {
	var out *jsontree.Object
	for k, v := range obj.All() {
		if slices.Contains(reserved, k) {
			continue
		}
		if out == nil {
			out = jsontree.NewObject()
		}
		out.Set(k, v)
	}

	return out
}

func withMember(obj *jsontree.Object, key string, v jsontree.Value) *jsontree.Object {
	if obj == nil {
		obj = jsontree.NewObject()
	}
	obj.Set(key, v)

	return obj
}
