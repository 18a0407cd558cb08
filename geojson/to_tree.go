package geojson

import (
	"slices"

	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/jsontree"
)

// Tree renders the document as a GeoJSON tree.
func (d *Document) Tree() jsontree.Value {
	switch d.Type {
	case format.PayloadFeatureCollection:
		return d.Collection.Tree()
	case format.PayloadFeature:
		return d.Feature.Tree()
	default:
		return d.Geometry.Tree()
	}
}

// Tree renders the collection as {"type", "features", foreign members...}.
func (fc *FeatureCollection) Tree() jsontree.Value {
	obj := jsontree.NewObject(2 + fc.Foreign.Len())
	obj.Set(memberType, jsontree.String("FeatureCollection"))

	features := make([]jsontree.Value, 0, len(fc.Features))
	for _, f := range fc.Features {
		features = append(features, f.Tree())
	}
	obj.Set(memberFeatures, jsontree.ArrayOf(features...))
	appendForeign(obj, fc.Foreign, memberType, memberFeatures)

	return jsontree.ObjectOf(obj)
}

// Tree renders the feature as {"type", "id", "geometry", "properties",
// foreign members...}. A foreign "id" or "properties" takes the place of the
// typed one.
func (f *Feature) Tree() jsontree.Value {
	obj := jsontree.NewObject(4 + f.Foreign.Len())
	obj.Set(memberType, jsontree.String("Feature"))

	if id, ok := f.Foreign.Get(memberID); ok {
		obj.Set(memberID, id)
	} else if f.ID != nil {
		obj.Set(memberID, f.ID.Value())
	}

	if f.Geometry != nil {
		obj.Set(memberGeometry, f.Geometry.Tree())
	} else {
		obj.Set(memberGeometry, jsontree.Null())
	}

	if props, ok := f.Foreign.Get(memberProperties); ok {
		obj.Set(memberProperties, props)
	} else {
		obj.Set(memberProperties, jsontree.ObjectOf(f.Properties))
	}
	appendForeign(obj, f.Foreign, memberType, memberGeometry)

	return jsontree.ObjectOf(obj)
}

// Tree renders the geometry with coordinates nested to the depth of its kind.
// Positions carry three ordinates when the geometry is three dimensional.
func (g *Geometry) Tree() jsontree.Value {
	obj := jsontree.NewObject(2 + g.Foreign.Len())
	obj.Set(memberType, jsontree.String(g.Type.String()))

	if g.Type == format.TypeGeometryCollection {
		children := make([]jsontree.Value, 0, len(g.Geometries))
		for _, child := range g.Geometries {
			children = append(children, child.Tree())
		}
		obj.Set(memberGeometries, jsontree.ArrayOf(children...))
		appendForeign(obj, g.Foreign, memberType, memberGeometries)

		return jsontree.ObjectOf(obj)
	}

	dims := g.Dims()
	var coords jsontree.Value
	switch g.Type {
	case format.TypePoint:
		coords = positionTree(g.Point, dims)
	case format.TypeMultiPoint, format.TypeLineString:
		coords = lineTree(g.Line, dims)
	case format.TypeMultiLineString, format.TypePolygon:
		coords = linesTree(g.Lines, dims)
	case format.TypeMultiPolygon:
		polys := make([]jsontree.Value, 0, len(g.Polygons))
		for _, rings := range g.Polygons {
			polys = append(polys, linesTree(rings, dims))
		}
		coords = jsontree.ArrayOf(polys...)
	}
	obj.Set(memberCoordinates, coords)
	appendForeign(obj, g.Foreign, memberType, memberCoordinates)

	return jsontree.ObjectOf(obj)
}

func positionTree(p Position, dims int) jsontree.Value {
	items := make([]jsontree.Value, dims)
	for i := range dims {
		items[i] = jsontree.Double(p[i])
	}

	return jsontree.ArrayOf(items...)
}

func lineTree(line []Position, dims int) jsontree.Value {
	items := make([]jsontree.Value, 0, len(line))
	for _, p := range line {
		items = append(items, positionTree(p, dims))
	}

	return jsontree.ArrayOf(items...)
}

func linesTree(lines [][]Position, dims int) jsontree.Value {
	items := make([]jsontree.Value, 0, len(lines))
	for _, line := range lines {
		items = append(items, lineTree(line, dims))
	}

	return jsontree.ArrayOf(items...)
}

// appendForeign adds the members of foreign to obj, skipping reserved names
// and members obj already holds.
func appendForeign(obj, foreign *jsontree.Object, reserved ...string) {
	for k, v := range foreign.All() {
		if slices.Contains(reserved, k) || obj.Has(k) {
			continue
		}
		obj.Set(k, v)
	}
}
