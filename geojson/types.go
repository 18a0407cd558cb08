// Package geojson is the typed GeoJSON model exchanged between the JSON tree
// and the geobuf codec.
//
// FromTree validates a jsontree document and splits it into geometries,
// features and collections, keeping every member it does not interpret as a
// foreign member. Tree renders the model back into the literal GeoJSON shape.
package geojson

import (
	"iter"

	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/jsontree"
)

// DefaultMaxDepth bounds GeometryCollection nesting.
const DefaultMaxDepth = 64

// Position is a coordinate triple (x, y, z). Two dimensional positions leave z
// at zero.
type Position = [3]float64

// Geometry is one of the seven GeoJSON geometry kinds.
//
// Only the coordinate field matching Type is used:
//   - Point: Point
//   - MultiPoint, LineString: Line
//   - MultiLineString, Polygon: Lines
//   - MultiPolygon: Polygons
//   - GeometryCollection: Geometries
//
// Foreign holds the members other than "type" and "coordinates" (or
// "geometries" for a collection), in document order. It may be nil.
type Geometry struct {
	Type       format.GeometryType
	Point      Position
	Line       []Position
	Lines      [][]Position
	Polygons   [][][]Position
	Geometries []*Geometry
	Foreign    *jsontree.Object
}

// NewPoint creates a Point geometry.
func NewPoint(p Position) *Geometry {
	return &Geometry{Type: format.TypePoint, Point: p}
}

// NewMultiPoint creates a MultiPoint geometry.
func NewMultiPoint(points []Position) *Geometry {
	return &Geometry{Type: format.TypeMultiPoint, Line: points}
}

// NewLineString creates a LineString geometry.
func NewLineString(line []Position) *Geometry {
	return &Geometry{Type: format.TypeLineString, Line: line}
}

// NewMultiLineString creates a MultiLineString geometry.
func NewMultiLineString(lines [][]Position) *Geometry {
	return &Geometry{Type: format.TypeMultiLineString, Lines: lines}
}

// NewPolygon creates a Polygon geometry from its rings, outer ring first.
func NewPolygon(rings [][]Position) *Geometry {
	return &Geometry{Type: format.TypePolygon, Lines: rings}
}

// NewMultiPolygon creates a MultiPolygon geometry.
func NewMultiPolygon(polygons [][][]Position) *Geometry {
	return &Geometry{Type: format.TypeMultiPolygon, Polygons: polygons}
}

// NewGeometryCollection creates a GeometryCollection holding children in order.
func NewGeometryCollection(children ...*Geometry) *Geometry {
	if children == nil {
		children = []*Geometry{}
	}

	return &Geometry{Type: format.TypeGeometryCollection, Geometries: children}
}

// Positions iterates over the geometry's own coordinates in document order.
// Children of a GeometryCollection are not visited.
func (g *Geometry) Positions() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		switch g.Type {
		case format.TypePoint:
			yield(g.Point)
		case format.TypeMultiPoint, format.TypeLineString:
			for _, p := range g.Line {
				if !yield(p) {
					return
				}
			}
		case format.TypeMultiLineString, format.TypePolygon:
			for _, line := range g.Lines {
				for _, p := range line {
					if !yield(p) {
						return
					}
				}
			}
		case format.TypeMultiPolygon:
			for _, poly := range g.Polygons {
				for _, ring := range poly {
					for _, p := range ring {
						if !yield(p) {
							return
						}
					}
				}
			}
		}
	}
}

// Dims returns 3 when any own position has a nonzero z, else 2.
// A GeometryCollection reports the largest dimension of its children.
func (g *Geometry) Dims() int {
	if g.Type == format.TypeGeometryCollection {
		dims := format.DefaultDimensions
		for _, child := range g.Geometries {
			dims = max(dims, child.Dims())
		}

		return dims
	}

	for p := range g.Positions() {
		if p[2] != 0 {
			return format.MaxDimensions
		}
	}

	return format.DefaultDimensions
}

// All iterates over g and every nested geometry in pre-order.
func (g *Geometry) All() iter.Seq[*Geometry] {
	return func(yield func(*Geometry) bool) {
		g.walk(yield)
	}
}

func (g *Geometry) walk(yield func(*Geometry) bool) bool {
	if !yield(g) {
		return false
	}
	for _, child := range g.Geometries {
		if !child.walk(yield) {
			return false
		}
	}

	return true
}

// ID is a feature identifier, either a string or a 64-bit integer.
type ID struct {
	str   string
	num   int64
	isInt bool
}

// StringID returns a string identifier.
func StringID(s string) *ID {
	return &ID{str: s}
}

// IntID returns an integer identifier.
func IntID(n int64) *ID {
	return &ID{num: n, isInt: true}
}

// IsInt reports whether the identifier is an integer.
func (id *ID) IsInt() bool { return id.isInt }

// Int returns the integer identifier.
func (id *ID) Int() int64 { return id.num }

// Str returns the string identifier.
func (id *ID) Str() string { return id.str }

// Value returns the identifier as a tree value.
func (id *ID) Value() jsontree.Value {
	if id.isInt {
		return jsontree.Int(id.num)
	}

	return jsontree.String(id.str)
}

// Feature is a GeoJSON Feature.
//
// A nil Geometry stands for a null geometry. Properties is never nil for
// features built by FromTree. Foreign keeps the remaining members; an "id"
// that is neither a string nor a 64-bit integer, and a "properties" member
// that is not an object, are kept there too.
type Feature struct {
	ID         *ID
	Geometry   *Geometry
	Properties *jsontree.Object
	Foreign    *jsontree.Object
}

// FeatureCollection is a GeoJSON FeatureCollection.
type FeatureCollection struct {
	Features []*Feature
	Foreign  *jsontree.Object
}

// Document is a top-level GeoJSON object. Exactly one of Geometry, Feature
// and Collection is set, as named by Type.
type Document struct {
	Type       format.PayloadType
	Geometry   *Geometry
	Feature    *Feature
	Collection *FeatureCollection
}

// GeometryDocument wraps a bare geometry.
func GeometryDocument(g *Geometry) *Document {
	return &Document{Type: format.PayloadGeometry, Geometry: g}
}

// FeatureDocument wraps a single feature.
func FeatureDocument(f *Feature) *Document {
	return &Document{Type: format.PayloadFeature, Feature: f}
}

// CollectionDocument wraps a feature collection.
func CollectionDocument(fc *FeatureCollection) *Document {
	return &Document{Type: format.PayloadFeatureCollection, Collection: fc}
}

// Geometries iterates over every geometry of the document, nested ones
// included, in document order.
func (d *Document) Geometries() iter.Seq[*Geometry] {
	return func(yield func(*Geometry) bool) {
		switch d.Type {
		case format.PayloadGeometry:
			d.Geometry.walk(yield)
		case format.PayloadFeature:
			if d.Feature.Geometry != nil {
				d.Feature.Geometry.walk(yield)
			}
		case format.PayloadFeatureCollection:
			for _, f := range d.Collection.Features {
				if f.Geometry != nil && !f.Geometry.walk(yield) {
					return
				}
			}
		}
	}
}
