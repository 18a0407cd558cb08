// Package format defines the geobuf wire enums and field numbers.
package format

type (
	GeometryType uint8
	PayloadType  uint8
)

const (
	TypePoint              GeometryType = 0 // TypePoint is a single position.
	TypeMultiPoint         GeometryType = 1 // TypeMultiPoint is an unordered list of positions.
	TypeLineString         GeometryType = 2 // TypeLineString is one ordered position sequence.
	TypeMultiLineString    GeometryType = 3 // TypeMultiLineString is a list of lines.
	TypePolygon            GeometryType = 4 // TypePolygon is a list of linear rings.
	TypeMultiPolygon       GeometryType = 5 // TypeMultiPolygon is a list of polygons.
	TypeGeometryCollection GeometryType = 6 // TypeGeometryCollection is a list of geometries.

	PayloadFeatureCollection PayloadType = 4 // PayloadFeatureCollection is a top-level FeatureCollection.
	PayloadFeature           PayloadType = 5 // PayloadFeature is a top-level Feature.
	PayloadGeometry          PayloadType = 6 // PayloadGeometry is a top-level bare geometry.
)

var geometryNames = [...]string{
	TypePoint:              "Point",
	TypeMultiPoint:         "MultiPoint",
	TypeLineString:         "LineString",
	TypeMultiLineString:    "MultiLineString",
	TypePolygon:            "Polygon",
	TypeMultiPolygon:       "MultiPolygon",
	TypeGeometryCollection: "GeometryCollection",
}

// String returns the GeoJSON "type" name of g.
func (g GeometryType) String() string {
	if g.Valid() {
		return geometryNames[g]
	}

	return "Unknown"
}

// Valid reports whether g is one of the seven geometry kinds.
func (g GeometryType) Valid() bool {
	return g <= TypeGeometryCollection
}

// ParseGeometryType maps a GeoJSON "type" string to its geometry tag.
func ParseGeometryType(name string) (GeometryType, bool) {
	for i, n := range geometryNames {
		if n == name {
			return GeometryType(i), true //nolint:gosec
		}
	}

	return 0, false
}

func (p PayloadType) String() string {
	switch p {
	case PayloadFeatureCollection:
		return "FeatureCollection"
	case PayloadFeature:
		return "Feature"
	case PayloadGeometry:
		return "Geometry"
	default:
		return "Unknown"
	}
}
