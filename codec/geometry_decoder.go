package codec

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/geobuf/encoding"
	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/geojson"
	"github.com/arloliu/geobuf/pbf"
)

// geometryFields holds the raw fields of a Geometry message.
type geometryFields struct {
	kind       format.GeometryType
	hasKind    bool
	lengths    []uint32
	hasLengths bool
	coords     []int64
	dims       int
	children   []*pbf.Reader
	props      propertyReader
}

// readGeometry decodes a Geometry message. depth counts the
// GeometryCollections enclosing it.
func (s *decodeState) readGeometry(r *pbf.Reader, depth int) (*geojson.Geometry, error) {
	gf := geometryFields{dims: s.dims}

	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch f.Num {
		case format.GeometryKind:
			v, err := r.Uint32()
			if err != nil {
				return nil, err
			}
			gf.kind = format.GeometryType(v) //nolint:gosec
			gf.hasKind = true
		case format.GeometryLengths:
			gf.hasLengths = true
			if gf.lengths, err = r.PackedUint32(gf.lengths); err != nil {
				return nil, err
			}
		case format.GeometryCoords:
			if gf.coords, err = r.PackedSint64(gf.coords); err != nil {
				return nil, err
			}
		case format.GeometryGeometries:
			msg, err := r.Message()
			if err != nil {
				return nil, err
			}
			gf.children = append(gf.children, msg)
		case format.GeometryDimensions:
			v, err := r.Uint32()
			if err != nil {
				return nil, err
			}
			if v != 2 && v != 3 {
				return nil, errors.Wrapf(errs.ErrCorruptInput, "geometry dimensions %d not 2 or 3", v)
			}
			gf.dims = int(v)
		default:
			if err := gf.props.read(r, format.GeometryValues, 0, format.GeometryCustomProperties); err != nil {
				return nil, err
			}
		}
	}

	if !gf.hasKind {
		return nil, errors.Wrap(errs.ErrCorruptInput, "geometry without type")
	}
	if !gf.kind.Valid() {
		return nil, errors.Wrapf(errs.ErrUnsupportedGeometryType, "geometry type %d", gf.kind)
	}

	var g *geojson.Geometry
	var err error
	if gf.kind == format.TypeGeometryCollection {
		g, err = s.readChildren(&gf, depth)
	} else {
		if len(gf.children) > 0 {
			return nil, errors.Wrapf(errs.ErrCorruptInput, "%s with child geometries", gf.kind)
		}
		g, err = s.buildGeometry(&gf)
	}
	if err != nil {
		return nil, err
	}

	if g.Foreign, err = gf.props.custom.resolve(s.keys, gf.props.values); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *decodeState) readChildren(gf *geometryFields, depth int) (*geojson.Geometry, error) {
	if depth >= s.maxDepth {
		return nil, errors.Wrapf(errs.ErrDepthLimitExceeded, "GeometryCollection nested deeper than %d", s.maxDepth)
	}

	children := make([]*geojson.Geometry, 0, len(gf.children))
	for i, msg := range gf.children {
		child, err := s.readGeometry(msg, depth+1)
		if err != nil {
			return nil, errors.Wrapf(err, "geometry %d", i)
		}
		children = append(children, child)
	}

	return geojson.NewGeometryCollection(children...), nil
}

// buildGeometry rebuilds the coordinates of a non-collection geometry from
// its lengths and coords fields. Every coordinate must be consumed.
func (s *decodeState) buildGeometry(gf *geometryFields) (*geojson.Geometry, error) {
	if len(gf.coords)%gf.dims != 0 {
		return nil, errors.Wrapf(errs.ErrCorruptInput, "%d coordinates not a multiple of %d dimensions", len(gf.coords), gf.dims)
	}

	dec := encoding.NewCoordDeltaDecoder(s.quant, gf.dims, gf.coords)
	var g *geojson.Geometry

	switch gf.kind {
	case format.TypePoint:
		p, err := dec.Next()
		if err != nil {
			return nil, errors.Wrap(err, "Point")
		}
		g = geojson.NewPoint(p)
	case format.TypeMultiPoint, format.TypeLineString:
		line, err := readLine(dec, dec.Remaining(), false)
		if err != nil {
			return nil, err
		}
		g = &geojson.Geometry{Type: gf.kind, Line: line}
	case format.TypeMultiLineString, format.TypePolygon:
		closed := gf.kind == format.TypePolygon
		lengths := gf.lengths
		if !gf.hasLengths {
			lengths = []uint32{uint32(dec.Remaining())} //nolint:gosec
		}
		lines, err := readLines(dec, lengths, closed)
		if err != nil {
			return nil, err
		}
		g = &geojson.Geometry{Type: gf.kind, Lines: lines}
	case format.TypeMultiPolygon:
		polygons, err := readPolygons(dec, gf.lengths, gf.hasLengths)
		if err != nil {
			return nil, err
		}
		g = geojson.NewMultiPolygon(polygons)
	}

	if !dec.Done() {
		return nil, errors.Wrapf(errs.ErrCorruptInput, "%d unused coordinates in %s", dec.Remaining()*gf.dims, gf.kind)
	}

	return g, nil
}

// readLine starts a new delta chain and reads n positions. A closed ring gets
// its first position appended again.
func readLine(dec *encoding.CoordDeltaDecoder, n int, closed bool) ([]geojson.Position, error) {
	if n > dec.Remaining() {
		return nil, errors.Wrapf(errs.ErrCorruptInput, "line of %d positions, %d left in coords", n, dec.Remaining())
	}

	line := make([]geojson.Position, 0, n+1)
	dec.Reset()
	line, err := dec.ReadN(line, n)
	if err != nil {
		return nil, err
	}
	if closed && len(line) > 0 {
		line = append(line, line[0])
	}

	return line, nil
}

func readLines(dec *encoding.CoordDeltaDecoder, lengths []uint32, closed bool) ([][]geojson.Position, error) {
	lines := make([][]geojson.Position, 0, len(lengths))
	for _, n := range lengths {
		line, err := readLine(dec, int(n), closed)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// readPolygons walks the [npolygons, nrings, npoints...] lengths layout of a
// MultiPolygon. Without lengths the coordinates form one single-ring polygon.
func readPolygons(dec *encoding.CoordDeltaDecoder, lengths []uint32, hasLengths bool) ([][][]geojson.Position, error) {
	if !hasLengths {
		ring, err := readLine(dec, dec.Remaining(), true)
		if err != nil {
			return nil, err
		}

		return [][][]geojson.Position{{ring}}, nil
	}
	if len(lengths) == 0 {
		return nil, errors.Wrap(errs.ErrCorruptInput, "MultiPolygon lengths without polygon count")
	}

	npoly := int(lengths[0])
	pos := 1
	// every polygon takes at least one lengths entry
	polygons := make([][][]geojson.Position, 0, min(npoly, len(lengths)-pos))
	for i := range npoly {
		if pos >= len(lengths) {
			return nil, errors.Wrapf(errs.ErrCorruptInput, "MultiPolygon lengths end before polygon %d", i)
		}
		nrings := int(lengths[pos])
		pos++
		if nrings > len(lengths)-pos {
			return nil, errors.Wrapf(errs.ErrCorruptInput, "polygon %d declares %d rings, %d lengths left", i, nrings, len(lengths)-pos)
		}

		rings, err := readLines(dec, lengths[pos:pos+nrings], true)
		if err != nil {
			return nil, err
		}
		pos += nrings
		polygons = append(polygons, rings)
	}
	if pos != len(lengths) {
		return nil, errors.Wrapf(errs.ErrCorruptInput, "%d unused MultiPolygon lengths", len(lengths)-pos)
	}

	return polygons, nil
}
