package codec

import (
	"github.com/cockroachdb/errors"

	"github.com/arloliu/geobuf/encoding"
	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/geojson"
	"github.com/arloliu/geobuf/internal/pool"
	"github.com/arloliu/geobuf/pbf"
)

// writeGeometry writes g as the fields of a Geometry message. depth counts
// the GeometryCollections enclosing g.
func (s *encodeState) writeGeometry(w *pbf.Writer, g *geojson.Geometry, depth int) error {
	if !g.Type.Valid() {
		return errors.Wrapf(errs.ErrUnsupportedGeometryType, "geometry type %d", g.Type)
	}

	w.Uint32(format.GeometryKind, uint32(g.Type))

	if g.Type == format.TypeGeometryCollection {
		if depth >= s.maxDepth {
			return errors.Wrapf(errs.ErrDepthLimitExceeded, "GeometryCollection nested deeper than %d", s.maxDepth)
		}
		for _, child := range g.Geometries {
			err := w.Message(format.GeometryGeometries, func(m *pbf.Writer) error {
				return s.writeGeometry(m, child, depth+1)
			})
			if err != nil {
				return err
			}
		}
	} else if err := s.writeCoordinates(w, g); err != nil {
		return err
	}

	return s.writeProperties(w, nil, g.Foreign, format.GeometryValues, 0, format.GeometryCustomProperties)
}

// writeCoordinates writes the lengths, coords and, when it differs from the
// document, dimensions fields of a non-collection geometry.
func (s *encodeState) writeCoordinates(w *pbf.Writer, g *geojson.Geometry) error {
	dims := quantizedDims(g, s.quant)

	coords, releaseCoords := pool.GetInt64Slice(dims * countPositions(g))
	defer releaseCoords()
	lengths, releaseLengths := pool.GetUint32Slice(countLengths(g))
	defer releaseLengths()

	enc := encoding.NewCoordDeltaEncoder(s.quant, dims, coords)
	writeLengths := false

	var err error
	switch g.Type {
	case format.TypePoint:
		err = enc.Write(g.Point)
	case format.TypeMultiPoint, format.TypeLineString:
		err = enc.WriteSlice(g.Line)
	case format.TypeMultiLineString, format.TypePolygon:
		closed := g.Type == format.TypePolygon
		writeLengths = len(g.Lines) != 1
		for _, line := range g.Lines {
			n, lineErr := writeLine(enc, line, closed)
			if lineErr != nil {
				err = lineErr
				break
			}
			lengths = append(lengths, uint32(n)) //nolint:gosec
		}
	case format.TypeMultiPolygon:
		writeLengths = len(g.Polygons) != 1 || len(g.Polygons[0]) != 1
		lengths = append(lengths, uint32(len(g.Polygons))) //nolint:gosec
		for _, rings := range g.Polygons {
			lengths = append(lengths, uint32(len(rings))) //nolint:gosec
			for _, ring := range rings {
				n, ringErr := writeLine(enc, ring, true)
				if ringErr != nil {
					return ringErr
				}
				lengths = append(lengths, uint32(n)) //nolint:gosec
			}
		}
	}
	if err != nil {
		return err
	}

	if writeLengths {
		if len(lengths) == 0 {
			// an explicit empty list tells "no lines" apart from "one line"
			w.BytesField(format.GeometryLengths, nil)
		} else {
			w.PackedUint32(format.GeometryLengths, lengths)
		}
	}
	w.PackedSint64(format.GeometryCoords, enc.Values())
	if dims != s.dims {
		w.Uint32(format.GeometryDimensions, uint32(dims)) //nolint:gosec
	}

	return nil
}

// writeLine starts a new delta chain and writes line. A closed ring is written
// without its repeated last position. It returns the number of positions
// written.
func writeLine(enc *encoding.CoordDeltaEncoder, line []geojson.Position, closed bool) (int, error) {
	n := len(line)
	if closed && n >= 2 && line[0] == line[n-1] {
		n--
	}

	enc.Reset()
	if err := enc.WriteSlice(line[:n]); err != nil {
		return 0, err
	}

	return n, nil
}

func countPositions(g *geojson.Geometry) int {
	n := 0
	for range g.Positions() {
		n++
	}

	return n
}

// countLengths returns the number of entries in the lengths field of g.
func countLengths(g *geojson.Geometry) int {
	switch g.Type {
	case format.TypeMultiLineString, format.TypePolygon:
		return len(g.Lines)
	case format.TypeMultiPolygon:
		n := 1
		for _, rings := range g.Polygons {
			n += 1 + len(rings)
		}

		return n
	default:
		return 0
	}
}
