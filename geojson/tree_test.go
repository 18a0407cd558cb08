package geojson

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/jsontree"
)

func parse(t *testing.T, text string) jsontree.Value {
	t.Helper()

	v, err := jsontree.Parse([]byte(text))
	require.NoError(t, err)

	return v
}

func fromText(t *testing.T, text string) *Document {
	t.Helper()

	doc, err := FromTree(parse(t, text), 0)
	require.NoError(t, err)

	return doc
}

func TestFromTree_Geometries(t *testing.T) {
	tests := []struct {
		name string
		text string
		typ  format.GeometryType
	}{
		{"point", `{"type":"Point","coordinates":[1,2]}`, format.TypePoint},
		{"multipoint", `{"type":"MultiPoint","coordinates":[[1,2],[3,4]]}`, format.TypeMultiPoint},
		{"linestring", `{"type":"LineString","coordinates":[[1,2,0.5],[3,4,5]]}`, format.TypeLineString},
		{"multilinestring", `{"type":"MultiLineString","coordinates":[[[1,2]],[]]}`, format.TypeMultiLineString},
		{"polygon", `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`, format.TypePolygon},
		{"multipolygon", `{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[0,0]]],[]]}`, format.TypeMultiPolygon},
		{"collection", `{"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[0,0]}]}`, format.TypeGeometryCollection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := parse(t, tt.text)
			doc, err := FromTree(in, 0)
			require.NoError(t, err)
			require.Equal(t, format.PayloadGeometry, doc.Type)
			require.Equal(t, tt.typ, doc.Geometry.Type)

			require.Empty(t, cmp.Diff(in, doc.Tree()))
		})
	}
}

func TestFromTree_PointCoordinates(t *testing.T) {
	doc := fromText(t, `{"type":"Point","coordinates":[120.5,-31.25,7]}`)
	require.Equal(t, Position{120.5, -31.25, 7}, doc.Geometry.Point)
	require.Equal(t, 3, doc.Geometry.Dims())
}

func TestFromTree_GeometryForeignMembers(t *testing.T) {
	doc := fromText(t, `{"type":"Point","bbox":[0,0,1,1],"coordinates":[1,2],"geometries":"kept"}`)

	require.Equal(t, []string{"bbox", "geometries"}, doc.Geometry.Foreign.Keys())

	want := parse(t, `{"type":"Point","coordinates":[1,2],"bbox":[0,0,1,1],"geometries":"kept"}`)
	require.Empty(t, cmp.Diff(want, doc.Tree()))
}

func TestFromTree_Feature(t *testing.T) {
	text := `{"type":"Feature","id":"a1","geometry":{"type":"Point","coordinates":[1,2]},` +
		`"properties":{"name":"x","n":1},"title":"extra"}`
	doc := fromText(t, text)

	require.Equal(t, format.PayloadFeature, doc.Type)
	f := doc.Feature
	require.NotNil(t, f.ID)
	require.Equal(t, "a1", f.ID.Str())
	require.Equal(t, []string{"name", "n"}, f.Properties.Keys())
	require.Equal(t, []string{"title"}, f.Foreign.Keys())

	require.Empty(t, cmp.Diff(parse(t, text), doc.Tree()))
}

func TestFromTree_FeatureID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		isInt   bool
		foreign bool
	}{
		{"string", `"x"`, false, false},
		{"int", `-42`, true, false},
		{"max int64", `9223372036854775807`, true, false},
		{"uint beyond int64", `18446744073709551615`, false, true},
		{"double", `1.5`, false, true},
		{"integral double", `2.0`, false, true},
		{"null", `null`, false, true},
		{"object", `{"a":1}`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := `{"type":"Feature","id":` + tt.id + `,"geometry":null,"properties":{}}`
			doc := fromText(t, text)
			f := doc.Feature

			if tt.foreign {
				require.Nil(t, f.ID)
				require.True(t, f.Foreign.Has("id"))
			} else {
				require.NotNil(t, f.ID)
				require.Equal(t, tt.isInt, f.ID.IsInt())
			}
			require.Empty(t, cmp.Diff(parse(t, text), doc.Tree()))
		})
	}
}

func TestFromTree_FeatureProperties(t *testing.T) {
	t.Run("missing becomes empty", func(t *testing.T) {
		doc := fromText(t, `{"type":"Feature","geometry":null}`)
		require.Equal(t, 0, doc.Feature.Properties.Len())

		want := parse(t, `{"type":"Feature","geometry":null,"properties":{}}`)
		require.Empty(t, cmp.Diff(want, doc.Tree()))
	})

	t.Run("null kept as foreign", func(t *testing.T) {
		text := `{"type":"Feature","geometry":null,"properties":null}`
		doc := fromText(t, text)
		require.True(t, doc.Feature.Foreign.Has("properties"))
		require.Empty(t, cmp.Diff(parse(t, text), doc.Tree()))
	})

	t.Run("array kept as foreign", func(t *testing.T) {
		text := `{"type":"Feature","geometry":null,"properties":[1,2]}`
		doc := fromText(t, text)
		require.Empty(t, cmp.Diff(parse(t, text), doc.Tree()))
	})
}

func TestFromTree_FeatureMissingGeometry(t *testing.T) {
	doc := fromText(t, `{"type":"Feature","properties":{}}`)
	require.Nil(t, doc.Feature.Geometry)

	want := parse(t, `{"type":"Feature","geometry":null,"properties":{}}`)
	require.Empty(t, cmp.Diff(want, doc.Tree()))
}

func TestFromTree_FeatureCollection(t *testing.T) {
	text := `{"type":"FeatureCollection","name":"demo","features":[` +
		`{"type":"Feature","geometry":null,"properties":{"a":1}},` +
		`{"type":"Feature","id":7,"geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]},"properties":{}}]}`
	doc := fromText(t, text)

	require.Equal(t, format.PayloadFeatureCollection, doc.Type)
	require.Len(t, doc.Collection.Features, 2)
	require.Equal(t, []string{"name"}, doc.Collection.Foreign.Keys())
	require.Empty(t, cmp.Diff(parse(t, text), doc.Tree()))
}

func TestFromTree_FeatureCollectionEmpty(t *testing.T) {
	text := `{"type":"FeatureCollection","features":[]}`
	doc := fromText(t, text)
	require.Empty(t, doc.Collection.Features)
	require.Empty(t, cmp.Diff(parse(t, text), doc.Tree()))

	doc = fromText(t, `{"type":"FeatureCollection"}`)
	require.Empty(t, doc.Collection.Features)
	require.Empty(t, cmp.Diff(parse(t, text), doc.Tree()))
}

func TestFromTree_Invalid(t *testing.T) {
	inputs := []string{
		`[]`,
		`"Point"`,
		`{}`,
		`{"type":7}`,
		`{"type":"Circle","coordinates":[0,0]}`,
		`{"type":"Point"}`,
		`{"type":"Point","coordinates":[1]}`,
		`{"type":"Point","coordinates":[1,2,3,4]}`,
		`{"type":"Point","coordinates":[1,"2"]}`,
		`{"type":"Point","coordinates":{"x":1}}`,
		`{"type":"LineString","coordinates":[1,2]}`,
		`{"type":"Polygon","coordinates":[[1,2]]}`,
		`{"type":"MultiPolygon","coordinates":[[[1,2]]]}`,
		`{"type":"GeometryCollection"}`,
		`{"type":"GeometryCollection","geometries":{}}`,
		`{"type":"GeometryCollection","geometries":[{"type":"Feature"}]}`,
		`{"type":"Feature","geometry":5}`,
		`{"type":"Feature","geometry":{"type":"Nope"}}`,
		`{"type":"FeatureCollection","features":{}}`,
		`{"type":"FeatureCollection","features":[{"type":"Point","coordinates":[0,0]}]}`,
		`{"type":"FeatureCollection","features":[1]}`,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := FromTree(parse(t, in), 0)
			require.ErrorIs(t, err, errs.ErrInvalidGeoJSON)
		})
	}
}

func TestFromTree_DepthLimit(t *testing.T) {
	nested := func(depth int) string {
		return strings.Repeat(`{"type":"GeometryCollection","geometries":[`, depth) +
			`{"type":"Point","coordinates":[0,0]}` + strings.Repeat(`]}`, depth)
	}

	_, err := FromTree(parse(t, nested(3)), 3)
	require.NoError(t, err)

	_, err = FromTree(parse(t, nested(4)), 3)
	require.ErrorIs(t, err, errs.ErrDepthLimitExceeded)

	_, err = FromTree(parse(t, nested(DefaultMaxDepth)), 0)
	require.NoError(t, err)

	_, err = FromTree(parse(t, nested(DefaultMaxDepth+1)), 0)
	require.ErrorIs(t, err, errs.ErrDepthLimitExceeded)
}

func TestTree_ThreeDimensionalPadding(t *testing.T) {
	g := NewLineString([]Position{{1, 2}, {3, 4, 5}})
	want := parse(t, `{"type":"LineString","coordinates":[[1,2,0],[3,4,5]]}`)
	require.Empty(t, cmp.Diff(want, g.Tree()))

	flat := NewLineString([]Position{{1, 2, 0}, {3, 4, 0}})
	want = parse(t, `{"type":"LineString","coordinates":[[1,2],[3,4]]}`)
	require.Empty(t, cmp.Diff(want, flat.Tree()))
}

func TestTree_ForeignCannotOverrideType(t *testing.T) {
	foreign := jsontree.NewObject()
	foreign.Set("type", jsontree.String("Polygon"))
	foreign.Set("coordinates", jsontree.Null())
	foreign.Set("name", jsontree.String("n"))

	g := NewPoint(Position{1, 2})
	g.Foreign = foreign

	want := parse(t, `{"type":"Point","coordinates":[1,2],"name":"n"}`)
	require.Empty(t, cmp.Diff(want, g.Tree()))
}
