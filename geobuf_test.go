package geobuf

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/geobuf/codec"
	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/jsontree"
)

func TestEncode_DecodeJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{
			"point rounded to six digits",
			`{"type":"Point","coordinates":[120.403174799,31.416966084]}`,
			`{"type":"Point","coordinates":[120.403175,31.416966]}`,
		},
		{
			"empty collection",
			`{"type":"FeatureCollection","features":[]}`,
			`{"type":"FeatureCollection","features":[]}`,
		},
		{
			"feature",
			`{"type":"Feature","id":7,"geometry":{"type":"LineString","coordinates":[[0,0],[1.5,-1]]},"properties":{"name":"a","n":-2}}`,
			`{"type":"Feature","id":7,"geometry":{"type":"LineString","coordinates":[[0.0,0.0],[1.5,-1.0]]},"properties":{"name":"a","n":-2}}`,
		},
		{
			"missing properties",
			`{"type":"Feature","geometry":null}`,
			`{"type":"Feature","geometry":null,"properties":{}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pbf, err := Encode([]byte(tt.in))
			require.NoError(t, err)

			out, err := DecodeJSON(pbf, jsontree.Compact)
			require.NoError(t, err)
			require.Equal(t, tt.out, string(out))
		})
	}
}

func TestEncode_DecodeJSON_Idempotent(t *testing.T) {
	tests := []struct {
		name       string
		properties string
	}{
		{"integral double", `{"a":2.0}`},
		{"integral double in array", `{"a":[2.0]}`},
		{"integral double in object", `{"a":{"b":-4.0,"c":3}}`},
		{"mixed numbers", `{"a":1,"b":1.0,"c":1.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := `{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":` + tt.properties + `}`

			first, err := Encode([]byte(in))
			require.NoError(t, err)
			text, err := DecodeJSON(first, jsontree.Compact)
			require.NoError(t, err)
			second, err := Encode(text)
			require.NoError(t, err)
			require.Equal(t, first, second, "decoded as %s", text)
		})
	}
}

func TestEncode_Options(t *testing.T) {
	in := []byte(`{"type":"Point","coordinates":[1.123456789,2]}`)

	pbf, err := Encode(in, codec.WithPrecision(9))
	require.NoError(t, err)
	out, err := DecodeJSON(pbf, jsontree.Compact)
	require.NoError(t, err)
	require.Equal(t, `{"type":"Point","coordinates":[1.123456789,2.0]}`, string(out))

	_, err = Encode(in, codec.WithPrecision(42))
	require.ErrorIs(t, err, errs.ErrInvalidOption)
}

func TestEncode_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"not json", `{"type":`, errs.ErrInvalidJSON},
		{"not an object", `[1,2]`, errs.ErrInvalidGeoJSON},
		{"missing type", `{"coordinates":[1,2]}`, errs.ErrInvalidGeoJSON},
		{"unknown type", `{"type":"Circle","coordinates":[1,2]}`, errs.ErrInvalidGeoJSON},
		{"bad position", `{"type":"Point","coordinates":[1]}`, errs.ErrInvalidGeoJSON},
		{"overflow", `{"type":"Point","coordinates":[1e200,0]}`, errs.ErrPrecisionOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pbf, err := Encode([]byte(tt.in))
			require.ErrorIs(t, err, tt.want)
			require.Nil(t, pbf)
		})
	}
}

func TestEncode_DepthLimit(t *testing.T) {
	in := []byte(`{"type":"GeometryCollection","geometries":[{"type":"GeometryCollection","geometries":[]}]}`)

	_, err := Encode(in, codec.WithMaxDepth(1))
	require.ErrorIs(t, err, errs.ErrDepthLimitExceeded)

	pbf, err := Encode(in, codec.WithMaxDepth(2))
	require.NoError(t, err)

	_, err = Decode(pbf, codec.WithDecoderMaxDepth(1))
	require.ErrorIs(t, err, errs.ErrDepthLimitExceeded)
}

func TestDecode_Corrupt(t *testing.T) {
	v, err := Decode([]byte{0x32, 0x0a, 0x08})
	require.ErrorIs(t, err, errs.ErrCorruptInput)
	require.True(t, v.IsNull())

	_, err = DecodeJSON(nil, jsontree.Compact)
	require.ErrorIs(t, err, errs.ErrCorruptInput)
}

func TestDecodeJSON_Render(t *testing.T) {
	pbf, err := Encode([]byte(`{"type":"Feature","properties":{"b":1,"a":2},"geometry":null}`))
	require.NoError(t, err)

	out, err := DecodeJSON(pbf, jsontree.RenderOptions{SortKeys: true})
	require.NoError(t, err)
	require.Equal(t, `{"geometry":null,"properties":{"a":2,"b":1},"type":"Feature"}`, string(out))

	out, err = DecodeJSON(pbf, jsontree.RenderOptions{Indent: "  "})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "{\n  \"type\": \"Feature\""), string(out))
}

func TestDump(t *testing.T) {
	pbf, err := Encode([]byte(`{"type":"Point","coordinates":[1,2]}`))
	require.NoError(t, err)

	out, err := Dump(pbf)
	require.NoError(t, err)
	require.Contains(t, out, "6 {\n  1: 0\n")
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]byte(`{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0,1],[1,1]]}}`),
		jsontree.Compact)
	require.NoError(t, err)
	require.Equal(t,
		`{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0.0,0.0,1.0],[1.0,1.0,0.0]]},"properties":{}}`,
		string(out))

	_, err = Normalize([]byte(`{"type":"Feature","geometry":5}`), jsontree.Compact)
	require.ErrorIs(t, err, errs.ErrInvalidGeoJSON)
}

func TestNormalizeGeobuf(t *testing.T) {
	in := []byte(`{"type":"MultiPoint","coordinates":[[1.23456789,2],[3,4]]}`)

	fine, err := Encode(in, codec.WithPrecision(8))
	require.NoError(t, err)

	coarse, err := NormalizeGeobuf(fine, codec.WithPrecision(2))
	require.NoError(t, err)
	direct, err := Encode(in, codec.WithPrecision(2))
	require.NoError(t, err)
	require.Equal(t, direct, coarse)

	same, err := NormalizeGeobuf(fine, codec.WithPrecision(8))
	require.NoError(t, err)
	require.Equal(t, fine, same)
}

func TestFingerprint(t *testing.T) {
	a, err := jsontree.Parse([]byte(`{"a":1,"b":[true,null]}`))
	require.NoError(t, err)
	b, err := jsontree.Parse([]byte(`{"b":[true,null],"a":1.0}`))
	require.NoError(t, err)

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)
	require.Equal(t, fa, fb)

	d, err := jsontree.Parse([]byte(`{"a":1.0,"b":[true,null]}`))
	require.NoError(t, err)
	fd, err := Fingerprint(d)
	require.NoError(t, err)
	require.Equal(t, fa, fd)

	c, err := jsontree.Parse([]byte(`{"a":2,"b":[true,null]}`))
	require.NoError(t, err)
	fc, err := Fingerprint(c)
	require.NoError(t, err)
	require.NotEqual(t, fa, fc)
}

func TestRoundTrip_Stable(t *testing.T) {
	in := []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"r1","geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]},"properties":{"z":{"deep":[1,2,3]}}},
		{"type":"Feature","geometry":{"type":"Point","coordinates":[5,6,7]},"properties":{"h":7},"when":"now"}],"bbox":[0,0,5,6]}`)

	pbf, err := Encode(in)
	require.NoError(t, err)
	out, err := Decode(pbf)
	require.NoError(t, err)

	normalized, err := Normalize(in, jsontree.Compact)
	require.NoError(t, err)
	want, err := jsontree.Parse(normalized)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(want, out))

	fw, err := Fingerprint(want)
	require.NoError(t, err)
	fo, err := Fingerprint(out)
	require.NoError(t, err)
	require.Equal(t, fw, fo)
}
