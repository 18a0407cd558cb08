package jsontree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/geobuf/errs"
)

func TestParseYAML(t *testing.T) {
	doc := `
type: Feature
id: 18446744073709551615
properties:
  name: "123"
  count: 3
  ratio: 0.5
  flag: yes
  none: null
  raw: !!binary aGVsbG8=
geometry: &geom
  type: Point
  coordinates: [1, 2]
again: *geom
`
	v, err := ParseYAML([]byte(doc))
	require.NoError(t, err)

	obj := v.Object()
	require.Equal(t, []string{"type", "id", "properties", "geometry", "again"}, obj.Keys())

	id, _ := obj.Get("id")
	require.Equal(t, KindUint, id.Kind())

	props, _ := obj.Get("properties")
	want := MustParse(t, `{"name":"123","count":3,"ratio":0.5,"flag":"yes","none":null,"raw":null}`)
	want.Object().Set("raw", Bytes([]byte("hello")))
	require.True(t, want.Equal(props), "yaml 1.1 booleans like yes stay strings in yaml.v3")

	geom, _ := obj.Get("geometry")
	again, _ := obj.Get("again")
	require.True(t, geom.Equal(again))
}

func TestParseYAML_Invalid(t *testing.T) {
	_, err := ParseYAML([]byte("a: [1, 2"))
	require.ErrorIs(t, err, errs.ErrInvalidJSON)

	_, err = ParseYAML([]byte("? [a, b]\n: 1\n"))
	require.ErrorIs(t, err, errs.ErrInvalidJSON)
}

func TestParseYAML_Empty(t *testing.T) {
	v, err := ParseYAML(nil)
	require.NoError(t, err)
	require.True(t, v.IsNull())
}

func TestMarshalYAML_RoundTrip(t *testing.T) {
	v := MustParse(t, `{"z":[1,-2,3.5,1e300],"a":{"s":"true","n":null,"b":false,"f":2.0},"big":18446744073709551615}`)
	v.Object().Set("raw", Bytes([]byte{0, 1, 2}))

	out, err := MarshalYAML(v, RenderOptions{})
	require.NoError(t, err)

	back, err := ParseYAML(out)
	require.NoError(t, err)
	require.True(t, v.Equal(back), "yaml:\n%s", out)
	require.Equal(t, v.Object().Keys(), back.Object().Keys())

	f, _ := back.Object().Get("a")
	two, _ := f.Object().Get("f")
	require.Equal(t, KindDouble, two.Kind(), "integral doubles keep their kind")
}

func TestMarshalYAML_SortKeys(t *testing.T) {
	v := MustParse(t, `{"b":1,"a":2}`)

	out, err := MarshalYAML(v, RenderOptions{SortKeys: true})
	require.NoError(t, err)
	require.Equal(t, "a: 2\nb: 1\n", string(out))
}

func TestMarshalYAML_NonFinite(t *testing.T) {
	_, err := MarshalYAML(Double(math.NaN()), RenderOptions{})
	require.ErrorIs(t, err, errs.ErrInvalidJSON)
}
