package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/internal/config"
)

func setup(t *testing.T) string {
	t.Helper()

	cfg = &config.Config{}
	return t.TempDir()
}

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))

	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func TestEncodeDecodeCommands(t *testing.T) {
	dir := setup(t)
	in := writeFile(t, dir, "in.json", `{"type":"Feature","geometry":{"type":"Point","coordinates":[1.25,2]},"properties":{"b":1,"a":"x"}}`)
	pbf := filepath.Join(dir, "out.pbf")
	out := filepath.Join(dir, "out.json")

	enc := &EncodeCommand{Input: in, Output: pbf, EncoderFlags: EncoderFlags{Precision: -1}}
	require.NoError(t, enc.Execute(nil))

	dec := &DecodeCommand{Input: pbf, Output: out, RenderFlags: RenderFlags{SortKeys: true}}
	require.NoError(t, dec.Execute(nil))
	require.Equal(t,
		`{"geometry":{"coordinates":[1.25,2.0],"type":"Point"},"properties":{"a":"x","b":1},"type":"Feature"}`+"\n",
		readFile(t, out))

	yamlOut := filepath.Join(dir, "out.yaml")
	dec = &DecodeCommand{Input: pbf, Output: yamlOut, RenderFlags: RenderFlags{Format: config.FormatYAML}}
	require.NoError(t, dec.Execute(nil))
	require.Contains(t, readFile(t, yamlOut), "type: Feature")

	dump := filepath.Join(dir, "dump.txt")
	require.NoError(t, (&DumpCommand{Input: pbf, Output: dump}).Execute(nil))
	require.Contains(t, readFile(t, dump), "5 {")
}

func TestEncodeCommand_YAMLInput(t *testing.T) {
	dir := setup(t)
	in := writeFile(t, dir, "in.yml", "type: LineString\ncoordinates:\n  - [0, 0]\n  - [1, 1]\n")
	pbf := filepath.Join(dir, "out.pbf")

	require.NoError(t, (&EncodeCommand{Input: in, Output: pbf, EncoderFlags: EncoderFlags{Precision: 2}}).Execute(nil))

	out := filepath.Join(dir, "out.json")
	require.NoError(t, (&DecodeCommand{Input: pbf, Output: out}).Execute(nil))
	require.Equal(t, `{"type":"LineString","coordinates":[[0.0,0.0],[1.0,1.0]]}`+"\n", readFile(t, out))
}

func TestEncodeCommand_Errors(t *testing.T) {
	dir := setup(t)
	bad := writeFile(t, dir, "bad.json", `{"type":"Circle"}`)

	err := (&EncodeCommand{Input: bad, Output: filepath.Join(dir, "x.pbf"), EncoderFlags: EncoderFlags{Precision: -1}}).Execute(nil)
	require.ErrorIs(t, err, errs.ErrInvalidGeoJSON)
	require.Equal(t, "InvalidGeoJSON", errs.KindOf(err))

	err = (&EncodeCommand{Input: bad, EncoderFlags: EncoderFlags{Precision: 99}}).Execute(nil)
	require.ErrorIs(t, err, errs.ErrInvalidOption)

	corrupt := writeFile(t, dir, "bad.pbf", "\x32\x0a")
	err = (&DecodeCommand{Input: corrupt}).Execute(nil)
	require.ErrorIs(t, err, errs.ErrCorruptInput)
}

func TestNormalizeCommands(t *testing.T) {
	dir := setup(t)
	in := writeFile(t, dir, "in.json", `{"type":"Feature","geometry":{"type":"Point","coordinates":[1.123456789,2]}}`)

	out := filepath.Join(dir, "norm.json")
	require.NoError(t, (&NormalizeJSONCommand{Input: in, Output: out, Precision: -1}).Execute(nil))
	require.Equal(t, `{"type":"Feature","geometry":{"type":"Point","coordinates":[1.123456789,2.0]},"properties":{}}`+"\n",
		readFile(t, out))

	require.NoError(t, (&NormalizeJSONCommand{Input: in, Output: out, Precision: 3}).Execute(nil))
	require.Equal(t, `{"type":"Feature","geometry":{"type":"Point","coordinates":[1.123,2.0]},"properties":{}}`+"\n",
		readFile(t, out))

	pbf := filepath.Join(dir, "in.pbf")
	require.NoError(t, (&EncodeCommand{Input: in, Output: pbf, EncoderFlags: EncoderFlags{Precision: 9}}).Execute(nil))
	coarse := filepath.Join(dir, "coarse.pbf")
	require.NoError(t, (&NormalizeGeobufCommand{Input: pbf, Output: coarse, EncoderFlags: EncoderFlags{Precision: 3}}).Execute(nil))

	direct := filepath.Join(dir, "direct.pbf")
	require.NoError(t, (&EncodeCommand{Input: in, Output: direct, EncoderFlags: EncoderFlags{Precision: 3}}).Execute(nil))
	require.Equal(t, readFile(t, direct), readFile(t, coarse))
}

func TestRoundTripCommand(t *testing.T) {
	dir := setup(t)
	exact := writeFile(t, dir, "exact.json", `{"type":"MultiPoint","coordinates":[[1.5,2],[3,4.25]]}`)
	lossy := writeFile(t, dir, "lossy.yaml", "type: Point\ncoordinates: [1.123456789, 2]\n")

	cmd := &RoundTripCommand{EncoderFlags: EncoderFlags{Precision: -1}}
	cmd.Args.Files = []string{exact}
	require.NoError(t, cmd.Execute(nil))

	cmd.Args.Files = []string{exact, lossy}
	require.ErrorIs(t, cmd.Execute(nil), errRoundTripMismatch)

	cmd.Precision = 9
	require.NoError(t, cmd.Execute(nil))
}

func TestIsYAML(t *testing.T) {
	require.True(t, isYAML("a.yaml"))
	require.True(t, isYAML("dir/A.YML"))
	require.False(t, isYAML("a.json"))
	require.False(t, isYAML("-"))
}
