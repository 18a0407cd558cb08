package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/jsontree"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "geobuf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Empty(t, cfg.EncoderOptions())
	require.Empty(t, cfg.DecoderOptions())
	require.Equal(t, jsontree.Compact, cfg.RenderOptions())
	require.Equal(t, FormatJSON, cfg.OutputFormat())
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
encode:
  precision: 0
  adaptive: true
  concurrency: 4
decode:
  indent: "\t"
  sort_keys: true
  format: YAML
  max_depth: 8
`))
	require.NoError(t, err)

	require.NotNil(t, cfg.Encode.Precision)
	require.Equal(t, 0, *cfg.Encode.Precision)
	require.Len(t, cfg.EncoderOptions(), 3)
	require.Len(t, cfg.DecoderOptions(), 1)
	require.Equal(t, jsontree.RenderOptions{Indent: "\t", SortKeys: true}, cfg.RenderOptions())
	require.Equal(t, FormatYAML, cfg.OutputFormat())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"precision", "encode:\n  precision: 20\n"},
		{"concurrency", "encode:\n  concurrency: -1\n"},
		{"format", "decode:\n  format: xml\n"},
		{"depth", "decode:\n  max_depth: -3\n"},
		{"syntax", "encode: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.text))
			require.ErrorIs(t, err, errs.ErrInvalidOption)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
