package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arloliu/geobuf/internal/config"
	"github.com/arloliu/geobuf/jsontree"
)

// stdio names standard input or output in file flags.
const stdio = "-"

func readInput(path string) ([]byte, error) {
	if path == stdio || path == "" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == stdio || path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, 0o644) //nolint:gosec
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// readDocument reads a JSON or, by file extension, YAML document.
func readDocument(path string) (jsontree.Value, int, error) {
	data, err := readInput(path)
	if err != nil {
		return jsontree.Null(), 0, err
	}

	var v jsontree.Value
	if isYAML(path) {
		v, err = jsontree.ParseYAML(data)
	} else {
		v, err = jsontree.Parse(data)
	}

	return v, len(data), err
}

// render writes v as JSON, or YAML when format is "yaml". JSON output ends
// with a newline.
func render(v jsontree.Value, format string, opts jsontree.RenderOptions) ([]byte, error) {
	if format == config.FormatYAML {
		return jsontree.MarshalYAML(v, opts)
	}

	out, err := jsontree.Marshal(v, opts)
	if err != nil {
		return nil, err
	}

	return append(out, '\n'), nil
}
