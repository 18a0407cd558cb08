// Package config loads the optional YAML settings file of the geobuf command.
package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/geobuf/codec"
	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/jsontree"
)

// Output formats of decoded documents.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds defaults that command line flags may override.
type Config struct {
	Encode Encode `yaml:"encode"`
	Decode Decode `yaml:"decode"`
}

// Encode holds encoder settings.
type Encode struct {
	Precision   *int `yaml:"precision,omitempty"`
	Adaptive    bool `yaml:"adaptive,omitempty"`
	MaxDepth    int  `yaml:"max_depth,omitempty"`
	Concurrency int  `yaml:"concurrency,omitempty"`
}

// Decode holds decoder and rendering settings.
type Decode struct {
	Indent   string `yaml:"indent,omitempty"`
	SortKeys bool   `yaml:"sort_keys,omitempty"`
	Format   string `yaml:"format,omitempty"`
	MaxDepth int    `yaml:"max_depth,omitempty"`
}

// Load reads and validates the YAML configuration file at path. An empty path
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(errs.ErrInvalidOption, "config %s: %v", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Decode.Format) {
	case "", FormatJSON, FormatYAML:
	default:
		return errors.Wrapf(errs.ErrInvalidOption, "unknown output format %q", c.Decode.Format)
	}

	// option constructors do the range checks
	if _, err := codec.NewEncoder(c.EncoderOptions()...); err != nil {
		return err
	}
	_, err := codec.NewDecoder(c.DecoderOptions()...)

	return err
}

// EncoderOptions returns the codec options for the configured encoder settings.
func (c *Config) EncoderOptions() []codec.EncoderOption {
	var opts []codec.EncoderOption
	if c.Encode.Precision != nil {
		opts = append(opts, codec.WithPrecision(*c.Encode.Precision))
	}
	if c.Encode.Adaptive {
		opts = append(opts, codec.WithAdaptivePrecision(true))
	}
	if c.Encode.MaxDepth != 0 {
		opts = append(opts, codec.WithMaxDepth(c.Encode.MaxDepth))
	}
	if c.Encode.Concurrency != 0 {
		opts = append(opts, codec.WithConcurrency(c.Encode.Concurrency))
	}

	return opts
}

// DecoderOptions returns the codec options for the configured decoder settings.
func (c *Config) DecoderOptions() []codec.DecoderOption {
	if c.Decode.MaxDepth == 0 {
		return nil
	}

	return []codec.DecoderOption{codec.WithDecoderMaxDepth(c.Decode.MaxDepth)}
}

// RenderOptions returns the text rendering settings.
func (c *Config) RenderOptions() jsontree.RenderOptions {
	return jsontree.RenderOptions{Indent: c.Decode.Indent, SortKeys: c.Decode.SortKeys}
}

// OutputFormat returns the decoded document format, json unless configured.
func (c *Config) OutputFormat() string {
	if c.Decode.Format == "" {
		return FormatJSON
	}

	return strings.ToLower(c.Decode.Format)
}
