package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/arloliu/geobuf"
	"github.com/arloliu/geobuf/codec"
	"github.com/arloliu/geobuf/internal/hash"
	"github.com/arloliu/geobuf/jsontree"
)

// EncoderFlags override the encoder settings of the configuration file.
type EncoderFlags struct {
	Precision   int  `short:"p" long:"precision"   description:"Decimal digits kept for coordinates (0-15, default 6)" default:"-1"`
	Adaptive    bool `short:"a" long:"adaptive"    description:"Lower the precision to the smallest exact digit count"`
	Concurrency int  `short:"j" long:"concurrency" description:"Goroutines encoding features" default:"0"`
	MaxDepth    int  `long:"max-depth"             description:"GeometryCollection nesting limit" default:"0"`
}

func (f EncoderFlags) options() []codec.EncoderOption {
	opts := cfg.EncoderOptions()
	if f.Precision >= 0 {
		opts = append(opts, codec.WithPrecision(f.Precision))
	}
	if f.Adaptive {
		opts = append(opts, codec.WithAdaptivePrecision(true))
	}
	if f.Concurrency != 0 {
		opts = append(opts, codec.WithConcurrency(f.Concurrency))
	}
	if f.MaxDepth != 0 {
		opts = append(opts, codec.WithMaxDepth(f.MaxDepth))
	}

	return opts
}

// RenderFlags override the text rendering settings of the configuration file.
type RenderFlags struct {
	Indent   bool   `long:"indent"    description:"Indent output by two spaces"`
	SortKeys bool   `long:"sort-keys" description:"Order object members by key"`
	Format   string `long:"format"    description:"Output format" choice:"json" choice:"yaml"`
}

func (f RenderFlags) options() (jsontree.RenderOptions, string) {
	opts := cfg.RenderOptions()
	if f.Indent && opts.Indent == "" {
		opts.Indent = "  "
	}
	if f.SortKeys {
		opts.SortKeys = true
	}

	format := cfg.OutputFormat()
	if f.Format != "" {
		format = f.Format
	}

	return opts, format
}

// EncodeCommand converts GeoJSON to Geobuf.
type EncodeCommand struct {
	Input  string `short:"i" long:"input"  description:"GeoJSON or YAML input file, - for stdin" default:"-"`
	Output string `short:"o" long:"output" description:"Geobuf output file, - for stdout" default:"-"`

	EncoderFlags `group:"Encoder options"`
}

// Execute implements flags.Commander.
func (c *EncodeCommand) Execute(_ []string) error {
	v, size, err := readDocument(c.Input)
	if err != nil {
		return errors.Wrapf(err, "read %s", c.Input)
	}

	pbf, err := geobuf.EncodeTree(v, c.options()...)
	if err != nil {
		return errors.Wrapf(err, "encode %s", c.Input)
	}

	log.Debug().
		Str("input", c.Input).
		Int("json_bytes", size).
		Int("geobuf_bytes", len(pbf)).
		Msg("Encoded")

	return writeOutput(c.Output, pbf)
}

// DecodeCommand converts Geobuf to GeoJSON or YAML.
type DecodeCommand struct {
	Input    string `short:"i" long:"input"  description:"Geobuf input file, - for stdin" default:"-"`
	Output   string `short:"o" long:"output" description:"Output file, - for stdout" default:"-"`
	MaxDepth int    `long:"max-depth" description:"GeometryCollection nesting limit" default:"0"`

	RenderFlags `group:"Output options"`
}

// Execute implements flags.Commander.
func (c *DecodeCommand) Execute(_ []string) error {
	buf, err := readInput(c.Input)
	if err != nil {
		return errors.Wrapf(err, "read %s", c.Input)
	}

	decOpts := cfg.DecoderOptions()
	if c.MaxDepth != 0 {
		decOpts = append(decOpts, codec.WithDecoderMaxDepth(c.MaxDepth))
	}

	v, err := geobuf.Decode(buf, decOpts...)
	if err != nil {
		return errors.Wrapf(err, "decode %s", c.Input)
	}

	renderOpts, format := c.options()
	out, err := render(v, format, renderOpts)
	if err != nil {
		return err
	}

	log.Debug().
		Str("input", c.Input).
		Int("geobuf_bytes", len(buf)).
		Int("output_bytes", len(out)).
		Str("format", format).
		Msg("Decoded")

	return writeOutput(c.Output, out)
}

// DumpCommand prints the wire structure of a Geobuf file.
type DumpCommand struct {
	Input  string `short:"i" long:"input"  description:"Geobuf input file, - for stdin" default:"-"`
	Output string `short:"o" long:"output" description:"Output file, - for stdout" default:"-"`
}

// Execute implements flags.Commander.
func (c *DumpCommand) Execute(_ []string) error {
	buf, err := readInput(c.Input)
	if err != nil {
		return errors.Wrapf(err, "read %s", c.Input)
	}

	out, err := geobuf.Dump(buf)
	if err != nil {
		return errors.Wrapf(err, "dump %s", c.Input)
	}

	return writeOutput(c.Output, []byte(out))
}

// NormalizeJSONCommand rewrites GeoJSON the way the decoder renders it. With a
// precision, coordinates are also rounded through an encode and decode pass.
type NormalizeJSONCommand struct {
	Input     string `short:"i" long:"input"     description:"GeoJSON or YAML input file, - for stdin" default:"-"`
	Output    string `short:"o" long:"output"    description:"Output file, - for stdout" default:"-"`
	Precision int    `short:"p" long:"precision" description:"Round coordinates to this many digits" default:"-1"`

	RenderFlags `group:"Output options"`
}

// Execute implements flags.Commander.
func (c *NormalizeJSONCommand) Execute(_ []string) error {
	v, _, err := readDocument(c.Input)
	if err != nil {
		return errors.Wrapf(err, "read %s", c.Input)
	}

	var normalized jsontree.Value
	if c.Precision >= 0 {
		normalized, err = quantize(v, append(cfg.EncoderOptions(), codec.WithPrecision(c.Precision))...)
	} else {
		normalized, err = geobuf.NormalizeTree(v)
	}
	if err != nil {
		return errors.Wrapf(err, "normalize %s", c.Input)
	}

	renderOpts, format := c.options()
	out, err := render(normalized, format, renderOpts)
	if err != nil {
		return err
	}

	return writeOutput(c.Output, out)
}

// NormalizeGeobufCommand re-encodes a Geobuf file.
type NormalizeGeobufCommand struct {
	Input  string `short:"i" long:"input"  description:"Geobuf input file, - for stdin" default:"-"`
	Output string `short:"o" long:"output" description:"Geobuf output file, - for stdout" default:"-"`

	EncoderFlags `group:"Encoder options"`
}

// Execute implements flags.Commander.
func (c *NormalizeGeobufCommand) Execute(_ []string) error {
	buf, err := readInput(c.Input)
	if err != nil {
		return errors.Wrapf(err, "read %s", c.Input)
	}

	out, err := geobuf.NormalizeGeobuf(buf, c.options()...)
	if err != nil {
		return errors.Wrapf(err, "normalize %s", c.Input)
	}

	log.Debug().
		Str("input", c.Input).
		Int("input_bytes", len(buf)).
		Int("output_bytes", len(out)).
		Msg("Normalized")

	return writeOutput(c.Output, out)
}

// RoundTripCommand checks that decode(encode(x)) reproduces the normalized
// form of each input file.
type RoundTripCommand struct {
	EncoderFlags `group:"Encoder options"`

	Args struct {
		Files []string `positional-arg-name:"FILE" required:"1"`
	} `positional-args:"yes"`
}

// errRoundTripMismatch is returned when at least one file changed.
var errRoundTripMismatch = errors.New("round trip changed the document")

// Execute implements flags.Commander.
//
// One line is printed per file with the fingerprints of the normalized input
// and of the round trip result, followed by a combined fingerprint of all
// results.
func (c *RoundTripCommand) Execute(_ []string) error {
	opts := c.options()
	total := hash.NewDigest()
	changed := 0

	for _, path := range c.Args.Files {
		want, got, err := roundTrip(path, opts)
		if err != nil {
			return errors.Wrapf(err, "round trip %s", path)
		}

		status := "ok"
		if want != got {
			status = "changed"
			changed++
			log.Warn().Str("file", path).Msg("Round trip changed the document")
		}
		fmt.Fprintf(os.Stdout, "%016x %016x %s %s\n", want, got, status, path)
		total.Write(fmt.Appendf(nil, "%016x", got))
	}
	fmt.Fprintf(os.Stdout, "%016x total\n", total.Sum64())

	if changed > 0 {
		return errors.Wrapf(errRoundTripMismatch, "%d of %d files", changed, len(c.Args.Files))
	}

	return nil
}

// roundTrip returns the fingerprints of the normalized document at path and of
// its decode(encode()) result.
func roundTrip(path string, opts []codec.EncoderOption) (uint64, uint64, error) {
	v, _, err := readDocument(path)
	if err != nil {
		return 0, 0, err
	}

	normalized, err := geobuf.NormalizeTree(v)
	if err != nil {
		return 0, 0, err
	}
	decoded, err := quantize(v, opts...)
	if err != nil {
		return 0, 0, err
	}

	want, err := geobuf.Fingerprint(normalized)
	if err != nil {
		return 0, 0, err
	}
	got, err := geobuf.Fingerprint(decoded)
	if err != nil {
		return 0, 0, err
	}

	return want, got, nil
}

// quantize returns decode(encode(v)).
func quantize(v jsontree.Value, opts ...codec.EncoderOption) (jsontree.Value, error) {
	pbf, err := geobuf.EncodeTree(v, opts...)
	if err != nil {
		return jsontree.Null(), err
	}

	return geobuf.Decode(pbf)
}
