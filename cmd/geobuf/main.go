// Command geobuf converts GeoJSON to Geobuf and back, and inspects Geobuf files.
package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/internal/config"
	"github.com/arloliu/geobuf/internal/logger"
)

// Options are the flags shared by every command.
type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"GEOBUF_CONFIG" description:"Path to YAML configuration file"`

	Encode          EncodeCommand          `command:"encode" description:"Encode GeoJSON (or YAML) to Geobuf"`
	Decode          DecodeCommand          `command:"decode" description:"Decode Geobuf to GeoJSON or YAML"`
	Dump            DumpCommand            `command:"dump" description:"Print the protocol buffer structure of a Geobuf file"`
	NormalizeJSON   NormalizeJSONCommand   `command:"normalize-json" description:"Rewrite GeoJSON in decoded form"`
	NormalizeGeobuf NormalizeGeobufCommand `command:"normalize-geobuf" description:"Re-encode Geobuf with canonical layout"`
	RoundTrip       RoundTripCommand       `command:"roundtrip" description:"Compare GeoJSON files with their decode(encode()) result"`
}

var (
	opts Options
	cfg  *config.Config
)

func main() {
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		opts.Logger.Setup()

		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			return errors.Wrap(err, "load configuration")
		}

		return cmd.Execute(args)
	}

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				fmt.Fprintln(os.Stdout, flagsErr.Message)
				os.Exit(0)
			}
			fmt.Fprintln(os.Stderr, flagsErr.Message)
			os.Exit(2)
		}

		log.Error().Err(err).Str("kind", errs.KindOf(err)).Msg("geobuf failed")
		os.Exit(1)
	}
}
