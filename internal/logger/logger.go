// Package logger configures the global zerolog logger from command line flags.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger holds the logging flags. Embed it in a go-flags options struct as a
// group.
type Logger struct {
	Level  string `long:"log-level"  env:"GEOBUF_LOG_LEVEL"  description:"Log level" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	Format string `long:"log-format" env:"GEOBUF_LOG_FORMAT" description:"Log output format" choice:"console" choice:"json" default:"console"`
}

// Setup installs the global logger, writing to stderr.
func (l Logger) Setup() {
	l.SetupWriter(os.Stderr)
}

// SetupWriter installs the global logger writing to w. Console output is
// colored only on stderr.
func (l Logger) SetupWriter(w io.Writer) {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if l.Format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: w != os.Stderr}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
