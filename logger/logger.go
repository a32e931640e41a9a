// Package logger builds the zerolog logger used across the service
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config selects the level and output format
type Config struct {
	Level  string
	Pretty bool
	Out    io.Writer
}

// New returns a logger tagged with the service name. Unknown levels fall
// back to info.
func New(config Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil || config.Level == "" {
		level = zerolog.InfoLevel
	}

	out := config.Out
	if out == nil {
		out = os.Stdout
	}

	if config.Pretty {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "bonkboard").
		Logger()
}
