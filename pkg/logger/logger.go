// Package logger builds the process-wide zerolog logger. Components derive
// their own loggers from it with .With().Str("component", ...).
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config controls how the logger is built.
type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // console writer for interactive runs
}

// New creates a structured logger at the configured level. Unknown or empty
// levels fall back to info. The level is carried on the returned logger, not
// on zerolog's global state, so tests can build loggers at other levels.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339

	var output io.Writer = os.Stdout
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}
