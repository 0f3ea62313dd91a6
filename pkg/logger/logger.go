package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ServiceName is attached to every log line.
const ServiceName = "amanah-profile-site"

// Options selects the level, format and destination of a logger. Empty
// fields fall back to LOG_LEVEL, LOG_FORMAT and stdout.
type Options struct {
	Level  string
	Format string // "json" or "pretty"
	Out    io.Writer
}

// New creates a new zerolog logger with structured output
func New(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if opts.Level == "" {
		opts.Level = os.Getenv("LOG_LEVEL")
	}
	if opts.Format == "" {
		opts.Format = os.Getenv("LOG_FORMAT")
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	logLevel := ParseLevel(opts.Level)

	// Use pretty console output in development
	if os.Getenv("ENV") == "development" || opts.Format == "pretty" {
		return zerolog.New(zerolog.ConsoleWriter{Out: opts.Out, TimeFormat: time.RFC3339}).
			Level(logLevel).
			With().
			Timestamp().
			Caller().
			Str("service", ServiceName).
			Logger()
	}

	// JSON output for production
	return zerolog.New(opts.Out).
		Level(logLevel).
		With().
		Timestamp().
		Str("service", ServiceName).
		Logger()
}

// ParseLevel maps a LOG_LEVEL value to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
