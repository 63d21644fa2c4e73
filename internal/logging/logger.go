package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Initialize sets up the global logger on stdout.
// Development mode uses the human readable console writer and debug level.
func Initialize(isDevelopment bool) {
	InitializeWithWriter(os.Stdout, isDevelopment)
}

// InitializeWithWriter sets up the global logger writing to out.
func InitializeWithWriter(out io.Writer, isDevelopment bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	output := out
	if isDevelopment {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
		}
	}

	log.Logger = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger()

	if isDevelopment {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// GetLogger returns a logger with the component field set
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// ValidLevel reports whether level names a zerolog level
func ValidLevel(level string) bool {
	_, err := parseLevel(level)
	return err == nil
}

// SetLogLevel sets the global log level, falling back to info for unknown names.
func SetLogLevel(level string) {
	lvl, err := parseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func parseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.NoLevel, fmt.Errorf("empty log level")
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q: %w", level, err)
	}
	return lvl, nil
}
