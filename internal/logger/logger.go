// Package logger provides the configured zerolog logger for the service.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a zerolog.Logger writing JSON to stdout. Level falls back to
// info when the supplied string does not parse.
func New(service, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Str("service", service).
		Timestamp().
		Logger()
}
