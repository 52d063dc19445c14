// Package logging configures zerolog for the batch commands.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger for the named component. The level comes
// from PUCKSTATS_LOG_LEVEL (default info).
func New(component string) zerolog.Logger {
	lvl := parseLevel(os.Getenv("PUCKSTATS_LOG_LEVEL"))
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(w).Level(lvl).With().
		Timestamp().
		Str("component", component).
		Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return zerolog.TraceLevel
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
