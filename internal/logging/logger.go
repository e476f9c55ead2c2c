// Package logging builds the zerolog loggers shared by the command-line
// tools. Loggers travel through context.Context (zerolog.Ctx).
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates a logger writing to w. format "json" emits one JSON object
// per line; anything else uses the human-readable console writer. Unknown
// levels fall back to info.
func New(levelStr, formatStr string, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(levelStr)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := w
	if formatStr != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
