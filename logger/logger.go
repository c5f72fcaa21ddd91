package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a human readable console logger in development and a JSON
// logger everywhere else.
func New(env string, w io.Writer) zerolog.Logger {
	if env == "dev" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
		return zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}
	return zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Str("service", "agora").Logger()
}
