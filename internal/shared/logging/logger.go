package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New builds the diagnostic logger. Output is human readable; debug enables
// per-request logging of the identity and billing calls.
func New(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: false}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
