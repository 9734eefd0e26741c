package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	base        zerolog.Logger
	initialized bool
)

// Options selects the level and writer for the global logger.
type Options struct {
	Level  string // debug|info|warn|error (default: info)
	Pretty bool   // human-readable console output instead of JSON
	Out    io.Writer
}

// Init configures the global logger. JSON to stdout unless Pretty is set.
func Init(opts Options) {
	level := parseLevel(opts.Level)

	zerolog.TimeFieldFormat = time.RFC3339Nano
	var w io.Writer = os.Stdout
	if opts.Out != nil {
		w = opts.Out
	}
	if opts.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	base = zerolog.New(w).With().Timestamp().Logger().Level(level)
	initialized = true
}

// L returns the global logger. Call Init() once on startup; until then an
// info-level JSON logger on stdout is used.
func L() *zerolog.Logger {
	if !initialized {
		Init(Options{})
	}
	return &base
}

// WithRequest returns a child logger tagged with the request id.
func WithRequest(requestID string) zerolog.Logger {
	return L().With().Str("request_id", requestID).Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
