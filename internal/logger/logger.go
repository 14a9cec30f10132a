// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// isTerminal is swapped in tests.
var isTerminal = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// PrettyDefault resolves the console format. An explicit override wins;
// otherwise console output is used only when stderr is a terminal.
func PrettyDefault(override *bool) bool {
	if override != nil {
		return *override
	}
	return isTerminal(os.Stderr.Fd())
}

// ParseLevel maps a configured level name to a zerolog level. The second
// result is false when the name was not recognised and info was assumed.
func ParseLevel(name string) (zerolog.Level, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, true
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel, false
	}
	return lvl, true
}

// New builds a timestamped logger writing to w, as JSON or, when pretty, in
// zerolog's console format.
func New(w io.Writer, pretty bool) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// Init installs the global logger on stderr and sets the global level.
func Init(level string, pretty bool) {
	lvl, known := ParseLevel(level)
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	log.Logger = New(os.Stderr, pretty)
	if !known {
		log.Warn().Str("level", level).Msg("Unknown log level, using info")
	}
}

// Component returns the global logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
