// Package logx is a thin wrapper over the global zerolog logger.
//
// The TUI owns stdout, so the client writes its log to a file; the stub
// server writes to stderr.
package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment selects the output format.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// Options configures Init.
type Options struct {
	Environment Environment
	Level       string
	Output      io.Writer
}

var DefaultOptions = Options{
	Environment: Development,
	Level:       "debug",
}

func safe(opts ...Options) Options {
	if len(opts) == 0 {
		return DefaultOptions
	}
	return opts[0]
}

// Init replaces the global logger.
func Init(opts ...Options) {
	o := safe(opts...)
	out := o.Output
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(o.Level)
	if err != nil || o.Level == "" {
		level = zerolog.InfoLevel
	}

	if o.Environment == Production {
		log.Logger = zerolog.New(out).With().Timestamp().Logger().Level(level)
		return
	}
	cw := zerolog.ConsoleWriter{Out: out, NoColor: out != os.Stderr}
	log.Logger = zerolog.New(cw).With().Timestamp().Caller().Logger().Level(level)
}

// OpenFile opens (appending) the log file at path.
func OpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// Discard silences all logging. Used by tests and --no-log.
func Discard() {
	log.Logger = zerolog.Nop()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
