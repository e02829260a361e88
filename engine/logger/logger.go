package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the diagnostic sink shared by every engine package.
// It wraps a zerolog.Logger so call sites build structured events and finish them with Msg or Msgf.
type Logger struct {
	logger *zerolog.Logger
}

// New creates a JSON Logger writing to stderr.
//
// Parameters:
//   - isDebug: when true the minimum level is trace, otherwise info
//
// Returns:
//   - *Logger: the configured logger
func New(isDebug bool) *Logger {
	return NewWriter(os.Stderr, isDebug)
}

// NewConsole creates a human readable Logger writing to stdout with every line tagged by the given subsystem name.
//
// Parameters:
//   - isDebug: when true the minimum level is trace, otherwise info
//   - tag: the subsystem tag attached to every line
//   - noColor: disables ANSI colors in the output
//
// Returns:
//   - *Logger: the configured logger
func NewConsole(isDebug bool, tag string, noColor bool) *Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05.0000",
		NoColor:    noColor,
	}
	l := zerolog.New(output).Level(levelFor(isDebug)).With().Timestamp().Str("s", tag).Logger()
	return &Logger{logger: &l}
}

// NewWriter creates a JSON Logger writing to w. Tests use it to capture output.
//
// Parameters:
//   - w: the destination writer
//   - isDebug: when true the minimum level is trace, otherwise info
//
// Returns:
//   - *Logger: the configured logger
func NewWriter(w io.Writer, isDebug bool) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	l := zerolog.New(w).Level(levelFor(isDebug)).With().Timestamp().Logger()
	return &Logger{logger: &l}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	l := zerolog.Nop()
	return &Logger{logger: &l}
}

// levelFor opens the global level fully so each Logger's own level is the only filter.
func levelFor(isDebug bool) zerolog.Level {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	if isDebug {
		return zerolog.TraceLevel
	}
	return zerolog.InfoLevel
}

// With returns a child Logger with the given string field attached to every event.
//
// Parameters:
//   - key: the field name
//   - value: the field value
//
// Returns:
//   - *Logger: the child logger
func (l *Logger) With(key, value string) *Logger {
	child := l.logger.With().Str(key, value).Logger()
	return &Logger{logger: &child}
}

// Trace starts a new message with trace level.
func (l *Logger) Trace() *zerolog.Event { return l.logger.Trace() }

// Debug starts a new message with debug level.
func (l *Logger) Debug() *zerolog.Event { return l.logger.Debug() }

// Info starts a new message with info level.
func (l *Logger) Info() *zerolog.Event { return l.logger.Info() }

// Warn starts a new message with warn level.
func (l *Logger) Warn() *zerolog.Event { return l.logger.Warn() }

// Error starts a new message with error level.
func (l *Logger) Error() *zerolog.Event { return l.logger.Error() }

// Fatal starts a new message with fatal level. The Msg call on the returned event exits the process.
func (l *Logger) Fatal() *zerolog.Event { return l.logger.Fatal() }
