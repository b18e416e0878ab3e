package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a structured logger wrapper around zerolog.
// All components log through this type; nothing else creates zerolog instances.
type Logger struct {
	zlog zerolog.Logger
}

// New creates a Logger writing to stdout.
// format "console" or "pretty" selects human-readable output; anything else is JSON.
func New(level, format string) *Logger {
	return NewWithWriter(level, format, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(level, format string, out io.Writer) *Logger {
	if format == "console" || format == "pretty" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(out).
		Level(parseLogLevel(level)).
		With().
		Timestamp().
		Logger()

	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// parseLogLevel converts string log level to zerolog.Level
func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) Debug(msg string) { l.zlog.Debug().Msg(msg) }

func (l *Logger) Info(msg string) { l.zlog.Info().Msg(msg) }

func (l *Logger) Warn(msg string) { l.zlog.Warn().Msg(msg) }

func (l *Logger) Error(msg string) { l.zlog.Error().Msg(msg) }

// WithField returns a new logger with an additional field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{zlog: l.zlog.With().Interface(key, value).Logger()}
}

// WithFields returns a new logger with multiple fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zlog.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zlog: ctx.Logger()}
}

// WithError returns a new logger with an error field
func (l *Logger) WithError(err error) *Logger {
	return &Logger{zlog: l.zlog.With().Err(err).Logger()}
}

// Zerolog returns the underlying zerolog.Logger
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zlog
}
