package logger

import (
	"io"
	"log/slog"
	"os"
)

type Logger interface {
	Info(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

type StdLogger struct {
	internalLogger *slog.Logger
}

// New returns a Logger backed by a text slog handler on stderr.
// Debug enables the debug level; everything else logs at info and above.
func New(debug bool) Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return &StdLogger{internalLogger: l}
}

// Discard returns a Logger that drops everything. Constructors fall back
// to it when the caller passes nil.
func Discard() Logger {
	return &StdLogger{internalLogger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (l *StdLogger) Info(msg string, args ...interface{}) {
	l.internalLogger.Info(msg, args...)
}

func (l *StdLogger) Debug(msg string, args ...interface{}) {
	l.internalLogger.Debug(msg, args...)
}

func (l *StdLogger) Warn(msg string, args ...interface{}) {
	l.internalLogger.Warn(msg, args...)
}

func (l *StdLogger) Error(msg string, args ...interface{}) {
	l.internalLogger.Error(msg, args...)
}
