package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

var log *slog.Logger

// Init sets up the default JSON logger writing to stdout. Call once at
// process start; the level can be lowered with LOG_LEVEL=debug.
func Init() {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// New wraps a handler in a logger. Used by tests to capture output.
func New(h slog.Handler) *slog.Logger {
	return slog.New(h)
}

// NewJSONHandler mirrors slog.NewJSONHandler so callers don't need to
// import log/slog alongside this package.
func NewJSONHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return slog.NewJSONHandler(w, opts)
}

func l() *slog.Logger {
	if log == nil {
		Init()
	}
	return log
}

func Info(msg string, args ...any) {
	l().Info(msg, args...)
}

func Infof(format string, v ...any) {
	l().Info(fmt.Sprintf(format, v...))
}

func Error(msg string, args ...any) {
	l().Error(msg, args...)
}

func Errorf(format string, v ...any) {
	l().Error(fmt.Sprintf(format, v...))
}

func Debug(msg string, args ...any) {
	l().Debug(msg, args...)
}

func Debugf(format string, v ...any) {
	l().Debug(fmt.Sprintf(format, v...))
}

func Fatal(msg string, args ...any) {
	l().Error(msg, args...)
	os.Exit(1)
}

func Fatalf(format string, v ...any) {
	l().Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}

func WithError(err error) *slog.Logger {
	return l().With("error", err)
}

func WithFields(fields map[string]any) *slog.Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return l().With(args...)
}
