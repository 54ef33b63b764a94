package specrun

import (
	"io"
	"log/slog"
	"os"
)

// DebugEnv enables debug logging when set to a non-empty value.
const DebugEnv = "SPECRUN_DEBUG"

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// SetLogger replaces the package logger. A nil logger is ignored.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// NewLogger returns a text logger writing to w. Debug messages are kept when
// debug is true or DebugEnv is set.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug || os.Getenv(DebugEnv) != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})).
		With("component", "specrun")
}
