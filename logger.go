package async

import (
	"log/slog"
	"os"
)

// Logger is the sink this package writes diagnostic events to: a task
// panic, a continuation falling back to NoSchedule because its parent
// pool is nil, a continuation run inline because its pool rejected the
// submission. It is never on the hot path
// of a resolved value or error — those flow through Future/AsyncResult
// directly.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// slogLogger adapts a *slog.Logger to the Logger interface. It is the
// default sink used when no WithLogger option is supplied.
type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

// newDefaultLogger returns the package default: a text-handler slog
// logger writing to stderr at Info level.
func newDefaultLogger() Logger {
	return slogLogger{l: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))}
}

// NewSlogLogger adapts an existing *slog.Logger for use as a Logger,
// for callers who already have one configured.
func NewSlogLogger(l *slog.Logger) Logger {
	return slogLogger{l: l}
}

// defaultLogger is the sink runContinuation warns through when an
// AsyncResult has no parent pool (Instant, InstantFail, or a Future
// wrapped with no ThreadPool) to supply its own Config.Logger from.
var defaultLogger Logger = newDefaultLogger()

// SetDefaultLogger overrides the sink used for diagnostics that have no
// ThreadPool (and therefore no Config.Logger) to report through, such
// as a continuation forced to PolicyNoSchedule because its AsyncResult
// has a nil pool. A nil l is ignored.
func SetDefaultLogger(l Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// noopLogger discards everything. Used in tests that assert on
// behavior, not on log output.
type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
