package logger

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"
)

// Interface is the logger injected into use cases, repositories and
// handlers. The w-suffixed methods take alternating key/value pairs.
type Interface interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	With(args ...any) Interface
	Named(name string) Interface

	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Fatalw(msg string, keysAndValues ...interface{})
}

// exit is replaced in tests.
var exit = os.Exit

type slogLogger struct {
	logger *slog.Logger
}

// NewLogger wraps the process-wide logger configured by Init.
func NewLogger() Interface {
	return &slogLogger{logger: Get()}
}

// NewLoggerWithSlog wraps an existing slog logger.
func NewLoggerWithSlog(l *slog.Logger) Interface {
	return &slogLogger{logger: l}
}

// emit records the caller's frame so the source attribute points at the
// call site rather than this adapter.
func (l *slogLogger) emit(level slog.Level, msg string, args []any) {
	ctx := context.Background()
	if !l.logger.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = l.logger.Handler().Handle(ctx, r)
}

func (l *slogLogger) Debug(msg string, args ...any) { l.emit(slog.LevelDebug, msg, args) }
func (l *slogLogger) Info(msg string, args ...any)  { l.emit(slog.LevelInfo, msg, args) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.emit(slog.LevelWarn, msg, args) }
func (l *slogLogger) Error(msg string, args ...any) { l.emit(slog.LevelError, msg, args) }

func (l *slogLogger) Fatal(msg string, args ...any) {
	l.emit(slog.LevelError, msg, args)
	exit(1)
}

func (l *slogLogger) Debugw(msg string, kv ...interface{}) { l.emit(slog.LevelDebug, msg, kv) }
func (l *slogLogger) Infow(msg string, kv ...interface{})  { l.emit(slog.LevelInfo, msg, kv) }
func (l *slogLogger) Warnw(msg string, kv ...interface{})  { l.emit(slog.LevelWarn, msg, kv) }
func (l *slogLogger) Errorw(msg string, kv ...interface{}) { l.emit(slog.LevelError, msg, kv) }

func (l *slogLogger) Fatalw(msg string, kv ...interface{}) {
	l.emit(slog.LevelError, msg, kv)
	exit(1)
}

func (l *slogLogger) With(args ...any) Interface {
	return &slogLogger{logger: l.logger.With(args...)}
}

// Named tags every record with the component name.
func (l *slogLogger) Named(name string) Interface {
	return l.With("component", name)
}
