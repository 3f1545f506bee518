// Package logging wraps zap behind a slog-style key/value API so call sites
// read the same whether or not a span is in the context.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

type Logger struct {
	base *zap.Logger
}

var fallback atomic.Pointer[Logger]

func init() {
	fallback.Store(NewNop())
}

// Default is used by nil loggers and by packages built without one.
func Default() *Logger {
	return fallback.Load()
}

func SetDefault(logger *Logger) {
	if logger == nil {
		logger = NewNop()
	}
	fallback.Store(logger)
}

func NewNop() *Logger {
	return &Logger{base: zap.NewNop()}
}

func NewJSON(level Level) *Logger {
	return NewJSONWriter(level, os.Stdout)
}

// NewJSONWriter writes one JSON object per record to w.
func NewJSONWriter(level Level, w io.Writer) *Logger {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(JSONEncoderConfig()), zapcore.Lock(zapcore.AddSync(w)), level)
	// Skip the level method and Logger.log so callers show up as the caller.
	return &Logger{base: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2), zap.AddStacktrace(LevelError))}
}

// JSONEncoderConfig is the line layout shared by stdout and shipped logs.
func JSONEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "msg"
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	return cfg
}

// ParseLevel maps LOG_LEVEL to a level; unknown values mean info.
func ParseLevel(v string) Level {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "warning" {
		v = "warn"
	}
	level, err := zapcore.ParseLevel(v)
	if err != nil || level < LevelDebug || level > LevelError {
		return LevelInfo
	}
	return level
}

func (l *Logger) target() *zap.Logger {
	if l == nil || l.base == nil {
		return Default().base
	}
	return l.base
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{base: l.target().With(fields(args)...)}
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{base: l.target().Named(name)}
}

// Tee also sends every record to core, which applies its own level.
func (l *Logger) Tee(core zapcore.Core) *Logger {
	return &Logger{base: l.target().WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, core)
	}))}
}

func (l *Logger) Sync() error {
	return l.target().Sync()
}

func (l *Logger) Debug(msg string, args ...any) { l.log(context.Background(), LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.log(context.Background(), LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(context.Background(), LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.log(context.Background(), LevelError, msg, args) }

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, LevelDebug, msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, LevelInfo, msg, args)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, LevelWarn, msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, LevelError, msg, args)
}

func (l *Logger) log(ctx context.Context, level Level, msg string, args []any) {
	entry := l.target().Check(level, msg)
	if entry == nil {
		return
	}
	entry.Write(append(fields(args), traceFields(ctx)...)...)
	mirrorRecord(ctx, level, msg, args)
}
