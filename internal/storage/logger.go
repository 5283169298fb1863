package storage

import (
	"context"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/slopjam/perftest/internal/ctxkeys"
	"github.com/slopjam/perftest/internal/logger"
)

// GormLogger bridges GORM's logging interface onto the tool logger.
type GormLogger struct {
	log      logger.Logger
	LogLevel gormlogger.LogLevel
}

// NewGormLogger wraps l for use as a gorm.Config Logger.
func NewGormLogger(l logger.Logger) *GormLogger {
	if l == nil {
		l = logger.NewNop()
	}
	return &GormLogger{log: l, LogLevel: gormlogger.Warn}
}

// LogMode returns a copy at the requested level.
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.LogLevel = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= gormlogger.Info {
		l.log.Info(msg, append([]any{"traceId", ctx.Value(ctxkeys.TraceIDKey{})}, data...)...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= gormlogger.Warn {
		l.log.Warn(msg, append([]any{"traceId", ctx.Value(ctxkeys.TraceIDKey{})}, data...)...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= gormlogger.Error {
		l.log.Error(msg, append([]any{"traceId", ctx.Value(ctxkeys.TraceIDKey{})}, data...)...)
	}
}

// Trace logs executed SQL with its latency.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []any{
		"traceId", ctx.Value(ctxkeys.TraceIDKey{}),
		"sql", sql,
		"rows", rows,
		"timeMs", float64(elapsed.Nanoseconds()) / 1e6,
	}
	switch {
	case err != nil && l.LogLevel >= gormlogger.Error:
		l.log.Error("sql error", append(fields, "error", err)...)
	case elapsed > time.Second && l.LogLevel >= gormlogger.Warn:
		l.log.Warn("slow sql", append(fields, "threshold", "1s")...)
	case l.LogLevel >= gormlogger.Info:
		l.log.Debug("sql", fields...)
	}
}
