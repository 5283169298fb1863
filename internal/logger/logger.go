package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the leveled key/value logging interface used across the tool.
// Keys and values alternate in kv.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
	With(kv ...any) Logger
}

// Options configures the backing zerolog logger.
type Options struct {
	Level   string   // debug, info, warn, error
	Writers []string // "console", "file"
	File    string   // log file path when the file writer is enabled
}

type zlog struct {
	zl zerolog.Logger
}

// New builds a Logger writing to the configured sinks. Unknown levels
// fall back to info, an empty writer list falls back to console.
func New(opts Options) Logger {
	var ws []io.Writer
	for _, w := range opts.Writers {
		switch w {
		case "console":
			ws = append(ws, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
		case "file":
			file := opts.File
			if file == "" {
				file = "perftest.log"
			}
			ws = append(ws, &lumberjack.Logger{
				Filename:   file,
				MaxSize:    10, // MB
				MaxBackups: 3,
				MaxAge:     14, // days
			})
		}
	}
	if len(ws) == 0 {
		ws = append(ws, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
	lvl, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		lvl = zerolog.InfoLevel
	}
	zl := zerolog.New(zerolog.MultiLevelWriter(ws...)).Level(lvl).With().Timestamp().Logger()
	return &zlog{zl: zl}
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return &zlog{zl: zerolog.Nop()}
}

func (l *zlog) Debug(msg string, kv ...any) { l.zl.Debug().Fields(kv).Msg(msg) }
func (l *zlog) Info(msg string, kv ...any)  { l.zl.Info().Fields(kv).Msg(msg) }
func (l *zlog) Warn(msg string, kv ...any)  { l.zl.Warn().Fields(kv).Msg(msg) }
func (l *zlog) Error(msg string, kv ...any) { l.zl.Error().Fields(kv).Msg(msg) }

func (l *zlog) With(kv ...any) Logger {
	return &zlog{zl: l.zl.With().Fields(kv).Logger()}
}
