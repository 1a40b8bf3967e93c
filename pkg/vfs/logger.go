package vfs

import (
	"log/slog"
	"strings"

	"github.com/litebase/sqliteplugin/pkg/sqlite3"
	"github.com/rs/zerolog"
)

type LogLevel int

const (
	LogLevelError LogLevel = iota + 1
	LogLevelWarn
	LogLevelNotice
)

// Code returns the result code SQLite's log receives for the level.
func (l LogLevel) Code() int32 {
	switch l {
	case LogLevelError:
		return sqlite3.SQLITE_INTERNAL
	case LogLevelWarn:
		return sqlite3.SQLITE_WARNING
	default:
		return sqlite3.SQLITE_NOTICE
	}
}

// Logger writes to SQLite's log, the sink configured with
// SQLITE_CONFIG_LOG. Every registration hands its backend a Logger through
// RegisterLogger.
type Logger struct {
	host *host
	slog *slog.Logger
}

func newLogger(h *host) *Logger {
	l := &Logger{host: h}
	l.slog = slog.New(newLogHandler(l, nil))

	return l
}

// Log writes msg to SQLite's log. SQLite truncates long entries, so every
// line of msg is logged as its own entry.
func (l *Logger) Log(level LogLevel, msg string) {
	if l == nil || l.host == nil {
		return
	}

	msg = strings.ReplaceAll(strings.TrimRight(msg, "\n"), "\x00", "")

	for _, line := range strings.Split(msg, "\n") {
		l.host.log(level.Code(), line)
	}
}

func (l *Logger) Error(msg string) {
	l.Log(LogLevelError, msg)
}

func (l *Logger) Warn(msg string) {
	l.Log(LogLevelWarn, msg)
}

func (l *Logger) Notice(msg string) {
	l.Log(LogLevelNotice, msg)
}

// Slog returns a structured logger writing to SQLite's log.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Zerolog returns a zerolog logger writing to SQLite's log.
func (l *Logger) Zerolog() zerolog.Logger {
	return zerolog.New(l).With().Timestamp().Logger()
}

// Write implements io.Writer, logging p as a notice.
func (l *Logger) Write(p []byte) (int, error) {
	l.Log(LogLevelNotice, string(p))

	return len(p), nil
}

// WriteLevel implements zerolog.LevelWriter.
func (l *Logger) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	switch {
	case level >= zerolog.ErrorLevel && level != zerolog.NoLevel:
		l.Log(LogLevelError, string(p))
	case level == zerolog.WarnLevel:
		l.Log(LogLevelWarn, string(p))
	default:
		l.Log(LogLevelNotice, string(p))
	}

	return len(p), nil
}

func levelFromSlog(level slog.Level) LogLevel {
	switch {
	case level >= slog.LevelError:
		return LogLevelError
	case level >= slog.LevelWarn:
		return LogLevelWarn
	default:
		return LogLevelNotice
	}
}
