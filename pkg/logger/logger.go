// Package logger provides the run logger. A Logger is created once at
// process start and passed to the pipeline; there is no package state.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelCritical is logged once when a run aborts.
const LevelCritical = slog.Level(12)

// Options configures New.
type Options struct {
	Level string // debug, info, warn or error
	File  string // optional; output goes to stdout and the file
}

type Logger struct {
	internal *slog.Logger
	file     *os.File
}

// New creates a logger writing to stdout and, when opts.File is set, to that
// file as well.
func New(opts Options) (*Logger, error) {
	var w io.Writer = os.Stdout
	var file *os.File
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		w = io.MultiWriter(os.Stdout, f)
	}
	l := NewWithWriter(w, opts.Level)
	l.file = file
	return l, nil
}

// NewWithWriter creates a logger writing text records to w.
func NewWithWriter(w io.Writer, level string) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: renameCritical,
	})
	return &Logger{internal: slog.New(handler)}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWithWriter(io.Discard, "error")
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether level is one ParseLevel knows.
func ValidLevel(level string) bool {
	switch strings.ToLower(level) {
	case "", "debug", "info", "warn", "error":
		return true
	}
	return false
}

func renameCritical(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
			a.Value = slog.StringValue("CRITICAL")
		}
	}
	return a
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{internal: l.internal.With(args...), file: l.file}
}

func (l *Logger) Debugf(format string, v ...any) {
	l.internal.Debug(fmt.Sprintf(format, v...))
}

func (l *Logger) Infof(format string, v ...any) {
	l.internal.Info(fmt.Sprintf(format, v...))
}

func (l *Logger) Warnf(format string, v ...any) {
	l.internal.Warn(fmt.Sprintf(format, v...))
}

func (l *Logger) Errorf(format string, v ...any) {
	l.internal.Error(fmt.Sprintf(format, v...))
}

// Critical logs msg with structured attributes at LevelCritical.
func (l *Logger) Critical(msg string, args ...any) {
	l.internal.Log(context.Background(), LevelCritical, msg, args...)
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
