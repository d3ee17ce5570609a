// Package logging provides file-based logging for reklamacije.
// It writes JSON lines to a rotating global log file (logs/reklamacije.log)
// and to task-specific log files (logs/task-<id>.log).
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hotelops/reklamacije/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Options configures a Logger.
type Options struct {
	Dir        string // Log directory; empty disables logging
	Level      zerolog.Level
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Logger writes structured entries through zerolog.
// Fields are ordered to minimize memory padding.
type Logger struct {
	global    *zerolog.Logger
	rotator   *lumberjack.Logger
	taskFiles map[string]*os.File
	tasks     map[string]zerolog.Logger
	now       func() time.Time
	opts      Options
	mu        sync.Mutex
}

// New creates a new Logger that writes to opts.Dir.
// If opts.Dir is empty, logging is disabled (returns a no-op logger).
func New(opts Options) *Logger {
	return &Logger{
		opts:      opts,
		taskFiles: make(map[string]*os.File),
		tasks:     make(map[string]zerolog.Logger),
		now:       time.Now,
	}
}

// FromConfig builds a Logger from the [log] section. dir is used when the
// config does not name a directory.
func FromConfig(cfg domain.LogConfig, dir string) *Logger {
	if cfg.Dir != "" {
		dir = cfg.Dir
	}
	return New(Options{
		Dir:        dir,
		Level:      ParseLevel(cfg.Level),
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
	})
}

// ParseLevel parses a log level string into a zerolog.Level.
func ParseLevel(levelStr string) zerolog.Level {
	switch levelStr {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) newZerolog(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(l.opts.Level)
}

// globalLogger opens or returns the rotating global logger. Callers hold l.mu.
func (l *Logger) globalLogger() (*zerolog.Logger, error) {
	if l.global != nil {
		return l.global, nil
	}
	if err := os.MkdirAll(l.opts.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	l.rotator = &lumberjack.Logger{
		Filename:   domain.GlobalLogPath(l.opts.Dir),
		MaxSize:    l.opts.MaxSizeMB,
		MaxBackups: l.opts.MaxBackups,
		MaxAge:     l.opts.MaxAgeDays,
	}
	zl := l.newZerolog(l.rotator)
	l.global = &zl
	return l.global, nil
}

// taskLogger opens or returns the logger of one task. Callers hold l.mu.
func (l *Logger) taskLogger(taskID string) (zerolog.Logger, error) {
	if zl, ok := l.tasks[taskID]; ok {
		return zl, nil
	}
	if err := os.MkdirAll(l.opts.Dir, 0o750); err != nil {
		return zerolog.Nop(), fmt.Errorf("create logs directory: %w", err)
	}
	path := domain.TaskLogPath(l.opts.Dir, taskID)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("open task log file: %w", err)
	}
	zl := l.newZerolog(f)
	l.taskFiles[taskID] = f
	l.tasks[taskID] = zl
	return zl, nil
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.rotator != nil {
		if err := l.rotator.Close(); err != nil {
			lastErr = err
		}
		l.rotator = nil
		l.global = nil
	}
	for id, f := range l.taskFiles {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.taskFiles, id)
		delete(l.tasks, id)
	}
	return lastErr
}

// log writes an entry to the global log and, when taskID is set, to the
// task's own log as well.
func (l *Logger) log(level zerolog.Level, taskID, category, msg string) {
	if l.opts.Dir == "" {
		return // Logging disabled
	}
	if level < l.opts.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.now()
	write := func(zl zerolog.Logger) {
		e := zl.WithLevel(level).Time(zerolog.TimestampFieldName, ts)
		if taskID != "" {
			e = e.Str("task", taskID)
		}
		e.Str("category", category).Msg(msg)
	}

	if gl, err := l.globalLogger(); err == nil {
		write(*gl)
	}
	if taskID != "" {
		if tl, err := l.taskLogger(taskID); err == nil {
			write(tl)
		}
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(taskID, category, msg string) {
	l.log(zerolog.DebugLevel, taskID, category, msg)
}

// Info logs an info message.
func (l *Logger) Info(taskID, category, msg string) {
	l.log(zerolog.InfoLevel, taskID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(taskID, category, msg string) {
	l.log(zerolog.WarnLevel, taskID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(taskID, category, msg string) {
	l.log(zerolog.ErrorLevel, taskID, category, msg)
}
