// Package logging builds the process logger: nested-formatted logrus on
// stderr, optionally teed into a rotating file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Fields is an alias so callers need not import logrus for field maps.
type Fields = logrus.Fields

// Config selects level and destinations.
type Config struct {
	// Level is a logrus level name; empty means info.
	Level string
	// File, when set, receives a copy of every entry with rotation.
	File string
	// Output replaces stderr. Tests pass a buffer or io.Discard.
	Output io.Writer
	// NoColors disables ANSI colors, e.g. when stderr is not a terminal.
	NoColors bool
	// Caller adds file:line and function to each entry.
	Caller bool
}

// Logger is a logrus logger that owns its rotating file writer.
type Logger struct {
	*logrus.Logger
	file *lumberjack.Logger
}

// New creates a logger from the config.
func New(cfg Config) (*Logger, error) {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		lvl, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = lvl
	}

	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&formatter.Formatter{
		NoColors:              cfg.NoColors,
		TimestampFormat:       "02 Jan 06 - 15:04:05",
		CallerFirst:           true,
		CustomCallerFormatter: callerFormatter,
	})
	l.SetReportCaller(cfg.Caller)

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	writers := []io.Writer{out}

	logger := &Logger{Logger: l}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		logger.file = &lumberjack.Logger{
			Filename:   cfg.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    50,
			MaxAge:     7,
			MaxBackups: 3,
		}
		writers = append(writers, logger.file)
	}

	l.SetOutput(io.MultiWriter(writers...))
	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Logger{Logger: l}
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func callerFormatter(f *runtime.Frame) string {
	s := strings.Split(f.Function, ".")
	funcName := s[len(s)-1]
	return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
}
