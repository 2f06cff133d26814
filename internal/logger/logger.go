// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package logger provides the leveled logging interface used across the
// daemon, backed by charmbracelet/log.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
)

// LogLevel represents the level of logging
type LogLevel int

const (
	// DebugLevel log level
	DebugLevel LogLevel = iota
	// InfoLevel log level
	InfoLevel
	// WarningLevel log level
	WarningLevel
	// ErrorLevel log level
	ErrorLevel
)

// Logger interface defines methods for logging at different levels
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
	// With returns a derived logger tagging every message with component;
	// every background owner in the controller's thread model (controller,
	// worker, capture, harness) tags its own messages this way.
	With(component string) Logger
}

// Config contains logger configuration
type Config struct {
	Level LogLevel
	File  string
}

func toCharmLevel(l LogLevel) charmlog.Level {
	switch l {
	case DebugLevel:
		return charmlog.DebugLevel
	case WarningLevel:
		return charmlog.WarnLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// DefaultLogger implements Logger over a charmbracelet/log.Logger
type DefaultLogger struct {
	level LogLevel
	inner *charmlog.Logger
}

// NewDefaultLogger creates a new default logger with the specified log level,
// writing to stderr.
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	return newDefaultLogger(level, os.Stderr)
}

func newDefaultLogger(level LogLevel, out io.Writer) *DefaultLogger {
	inner := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		Level:           toCharmLevel(level),
	})
	return &DefaultLogger{level: level, inner: inner}
}

// Configure sets up the logger with given configuration; if config.File is
// set, log output is appended there instead of stderr.
func Configure(config Config) (*DefaultLogger, error) {
	out := io.Writer(os.Stderr)

	if config.File != "" {
		dir := filepath.Dir(config.File)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
		f, err := os.OpenFile(config.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", config.File, err)
		}
		out = f
	}

	return newDefaultLogger(config.Level, out), nil
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(format string, args ...interface{}) {
	l.inner.Debug(fmt.Sprintf(format, args...))
}

// Info logs an informational message
func (l *DefaultLogger) Info(format string, args ...interface{}) {
	l.inner.Info(fmt.Sprintf(format, args...))
}

// Warning logs a warning message
func (l *DefaultLogger) Warning(format string, args ...interface{}) {
	l.inner.Warn(fmt.Sprintf(format, args...))
}

// Error logs an error message
func (l *DefaultLogger) Error(format string, args ...interface{}) {
	l.inner.Error(fmt.Sprintf(format, args...))
}

// With returns a derived logger tagging every message with component.
func (l *DefaultLogger) With(component string) Logger {
	return &DefaultLogger{
		level: l.level,
		inner: l.inner.With("component", component),
	}
}
