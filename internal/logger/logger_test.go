// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewDefaultLogger(t *testing.T) {
	l := NewDefaultLogger(InfoLevel)
	if l == nil {
		t.Fatal("NewDefaultLogger returned nil")
	}
	if l.level != InfoLevel {
		t.Errorf("expected level %v, got %v", InfoLevel, l.level)
	}
}

func TestDefaultLogger_LogLevels(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  LogLevel
		logMethod func(*DefaultLogger, string, ...interface{})
		message   string
		shouldLog bool
	}{
		{"debug at debug level logs", DebugLevel, (*DefaultLogger).Debug, "debug message", true},
		{"debug at info level is suppressed", InfoLevel, (*DefaultLogger).Debug, "debug message", false},
		{"info at info level logs", InfoLevel, (*DefaultLogger).Info, "info message", true},
		{"info at warning level is suppressed", WarningLevel, (*DefaultLogger).Info, "info message", false},
		{"warning at warning level logs", WarningLevel, (*DefaultLogger).Warning, "warning message", true},
		{"warning at error level is suppressed", ErrorLevel, (*DefaultLogger).Warning, "warning message", false},
		{"error at error level logs", ErrorLevel, (*DefaultLogger).Error, "error message", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newDefaultLogger(tt.logLevel, &buf)
			tt.logMethod(l, tt.message)

			output := buf.String()
			if tt.shouldLog && !strings.Contains(output, tt.message) {
				t.Errorf("expected output to contain %q, got %q", tt.message, output)
			}
			if !tt.shouldLog && output != "" {
				t.Errorf("expected no output, got %q", output)
			}
		})
	}
}

func TestDefaultLogger_LogFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := newDefaultLogger(DebugLevel, &buf)

	l.Info("processing file %s (%d bytes)", "capture.wav", 4096)

	output := buf.String()
	if !strings.Contains(output, "processing file capture.wav (4096 bytes)") {
		t.Errorf("expected formatted message in output, got %q", output)
	}
}

func TestDefaultLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := newDefaultLogger(InfoLevel, &buf)

	tagged := l.With("controller")
	tagged.Info("state changed")

	output := buf.String()
	if !strings.Contains(output, "controller") {
		t.Errorf("expected component tag in output, got %q", output)
	}
	if !strings.Contains(output, "state changed") {
		t.Errorf("expected message in output, got %q", output)
	}
}

func TestConfigure(t *testing.T) {
	l, err := Configure(Config{Level: InfoLevel})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if l == nil {
		t.Fatal("expected logger to be returned")
	}
	if l.level != InfoLevel {
		t.Errorf("expected level %v, got %v", InfoLevel, l.level)
	}
}

func TestLogLevel_Ordering(t *testing.T) {
	if DebugLevel >= InfoLevel {
		t.Error("DebugLevel should be less than InfoLevel")
	}
	if InfoLevel >= WarningLevel {
		t.Error("InfoLevel should be less than WarningLevel")
	}
	if WarningLevel >= ErrorLevel {
		t.Error("WarningLevel should be less than ErrorLevel")
	}
}

func TestDefaultLogger_Interface(t *testing.T) {
	var l Logger = NewDefaultLogger(InfoLevel)
	l.Debug("debug test")
	l.Info("info test")
	l.Warning("warning test")
	l.Error("error test")
	l.With("test").Info("tagged")
}
