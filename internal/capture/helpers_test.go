// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package capture

import (
	"time"

	"github.com/quedo-dev/quedo/internal/logger"
	"github.com/quedo-dev/quedo/internal/watchdog"
)

// noopTestLogger discards everything; the capture package's tests only
// exercise paths where logging is incidental to the assertion.
type noopTestLogger struct{}

func (noopTestLogger) Debug(string, ...interface{})   {}
func (noopTestLogger) Info(string, ...interface{})    {}
func (noopTestLogger) Warning(string, ...interface{}) {}
func (noopTestLogger) Error(string, ...interface{})   {}
func (n noopTestLogger) With(string) logger.Logger    { return n }

func defaultTestWatchdogConfig() watchdog.Config {
	return watchdog.Config{ArmingTimeout: time.Second, StallTimeout: time.Second}
}
