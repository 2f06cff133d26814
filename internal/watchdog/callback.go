// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package watchdog

import "time"

// CallbackWatchdog wraps a Watchdog for the in-process, audio-callback
// recorder variant: every non-empty buffer delivered by the audio stream
// counts as a frame.
type CallbackWatchdog struct {
	*Watchdog
}

// NewCallbackWatchdog creates a CallbackWatchdog armed from startedAt.
func NewCallbackWatchdog(cfg Config, startedAt time.Time) *CallbackWatchdog {
	return &CallbackWatchdog{Watchdog: New(cfg, startedAt)}
}

// OnBuffer is invoked by the audio callback with the buffer it just
// received. An empty buffer is not evidence of a frame.
func (c *CallbackWatchdog) OnBuffer(buf []float32, now time.Time) {
	if len(buf) == 0 {
		return
	}
	c.MarkFrame(now)
}
