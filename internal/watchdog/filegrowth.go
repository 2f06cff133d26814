// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package watchdog

import (
	"os"
	"time"
)

// wavHeaderSize is the size, in bytes, of a canonical RIFF/WAVE header.
// Growth of the recording file beyond this size is evidence of a frame.
const wavHeaderSize int64 = 44

// FileGrowthWatchdog wraps a Watchdog for the subprocess recorder variant: a
// periodic caller polls the WAV file's size, and growth since the last poll
// (beyond the header) counts as a frame.
type FileGrowthWatchdog struct {
	*Watchdog
	path     string
	lastSize int64
}

// NewFileGrowthWatchdog creates a FileGrowthWatchdog polling path, armed
// from startedAt.
func NewFileGrowthWatchdog(cfg Config, startedAt time.Time, path string) *FileGrowthWatchdog {
	return &FileGrowthWatchdog{Watchdog: New(cfg, startedAt), path: path}
}

// Poll stats the underlying file and marks a frame if its size has grown
// since the last poll past the WAV header. Called on a cadence by the
// subprocess recorder's poll loop; errors (file not yet created) are
// swallowed — the watchdog simply reports no frame yet.
func (f *FileGrowthWatchdog) Poll(now time.Time) {
	info, err := os.Stat(f.path)
	if err != nil {
		return
	}

	size := info.Size()
	if size > wavHeaderSize && size > f.lastSize {
		f.MarkFrame(now)
	}
	f.lastSize = size
}
