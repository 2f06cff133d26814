// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package watchdog decides, from externally observable evidence, whether a
// capture is arming, live, or stalled. Two realizations share this contract:
// an in-process audio-callback watchdog (see callback.go) and a
// subprocess-file-growth watchdog (see filegrowth.go); both are built on the
// same Watchdog primitive. Grounded on speak-to-ai's audio.BaseRecorder,
// which tracks a single writer-thread/reader-thread pair of counters behind
// one mutex (audio/base_recorder.go's levelMutex pattern), generalized here
// from "audio level" to "did a frame arrive, and when".
package watchdog

import (
	"sync"
	"time"
)

// Config holds the two timeouts a Watchdog is judged against. Both must be
// positive.
type Config struct {
	ArmingTimeout time.Duration
	StallTimeout  time.Duration
}

// Snapshot is the watchdog's externally observable verdict at a point in
// time.
type Snapshot struct {
	Armed          bool
	Stalled        bool
	FirstFrameSeen bool
}

// failSafe is returned whenever the watchdog's internal lock cannot be
// trusted; recorders fail toward "assume the worst" rather than toward
// "assume healthy".
var failSafe = Snapshot{Armed: false, Stalled: true, FirstFrameSeen: false}

// Watchdog is the shared primitive behind both recorder variants. Frame
// arrival is reported by exactly one writer (the recorder's own thread or
// poller); Snapshot is read by the controller from any goroutine.
type Watchdog struct {
	cfg       Config
	startedAt time.Time

	mu             sync.Mutex
	poisoned       bool
	firstFrameSeen bool
	lastFrameAt    time.Time
}

// New creates a Watchdog armed from startedAt.
func New(cfg Config, startedAt time.Time) *Watchdog {
	return &Watchdog{cfg: cfg, startedAt: startedAt}
}

// MarkFrame latches first_frame_seen and records the frame's arrival time.
// Safe to call concurrently with Snapshot; must be called by only one writer
// at a time (the recorder thread).
func (w *Watchdog) MarkFrame(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			w.mu.Lock()
			w.poisoned = true
			w.mu.Unlock()
		}
	}()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.firstFrameSeen = true
	w.lastFrameAt = now
}

// Snapshot computes the watchdog's current verdict. Non-destructive, safe to
// call at any time while the recording is owned.
func (w *Watchdog) Snapshot(now time.Time) Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.poisoned {
		return failSafe
	}

	firstFrameSeen := w.firstFrameSeen
	armed := firstFrameSeen || now.Sub(w.startedAt) <= w.cfg.ArmingTimeout
	stalled := firstFrameSeen && now.Sub(w.lastFrameAt) > w.cfg.StallTimeout

	return Snapshot{Armed: armed, Stalled: stalled, FirstFrameSeen: firstFrameSeen}
}
