// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package capture implements ActiveRecording and MicrophoneCapture: the two
// recorder variants (in-process audio-callback, subprocess WAV writer) live
// behind one interface so the controller never downcasts. Grounded on the
// teacher's audio package (audio/interface.go's AudioRecorder, audio/factory.go's
// method selection) generalized to this package's in-process/subprocess variant
// split, and on rbright-sotto's apps/sotto/internal/audio/pulse.go for the
// in-process path
// speak-to-ai itself never implemented.
package capture

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quedo-dev/quedo/internal/watchdog"
)

// Variant names a recorder realization, chosen once at construction.
type Variant string

const (
	VariantInProcess  Variant = "in_process"
	VariantSubprocess Variant = "subprocess"
)

// ErrUnsupportedFormat is returned when the in-process variant is asked to
// capture a PCM sample format it cannot downconvert to i16.
var ErrUnsupportedFormat = errors.New("capture: unsupported input sample format")

// BinaryMissingError reports that none of the subprocess variant's candidate
// recorder binaries were found on PATH.
type BinaryMissingError struct {
	Candidates []string
}

func (e *BinaryMissingError) Error() string {
	return fmt.Sprintf("binary missing: none of [%s] found on PATH", strings.Join(e.Candidates, ", "))
}

// ActiveRecording is the scoped, owner-moves-to-stop handle over one running
// capture. Stop is the only path that releases its OS resources: a handle
// dropped without Stop leaves its Pulse stream or child recorder process
// running.
type ActiveRecording interface {
	// WatchdogSnapshot is non-destructive and safe to call at any time while
	// the recording is owned.
	WatchdogSnapshot(now time.Time) watchdog.Snapshot

	// Stop consumes the handle and returns the finalized WAV path. It ceases
	// incoming frames, flushes a valid RIFF/WAVE file, and releases the
	// device or child process. Safe to call more than once.
	Stop() (string, error)
}
