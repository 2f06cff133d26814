// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package transcription owns the transcription engine handle and the
// dedicated worker goroutine that serializes calls onto it. Grounded on the
// teacher's whisper package (WhisperEngine) and internal/app's worker
// goroutine wiring, generalized into an opaque engine-plus-worker contract.
package transcription

import (
	"context"
	"fmt"
)

// Request is one transcription job.
type Request struct {
	WavPath  string
	RunID    string
	Language string
}

// Engine is the opaque transcription backend. Constructed before the
// worker's thread starts so init errors (missing model, bad weights)
// propagate synchronously to the caller, never silently inside the worker
// goroutine.
type Engine interface {
	Transcribe(ctx context.Context, req Request) (Report, error)
	Close() error
}

// Report is an engine's successful transcription outcome.
type Report struct {
	Text     string
	Language string
	Warnings []string
}

// UnavailableEngine is an Engine that fails every call with a fixed reason.
// cmd/quedo substitutes it when real engine construction fails (missing
// model, cgo build without a binding) so the controller can still start in
// ControllerState::Unavailable without leaving the worker holding a nil
// Engine — the controller's transition table never schedules a job while
// Unavailable, but Worker.Shutdown always calls engine.Close(), so a non-nil
// stand-in is required regardless of whether Transcribe is ever reached.
type UnavailableEngine struct {
	Reason string
}

func (e UnavailableEngine) Transcribe(ctx context.Context, req Request) (Report, error) {
	return Report{}, fmt.Errorf("transcription: engine unavailable: %s", e.Reason)
}

func (e UnavailableEngine) Close() error { return nil }
