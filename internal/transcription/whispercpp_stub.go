//go:build !cgo

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package transcription

import (
	"context"
	"errors"
)

// WhisperCppEngine is a no-cgo stub mirroring speak-to-ai's
// whisper/engine_stub.go: it fails every call with a clear, stable message
// instead of refusing to compile, so `quedo doctor` still runs (and reports
// the backend as unavailable) on a CGO_ENABLED=0 build.
type WhisperCppEngine struct{}

// NewWhisperCppEngine always fails on a no-cgo build.
func NewWhisperCppEngine(modelPath string) (*WhisperCppEngine, error) {
	return nil, errors.New("transcription: whisper.cpp engine unavailable: built without cgo")
}

// Transcribe always fails on a no-cgo build.
func (e *WhisperCppEngine) Transcribe(ctx context.Context, req Request) (Report, error) {
	return Report{}, errors.New("transcription: whisper.cpp engine unavailable: built without cgo")
}

// Close is a no-op in the stub.
func (e *WhisperCppEngine) Close() error { return nil }
