// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package capture

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/quedo-dev/quedo/internal/logger"
	"github.com/quedo-dev/quedo/internal/watchdog"
)

// Config configures a MicrophoneCapture factory. Mirrors the fields
// audio.Config carried in speak-to-ai, trimmed to what each variant needs.
type Config struct {
	Variant Variant

	// Device is the preferred source/device name; "" selects the platform
	// default.
	Device string

	// SampleFormat is the in-process variant's input PCM encoding, one of
	// "f32", "i16", "u16". Ignored by the subprocess variant.
	SampleFormat string
}

// MicrophoneCapture selects a recorder variant and produces ActiveRecording
// handles. Grounded on speak-to-ai's AudioRecorderFactory, generalized from
// "which of two subprocess binaries" to "in-process vs. subprocess, each
// with its own binary/device fallback".
type MicrophoneCapture struct {
	cfg Config
	log logger.Logger
}

// New creates a MicrophoneCapture bound to cfg.
func New(cfg Config, log logger.Logger) *MicrophoneCapture {
	return &MicrophoneCapture{cfg: cfg, log: log}
}

// StartRecording creates outputDir if absent and starts a new recording,
// choosing the configured variant. The WAV path the handle's Stop returns
// is always "<outputDir>/capture-<uuid>.wav".
func (m *MicrophoneCapture) StartRecording(outputDir string, wdCfg watchdog.Config) (ActiveRecording, error) {
	if err := os.MkdirAll(outputDir, 0o700); err != nil {
		return nil, fmt.Errorf("capture: create output dir: %w", err)
	}

	wavPath := filepath.Join(outputDir, fmt.Sprintf("capture-%s.wav", uuid.NewString()))

	switch m.cfg.Variant {
	case VariantInProcess:
		return startInProcessRecorder(m.cfg, wavPath, wdCfg, m.log)
	case VariantSubprocess:
		return startSubprocessRecorder(m.cfg, wavPath, wdCfg, m.log)
	default:
		return nil, fmt.Errorf("capture: unknown recorder variant %q", m.cfg.Variant)
	}
}
