//go:build cgo

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package transcription

import (
	"fmt"
	"os"
	"path/filepath"
)

// openCleanPath opens audioFile after rejecting anything that isn't already
// in canonical form, matching speak-to-ai's loadAudioData path guard.
func openCleanPath(audioFile string) (*os.File, error) {
	clean := filepath.Clean(audioFile)
	if clean != audioFile {
		return nil, fmt.Errorf("invalid audio file path")
	}
	f, err := os.Open(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	return f, nil
}
