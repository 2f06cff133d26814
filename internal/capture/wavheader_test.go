// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package capture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeWav(t *testing.T, dir string, header [12]byte, extra int) string {
	t.Helper()
	path := filepath.Join(dir, "t.wav")
	buf := make([]byte, 44+extra)
	copy(buf, header[:])
	require.NoError(t, os.WriteFile(path, buf, 0o600))
	return path
}

func TestValidateWAVHeaderAccepts(t *testing.T) {
	dir := t.TempDir()
	var h [12]byte
	copy(h[0:4], "RIFF")
	copy(h[8:12], "WAVE")
	path := writeWav(t, dir, h, 16)

	require.NoError(t, validateWAVHeader(path))
}

func TestValidateWAVHeaderRejectsHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	var h [12]byte
	copy(h[0:4], "RIFF")
	copy(h[8:12], "WAVE")
	path := writeWav(t, dir, h, 0)

	err := validateWAVHeader(path)
	require.Error(t, err)
}

func TestValidateWAVHeaderRejectsBadMagic(t *testing.T) {
	dir := t.TempDir()
	var h [12]byte
	copy(h[0:4], "JUNK")
	copy(h[8:12], "WAVE")
	path := writeWav(t, dir, h, 16)

	err := validateWAVHeader(path)
	require.Error(t, err)
}

func TestValidateWAVHeaderMissingFile(t *testing.T) {
	err := validateWAVHeader(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
}
