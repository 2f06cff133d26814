// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), CliOverrides{})
	require.NoError(t, err)
	assert.Equal(t, Defaults().Audio.MaxRecordingSeconds, cfg.Audio.MaxRecordingSeconds)
	assert.Equal(t, OutputClipboardOnly, cfg.Output.Mode)
}

func TestLoadParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[audio]
max_recording_seconds = 30
retain_audio = true
arming_timeout_ms = 500
stall_timeout_ms = 1000

[transcription]
backend = "whisper_cpp"
model_id = "base.en"
timeout_seconds = 45

[output]
mode = "disabled"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path, CliOverrides{})
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Audio.MaxRecordingSeconds)
	assert.True(t, cfg.Audio.RetainAudio)
	assert.Equal(t, "base.en", cfg.Transcription.ModelID)
	assert.Equal(t, OutputDisabled, cfg.Output.Mode)
}

func TestLoadEnvOverlayAppliesBeforeCLI(t *testing.T) {
	t.Setenv("QUEDO_BACKEND", "whisper_cpp_env")
	t.Setenv("QUEDO_TIMEOUT_SECONDS", "90")
	t.Setenv("QUEDO_OUTPUT_MODE", "clipboard-only")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), CliOverrides{Backend: "whisper_cpp_cli"})
	require.NoError(t, err)

	// CLI outranks env for the same field.
	assert.Equal(t, "whisper_cpp_cli", cfg.Transcription.Backend)
	// Env alone wins where CLI didn't override.
	assert.Equal(t, 90, cfg.Transcription.TimeoutSeconds)
	assert.Equal(t, OutputClipboardOnly, cfg.Output.Mode)
}

func TestLoadRejectsZeroMaxRecordingSecondsFromEnv(t *testing.T) {
	t.Setenv("QUEDO_MAX_RECORDING_SECONDS", "0")
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"), CliOverrides{})
	assert.Error(t, err)
}

func TestLoadIgnoresUnknownOutputModeEnv(t *testing.T) {
	t.Setenv("QUEDO_OUTPUT_MODE", "bogus")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), CliOverrides{})
	require.NoError(t, err)
	assert.Equal(t, OutputClipboardOnly, cfg.Output.Mode)
}

func TestEnsureWrittenCreatesFileWithRestrictedPerms(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	require.NoError(t, EnsureWritten(path, Defaults()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Second call is a no-op, not an overwrite error.
	require.NoError(t, EnsureWritten(path, Defaults()))
}

func TestRoundTripSerializeParse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	original := Defaults()
	original.Transcription.ModelID = "small.en"
	original.Audio.Device = "hw:1,0"

	require.NoError(t, EnsureWritten(path, original))

	roundTripped, err := Load(path, CliOverrides{})
	require.NoError(t, err)

	assert.Equal(t, original, roundTripped)
}
