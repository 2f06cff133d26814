// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package capture

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArecordArgsPrefersDeviceFlag(t *testing.T) {
	args := subprocessBinaries[0].args("hw:1,0", "/tmp/out.wav")
	require.Equal(t, []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-D", "hw:1,0", "/tmp/out.wav"}, args)
}

func TestArecordArgsOmitsDeviceFlagWhenUnset(t *testing.T) {
	args := subprocessBinaries[0].args("", "/tmp/out.wav")
	require.Equal(t, []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "/tmp/out.wav"}, args)
}

func TestFfmpegArgsFallsBackToDefaultDevice(t *testing.T) {
	args := subprocessBinaries[1].args("", "/tmp/out.wav")
	require.Contains(t, args, "default")
	require.Contains(t, args, "/tmp/out.wav")
}

func TestFfmpegArgsUsesConfiguredDevice(t *testing.T) {
	args := subprocessBinaries[1].args("pulse_source", "/tmp/out.wav")
	require.Contains(t, args, "pulse_source")
}

// TestStartSubprocessRecorderBinaryMissing exercises the BinaryMissing path
// by pointing PATH at an empty directory so neither candidate resolves.
func TestStartSubprocessRecorderBinaryMissing(t *testing.T) {
	empty := t.TempDir()
	t.Setenv("PATH", empty)

	_, err := startSubprocessRecorder(Config{Variant: VariantSubprocess}, filepath.Join(empty, "out.wav"), defaultTestWatchdogConfig(), noopTestLogger{})

	var missing *BinaryMissingError
	require.ErrorAs(t, err, &missing)
	require.Contains(t, missing.Candidates, "arecord")
	require.Contains(t, missing.Candidates, "ffmpeg")
}

func TestBinaryMissingErrorMessage(t *testing.T) {
	err := &BinaryMissingError{Candidates: []string{"arecord", "ffmpeg"}}
	require.Contains(t, err.Error(), "arecord")
	require.Contains(t, err.Error(), "ffmpeg")
}
