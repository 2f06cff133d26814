// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package install

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallWritesExpectedFormatPerPlatform(t *testing.T) {
	dir := t.TempDir()
	var target string
	if runtime.GOOS == "darwin" {
		target = filepath.Join(dir, "io.quedo.daemon.plist")
	} else {
		target = filepath.Join(dir, "autostart", "quedo-daemon.desktop")
	}

	require.NoError(t, Install(target, "/usr/local/bin/quedo"))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "/usr/local/bin/quedo")
	assert.Contains(t, content, "run")
	if runtime.GOOS == "darwin" {
		assert.True(t, strings.Contains(content, "<plist"))
	} else {
		assert.True(t, strings.Contains(content, "[Desktop Entry]"))
	}

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestUninstallToleratesMissingFile(t *testing.T) {
	assert.NoError(t, Uninstall(filepath.Join(t.TempDir(), "absent")))
}
