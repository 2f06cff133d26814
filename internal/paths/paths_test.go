// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reloadXDG re-reads XDG_* environment variables into the xdg package's
// cached base-directory values; xdg.Reload exists precisely so tests can
// override the environment per-case rather than relying on process-start
// values.
func reloadXDG(t *testing.T) {
	t.Helper()
	require.NoError(t, xdg.Reload())
}

func TestResolveCreatesDirectoriesUnderXDG(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	reloadXDG(t)

	p, err := Resolve()
	require.NoError(t, err)

	for _, dir := range []string{p.ConfigDir, p.DataDir, p.CacheDir, p.LogsDir, p.StateDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	assert.True(t, strings.HasPrefix(p.LogsDir, p.CacheDir))
	assert.True(t, strings.HasPrefix(p.StateDir, p.CacheDir))
	assert.Equal(t, p.StateDir, os.Getenv("QUEDO_STATE_DIR"))
}

func TestCaptureDirIsUnderStateDir(t *testing.T) {
	p := AppPaths{StateDir: "/tmp/quedo/state"}
	assert.Equal(t, "/tmp/quedo/state/captures", p.CaptureDir())
}
