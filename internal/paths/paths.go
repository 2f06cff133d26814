// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package paths resolves and prepares the directories and files the daemon
// reads and writes, producing the AppPaths record.
// Grounded on kdeps-kdeps's pkg/cfg.GetKdepsPath, which resolves an
// application directory against github.com/adrg/xdg's base-directory
// constants; generalized here from a single directory into the full set of
// XDG locations (config/data/cache/logs/state) AppPaths requires, since
// this daemon does not offer kdeps's project/user/xdg path mode switch —
// XDG is the only mode used.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

// appName names the subdirectory created under each XDG base directory.
const appName = "quedo"

// AppPaths is the immutable set of absolute paths the daemon uses, built
// once by Resolve and shared read-only thereafter.
type AppPaths struct {
	ConfigDir     string
	DataDir       string
	CacheDir      string
	LogsDir       string
	StateDir      string
	ConfigFile    string
	HistoryDB     string
	AutostartFile string
}

// Resolve builds an AppPaths from github.com/adrg/xdg's base directories,
// creates every directory it names, and exports QUEDO_STATE_DIR into the
// process environment so child processes (the subprocess recorder) and any
// external tooling can find the state directory without re-deriving it.
// logs_dir and state_dir are both rooted under cache_dir, so the
// logs-within-cache and state-within-cache invariant holds by construction
// rather than needing a post-hoc check.
func Resolve() (AppPaths, error) {
	configDir := filepath.Join(xdg.ConfigHome, appName)
	dataDir := filepath.Join(xdg.DataHome, appName)
	cacheDir := filepath.Join(xdg.CacheHome, appName)
	logsDir := filepath.Join(cacheDir, "logs")
	stateDir := filepath.Join(cacheDir, "state")

	p := AppPaths{
		ConfigDir:     configDir,
		DataDir:       dataDir,
		CacheDir:      cacheDir,
		LogsDir:       logsDir,
		StateDir:      stateDir,
		ConfigFile:    filepath.Join(configDir, "config.toml"),
		HistoryDB:     filepath.Join(dataDir, "history.sqlite3"),
		AutostartFile: autostartFile(configDir),
	}

	for _, dir := range []string{p.ConfigDir, p.DataDir, p.CacheDir, p.LogsDir, p.StateDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return AppPaths{}, fmt.Errorf("paths: create directory %s: %w", dir, err)
		}
	}

	if err := os.Setenv("QUEDO_STATE_DIR", p.StateDir); err != nil {
		return AppPaths{}, fmt.Errorf("paths: export QUEDO_STATE_DIR: %w", err)
	}

	return p, nil
}

// autostartFile returns the platform-appropriate autostart entry path
// names: a launchd plist under the user's LaunchAgents directory
// on macOS, a .desktop file under configDir/autostart elsewhere.
func autostartFile(configDir string) string {
	if runtime.GOOS == "darwin" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = os.Getenv("HOME")
		}
		return filepath.Join(home, "Library", "LaunchAgents", "io.quedo.daemon.plist")
	}
	return filepath.Join(configDir, "autostart", "quedo-daemon.desktop")
}

// CaptureDir is the directory MicrophoneCapture writes capture-<uuid>.wav
// files to; kept under the state directory since captures are transient
// working state, not user data. Whether a capture outlives one run is an
// audio-retention setting, not a property of the directory itself.
func (p AppPaths) CaptureDir() string {
	return filepath.Join(p.StateDir, "captures")
}
