// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package install writes the autostart entry names: a launchd
// plist on macOS, a .desktop file elsewhere, both embedding the current
// executable path and the `run` subcommand. Built fresh — speak-to-ai ships
// no installer — but follows its config/security permission conventions
// (0700 directories, 0600 files). The target path is written as given; it
// is not cleaned or validated here.
package install

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const launchdLabel = "io.quedo.daemon"

// Install writes the platform-appropriate autostart entry at
// autostartFile, creating its parent directory if needed. execPath is the
// currently-running executable's path (os.Executable(), resolved by the
// caller so this package stays free of process-introspection concerns).
func Install(autostartFile, execPath string) error {
	dir := filepath.Dir(autostartFile)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("install: create %s: %w", dir, err)
	}

	var content string
	if runtime.GOOS == "darwin" {
		content = launchdPlist(execPath)
	} else {
		content = desktopEntry(execPath)
	}

	if err := os.WriteFile(autostartFile, []byte(content), 0o600); err != nil {
		return fmt.Errorf("install: write %s: %w", autostartFile, err)
	}
	return nil
}

// Uninstall removes the autostart entry, tolerating its absence.
func Uninstall(autostartFile string) error {
	if err := os.Remove(autostartFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("install: remove %s: %w", autostartFile, err)
	}
	return nil
}

func launchdPlist(execPath string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
		<string>run</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<false/>
</dict>
</plist>
`, launchdLabel, execPath)
}

func desktopEntry(execPath string) string {
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=quedo
Comment=quedo transcription daemon
Exec=%s run
X-GNOME-Autostart-enabled=true
NoDisplay=true
`, execPath)
}
