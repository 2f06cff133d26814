// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package lockfile implements single-instance protection for `quedo run`:
// an flock(2)'d PID file under the state directory. Grounded on the
// teacher's internal/utils.LockFile (TryLock/CheckExistingInstance/Unlock),
// trimmed to Linux (the only platform this daemon's subprocess recorder and
// evdev hotkey fallback target) and pointed at paths.AppPaths.StateDir
// instead of speak-to-ai's config-dir-or-XDG_RUNTIME_DIR fallback chain,
// since AppPaths already resolves one XDG-backed state directory.
package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

const fileName = "quedo.lock"

// LockFile is a file-based, PID-tagged exclusive lock.
type LockFile struct {
	path string
	file *os.File
}

// New creates a LockFile at <stateDir>/quedo.lock.
func New(stateDir string) *LockFile {
	return &LockFile{path: filepath.Join(stateDir, fileName)}
}

// Path returns the lock file's path.
func (lf *LockFile) Path() string { return lf.path }

// CheckExistingInstance reports whether another quedo process already holds
// (or appears to hold) the lock, without itself taking the lock.
func (lf *LockFile) CheckExistingInstance() (bool, int, error) {
	file, err := os.Open(lf.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("lockfile: open %s: %w", lf.path, err)
	}
	defer file.Close()

	data := make([]byte, 32)
	n, err := file.Read(data)
	if err != nil || n == 0 {
		return false, 0, nil
	}

	pid, err := strconv.Atoi(string(data[:n]))
	if err != nil {
		return false, 0, nil
	}
	if isQuedoProcess(pid) {
		return true, pid, nil
	}
	return false, pid, nil
}

// TryLock acquires an exclusive, non-blocking flock on the lock file and
// writes the current PID into it.
func (lf *LockFile) TryLock() error {
	if err := os.MkdirAll(filepath.Dir(lf.path), 0o700); err != nil {
		return fmt.Errorf("lockfile: create directory: %w", err)
	}

	file, err := os.OpenFile(lf.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("lockfile: create %s: %w", lf.path, err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		file.Close()
		if err == syscall.EWOULDBLOCK {
			return fmt.Errorf("lockfile: another instance of quedo is already running")
		}
		return fmt.Errorf("lockfile: acquire lock: %w", err)
	}

	if _, err := file.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		file.Close()
		return fmt.Errorf("lockfile: write pid: %w", err)
	}

	lf.file = file
	return nil
}

// Unlock releases the flock, closes, and removes the lock file.
func (lf *LockFile) Unlock() error {
	if lf.file == nil {
		return nil
	}
	_ = syscall.Flock(int(lf.file.Fd()), syscall.LOCK_UN)
	if err := lf.file.Close(); err != nil {
		return fmt.Errorf("lockfile: close: %w", err)
	}
	lf.file = nil

	if err := os.Remove(lf.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("lockfile: remove: %w", err)
	}
	return nil
}

// isQuedoProcess reports whether pid exists and its cmdline names quedo,
// matching speak-to-ai's isOurProcess check against /proc/<pid>/cmdline.
func isQuedoProcess(pid int) bool {
	if pid <= 0 || pid > 4194304 {
		return false
	}
	if err := syscall.Kill(pid, 0); err != nil {
		return false
	}

	cmdline, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err != nil {
		return false
	}
	normalized := strings.ReplaceAll(string(cmdline), "\x00", " ")
	return strings.Contains(strings.TrimSpace(normalized), "quedo")
}
