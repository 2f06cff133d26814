// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package hotkey implements the global toggle hotkey as an external
// collaborator of the controller: it produces ControllerEvents (Toggle)
// and otherwise has no say over controller state. Grounded on speak-to-ai's
// hotkeys package (Provider interface + dbus/evdev concrete providers +
// Manager with try-then-fallback selection), narrowed from speak-to-ai's
// multi-action hotkey table (start/stop/switch-model/toggle-VAD/etc.) down
// to the single toggle binding AppConfig.hotkey.binding names, since this
// daemon's single ControllerEvent::Toggle already carries both start and
// stop semantics.
package hotkey

import "fmt"

// Provider is the narrow capability each concrete hotkey backend
// implements; mirrors speak-to-ai's KeyboardEventProvider.
type Provider interface {
	IsSupported() bool
	Start(binding string, onPress func()) error
	Stop()
}

// Manager owns exactly one active Provider, selected at construction by
// trying each candidate's IsSupported in order (teacher's
// selectProviderForEnvironment + startFallbackAfterRegistration, collapsed
// into one up-front selection since this daemon has only one hotkey to
// register, not a whole table to renegotiate on failure).
type Manager struct {
	binding  string
	provider Provider
	onPress  func()
}

// New selects the first supported provider from candidates, in order. A nil
// Manager.provider (no candidate supported) is valid: Start then returns an
// error rather than panicking. cmd/quedo checks Available first and logs a
// warning when no provider is supported.
func New(binding string, onPress func(), candidates ...Provider) *Manager {
	m := &Manager{binding: binding, onPress: onPress}
	for _, c := range candidates {
		if c != nil && c.IsSupported() {
			m.provider = c
			break
		}
	}
	return m
}

// Available reports whether a provider was selected.
func (m *Manager) Available() bool {
	return m.provider != nil
}

// Start begins listening for the configured binding.
func (m *Manager) Start() error {
	if m.provider == nil {
		return fmt.Errorf("hotkey: no supported provider available")
	}
	return m.provider.Start(m.binding, m.onPress)
}

// Stop stops the active provider, if any.
func (m *Manager) Stop() {
	if m.provider != nil {
		m.provider.Stop()
	}
}
