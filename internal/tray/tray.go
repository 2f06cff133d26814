// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package tray implements the system tray menu: a toggle item reflecting
// ControllerState and a quit item. Grounded on speak-to-ai's
// internal/tray.TrayManager (systray.Run/onReady/menu-item-click-loop
// shape), trimmed to the toggle/status/quit surface this daemon actually
// needs — speak-to-ai's elaborate settings submenus (recorder/language/
// output/hotkey rebinding, all driven by a *config.Config field) have
// nothing to adapt toward here, since configuration in this repo is a
// startup-time TOML file, not a live-editable tray menu.
package tray

import (
	"context"
	"sync"

	"github.com/getlantern/systray"

	"github.com/quedo-dev/quedo/internal/events"
	"github.com/quedo-dev/quedo/internal/logger"
)

// Manager owns the tray icon and its two menu items.
type Manager struct {
	iconIdle []byte
	iconBusy []byte
	log      logger.Logger

	onToggle func()
	onQuit   func()

	toggleItem *systray.MenuItem
	quitItem   *systray.MenuItem

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Manager. onToggle is invoked on the toggle item's click;
// onQuit is invoked once, either from the quit item or from systray's own
// exit callback (e.g. OS session logout).
func New(iconIdle, iconBusy []byte, log logger.Logger, onToggle, onQuit func()) *Manager {
	return &Manager{iconIdle: iconIdle, iconBusy: iconBusy, log: log, onToggle: onToggle, onQuit: onQuit}
}

// Start launches the tray on its own goroutine. systray.Run blocks until
// Stop (or the OS) terminates it.
func (m *Manager) Start() {
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		systray.Run(m.onReady, m.onExit)
	}()
}

func (m *Manager) onReady() {
	systray.SetIcon(m.iconIdle)
	systray.SetTitle("quedo")
	systray.SetTooltip("quedo dictation")

	m.toggleItem = systray.AddMenuItem("Start Recording", "Start/stop recording")
	systray.AddSeparator()
	m.quitItem = systray.AddMenuItem("Quit", "Quit quedo")

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.handleClicks()
	}()
}

func (m *Manager) onExit() {
	if m.onQuit != nil {
		m.onQuit()
	}
}

func (m *Manager) handleClicks() {
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-m.toggleItem.ClickedCh:
			m.log.Info("tray: toggle clicked")
			if m.onToggle != nil {
				m.onToggle()
			}
		case <-m.quitItem.ClickedCh:
			m.log.Info("tray: quit clicked")
			if m.cancel != nil {
				m.cancel()
			}
			systray.Quit()
			return
		}
	}
}

// SetState updates the tray icon and toggle label to reflect s. Safe to call
// before Start's onReady has run (a no-op guarded by toggleItem being nil).
func (m *Manager) SetState(s events.ControllerState) {
	if m.toggleItem == nil {
		return
	}

	switch s.Mode {
	case events.StateRecording:
		systray.SetIcon(m.iconBusy)
		m.toggleItem.SetTitle("Stop Recording")
	case events.StateProcessing:
		systray.SetIcon(m.iconBusy)
		m.toggleItem.SetTitle("Processing…")
		m.toggleItem.Disable()
	case events.StateUnavailable:
		systray.SetIcon(m.iconIdle)
		m.toggleItem.SetTitle("Unavailable: " + s.Reason)
		m.toggleItem.Disable()
	case events.StateDegraded:
		systray.SetIcon(m.iconIdle)
		m.toggleItem.SetTitle("Degraded: " + s.Reason)
		m.toggleItem.Enable()
	default:
		systray.SetIcon(m.iconIdle)
		m.toggleItem.SetTitle("Start Recording")
		m.toggleItem.Enable()
	}
}

// Stop tears down the tray and waits for its goroutines to exit.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	systray.Quit()
	m.wg.Wait()
}
