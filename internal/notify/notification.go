// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package notify sends desktop notifications for the events a user actually
// cares about (recording started/stopped, transcription complete, errors).
// Grounded on speak-to-ai's internal/notify.NotificationManager for its
// method shape (NotifyStartRecording/NotifyStopRecording/
// NotifyTranscriptionComplete/NotifyError/ShowNotification/IsAvailable), but
// the transport is swapped: speak-to-ai shells out to notify-send
// (internal/notify/notification.go's sendNotification), whereas this package
// calls org.freedesktop.Notifications.Notify directly over the D-Bus session
// bus already wired in for the hotkey portal (internal/hotkey/dbus_provider.go),
// avoiding a subprocess spawn per notification.
package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest = "org.freedesktop.Notifications"
	notifyPath = "/org/freedesktop/Notifications"
)

// Manager sends desktop notifications over D-Bus.
type Manager struct {
	appName        string
	enableWorkflow bool
}

// NewManager creates a Manager. enableWorkflow gates the routine
// start/stop/transcription-complete notifications (matching speak-to-ai's
// config.Notifications.EnableWorkflowNotifications toggle); error
// notifications are always shown regardless of that flag, as in the
// teacher's NotifyError.
func NewManager(appName string, enableWorkflow bool) *Manager {
	return &Manager{appName: appName, enableWorkflow: enableWorkflow}
}

// NotifyStartRecording shows a notification when recording starts.
func (m *Manager) NotifyStartRecording() error {
	if !m.enableWorkflow {
		return nil
	}
	return m.send("Recording started", "Listening for speech…", "notification-microphone-sensitivity-high")
}

// NotifyStopRecording shows a notification when recording stops.
func (m *Manager) NotifyStopRecording() error {
	if !m.enableWorkflow {
		return nil
	}
	return m.send("Recording stopped", "Processing audio…", "notification-microphone-sensitivity-muted")
}

// NotifyTranscriptionComplete shows a notification once a transcript is
// ready and has been placed in the clipboard.
func (m *Manager) NotifyTranscriptionComplete() error {
	if !m.enableWorkflow {
		return nil
	}
	return m.send("Transcription complete", "Transcript copied to clipboard", "edit-copy")
}

// NotifyError shows an error notification regardless of the workflow toggle.
func (m *Manager) NotifyError(errMsg string) error {
	return m.send("quedo error", errMsg, "dialog-error")
}

// ShowNotification shows an arbitrary notification.
func (m *Manager) ShowNotification(summary, body string) error {
	return m.send(summary, body, "dialog-information")
}

// send issues the Notify D-Bus call. A fresh session-bus connection is
// opened and closed per call; notifications are infrequent enough (one per
// controller-state transition) that holding a persistent connection is not
// worth the added lifecycle management.
func (m *Manager) send(summary, body, icon string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("notify: connect session bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object(notifyDest, dbus.ObjectPath(notifyPath))
	call := obj.Call(notifyDest+".Notify", 0,
		m.appName,          // app_name
		uint32(0),          // replaces_id
		icon,               // app_icon
		summary,            // summary
		body,               // body
		[]string{},         // actions
		map[string]dbus.Variant{}, // hints
		int32(5000),        // expire_timeout (ms)
	)
	if call.Err != nil {
		return fmt.Errorf("notify: send notification: %w", call.Err)
	}
	return nil
}

// IsAvailable reports whether the D-Bus notification service can be reached.
func (m *Manager) IsAvailable() bool {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return false
	}
	defer conn.Close()
	return true
}
