// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package notify

import "testing"

func TestNewManager(t *testing.T) {
	nm := NewManager("TestApp", true)
	if nm == nil {
		t.Fatal("NewManager returned nil")
	}
	if nm.appName != "TestApp" {
		t.Errorf("expected appName %q, got %q", "TestApp", nm.appName)
	}
}

func TestManager_WorkflowNotificationsRespectToggle(t *testing.T) {
	nm := NewManager("TestApp", false)

	// With the workflow toggle off, these must be no-ops regardless of
	// whether a session bus is reachable in this environment.
	if err := nm.NotifyStartRecording(); err != nil {
		t.Errorf("expected nil error with workflow notifications disabled, got %v", err)
	}
	if err := nm.NotifyStopRecording(); err != nil {
		t.Errorf("expected nil error with workflow notifications disabled, got %v", err)
	}
	if err := nm.NotifyTranscriptionComplete(); err != nil {
		t.Errorf("expected nil error with workflow notifications disabled, got %v", err)
	}
}

func TestManager_NotifyErrorIgnoresWorkflowToggle(t *testing.T) {
	nm := NewManager("TestApp", false)

	if !nm.IsAvailable() {
		t.Skip("no D-Bus session bus available, skipping live notification test")
	}

	err := nm.NotifyError("test error message")
	// A reachable session bus does not guarantee a running notification
	// daemon (e.g. in CI); log rather than fail on transport errors.
	if err != nil {
		t.Logf("NotifyError failed (expected without a notification daemon): %v", err)
	}
}

func TestManager_ShowNotification(t *testing.T) {
	nm := NewManager("TestApp", true)

	if !nm.IsAvailable() {
		t.Skip("no D-Bus session bus available, skipping live notification test")
	}

	if err := nm.ShowNotification("Test Summary", "Test Body"); err != nil {
		t.Logf("ShowNotification failed (expected without a notification daemon): %v", err)
	}
}

func TestManager_AppNameVariants(t *testing.T) {
	tests := []struct {
		name    string
		appName string
	}{
		{"normal", "MyApp"},
		{"with spaces", "My App Name"},
		{"special chars", "My-App_v1.0"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nm := NewManager(tt.appName, true)
			if nm.appName != tt.appName {
				t.Errorf("expected appName %q, got %q", tt.appName, nm.appName)
			}
		})
	}
}
