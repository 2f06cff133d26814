// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package hotkey

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	portalDest = "org.freedesktop.portal.Desktop"
	portalPath = "/org/freedesktop/portal/desktop"
)

// DbusProvider implements Provider over the xdg-desktop-portal
// org.freedesktop.portal.GlobalShortcuts interface. Grounded on the
// teacher's hotkeys/dbus_provider.go DbusKeyboardProvider (CreateSession ->
// wait for Response signal -> BindShortcuts -> listen for Activated),
// narrowed to a single shortcut ID since this daemon only ever binds one
// action.
type DbusProvider struct {
	mu      sync.Mutex
	conn    *dbus.Conn
	session string
}

// NewDbusProvider creates a DbusProvider.
func NewDbusProvider() *DbusProvider {
	return &DbusProvider{}
}

// IsSupported reports whether the session bus and the GlobalShortcuts
// portal interface are both reachable.
func (p *DbusProvider) IsSupported() bool {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return false
	}
	defer conn.Close()

	obj := conn.Object(portalDest, dbus.ObjectPath(portalPath))
	call := obj.Call("org.freedesktop.DBus.Introspectable.Introspect", 0)
	if call.Err != nil {
		return false
	}

	var introspectData string
	if err := call.Store(&introspectData); err != nil {
		return false
	}
	return strings.Contains(introspectData, "GlobalShortcuts")
}

// Start creates a GlobalShortcuts session, binds binding as its one
// shortcut, and invokes onPress each time the portal reports it activated.
func (p *DbusProvider) Start(binding string, onPress func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("hotkey: connect session bus: %w", err)
	}
	p.conn = conn

	if err := p.registerShortcut(binding); err != nil {
		conn.Close()
		p.conn = nil
		return fmt.Errorf("hotkey: register shortcut: %w", err)
	}

	go p.listen(onPress)
	return nil
}

func (p *DbusProvider) registerShortcut(binding string) error {
	obj := p.conn.Object(portalDest, dbus.ObjectPath(portalPath))

	sessionOptions := map[string]dbus.Variant{
		"handle_token":         dbus.MakeVariant("quedo_session"),
		"session_handle_token": dbus.MakeVariant("quedo_session_handle"),
	}
	call := obj.Call("org.freedesktop.portal.GlobalShortcuts.CreateSession", 0, sessionOptions)
	if call.Err != nil {
		return call.Err
	}
	if len(call.Body) == 0 {
		return fmt.Errorf("no request handle returned from CreateSession")
	}
	requestHandle, ok := call.Body[0].(dbus.ObjectPath)
	if !ok {
		return fmt.Errorf("invalid request handle type from CreateSession")
	}

	sessionHandle, err := p.waitForSessionResponse(requestHandle)
	if err != nil {
		return err
	}
	p.session = sessionHandle

	shortcuts := []struct {
		ID   string
		Data map[string]dbus.Variant
	}{{
		ID:   "toggle",
		Data: map[string]dbus.Variant{"description": dbus.MakeVariant(fmt.Sprintf("quedo toggle (%s)", binding))},
	}}

	call = obj.Call("org.freedesktop.portal.GlobalShortcuts.BindShortcuts", 0,
		dbus.ObjectPath(sessionHandle), shortcuts, "", map[string]dbus.Variant{})
	return call.Err
}

func (p *DbusProvider) waitForSessionResponse(requestHandle dbus.ObjectPath) (string, error) {
	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", requestHandle)
	if err := p.conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return "", fmt.Errorf("add match rule: %w", err)
	}

	c := make(chan *dbus.Signal, 1)
	p.conn.Signal(c)

	select {
	case sig := <-c:
		if sig.Name != "org.freedesktop.portal.Request.Response" || sig.Path != requestHandle || len(sig.Body) < 2 {
			return "", fmt.Errorf("unexpected signal received: %s", sig.Name)
		}
		code, ok := sig.Body[0].(uint32)
		if !ok || code != 0 {
			return "", fmt.Errorf("CreateSession request failed with code %v", code)
		}
		results, ok := sig.Body[1].(map[string]dbus.Variant)
		if !ok {
			return "", fmt.Errorf("invalid results format in Response signal")
		}
		handle, ok := results["session_handle"].Value().(string)
		if !ok {
			return "", fmt.Errorf("session_handle missing from Response results")
		}
		return handle, nil
	case <-time.After(5 * time.Second):
		return "", fmt.Errorf("timeout waiting for CreateSession response")
	}
}

func (p *DbusProvider) listen(onPress func()) {
	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.GlobalShortcuts',member='Activated',path='%s'", p.session)
	p.conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule)

	c := make(chan *dbus.Signal, 10)
	p.conn.Signal(c)

	for sig := range c {
		if sig.Name != "org.freedesktop.portal.GlobalShortcuts.Activated" || len(sig.Body) < 2 {
			continue
		}
		sessionHandle, ok := sig.Body[0].(dbus.ObjectPath)
		if !ok || string(sessionHandle) != p.session {
			continue
		}
		if shortcutID, ok := sig.Body[1].(string); ok && shortcutID == "toggle" {
			onPress()
		}
	}
}

// Stop closes the session bus connection, which tears down the signal
// listener goroutine along with it.
func (p *DbusProvider) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}
