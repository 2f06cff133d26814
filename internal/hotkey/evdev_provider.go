// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package hotkey

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	evdev "github.com/gvalkov/golang-evdev"
)

// EvdevProvider implements Provider by reading raw key events off
// /dev/input/event* devices. Grounded on speak-to-ai's
// hotkeys/evdev_provider.go EvdevKeyboardProvider (device discovery,
// per-device read goroutine, modifier-state tracking, key-code-to-name
// map), narrowed to one binding instead of a callback table.
type EvdevProvider struct {
	mu      sync.Mutex
	devices []*evdev.InputDevice
	stop    chan struct{}
}

// NewEvdevProvider creates an EvdevProvider.
func NewEvdevProvider() *EvdevProvider {
	return &EvdevProvider{}
}

// IsSupported reports whether at least one keyboard-capable input device is
// readable.
func (p *EvdevProvider) IsSupported() bool {
	devices, err := findKeyboardDevices()
	if err != nil || len(devices) == 0 {
		return false
	}
	for _, d := range devices {
		d.File.Close()
	}
	return true
}

// Start opens every keyboard device and invokes onPress each time binding's
// key is pressed while all of its modifiers are held.
func (p *EvdevProvider) Start(binding string, onPress func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	devices, err := findKeyboardDevices()
	if err != nil {
		return fmt.Errorf("find keyboard devices: %w", err)
	}
	if len(devices) == 0 {
		return fmt.Errorf("no keyboard devices found")
	}

	p.devices = devices
	p.stop = make(chan struct{})
	combo := parseBinding(binding)

	for _, dev := range devices {
		go watchDevice(dev, p.stop, combo, onPress)
	}
	return nil
}

// Stop closes the stop channel and every opened device handle.
func (p *EvdevProvider) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
	for _, d := range p.devices {
		d.File.Close()
	}
	p.devices = nil
}

func findKeyboardDevices() ([]*evdev.InputDevice, error) {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	var devices []*evdev.InputDevice
	for _, path := range paths {
		dev, err := evdev.Open(path)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(dev.Name), "keyboard") || hasKeyEvents(dev) {
			devices = append(devices, dev)
		} else {
			dev.File.Close()
		}
	}
	return devices, nil
}

func hasKeyEvents(dev *evdev.InputDevice) bool {
	for evType, codes := range dev.Capabilities {
		if evType.Type == 1 && len(codes) > 0 { // EV_KEY
			return true
		}
	}
	return false
}

const evKey = 1 // EV_KEY

func watchDevice(dev *evdev.InputDevice, stop <-chan struct{}, combo keyCombination, onPress func()) {
	modifierState := make(map[string]bool)
	for {
		select {
		case <-stop:
			return
		default:
		}

		events, err := dev.Read()
		if err != nil {
			continue
		}

		for _, ev := range events {
			if ev.Type != evKey {
				continue
			}
			handleKeyEvent(ev, modifierState, combo, onPress)
		}
	}
}

func handleKeyEvent(ev evdev.InputEvent, modifierState map[string]bool, combo keyCombination, onPress func()) {
	keyName := keyNameForCode(int(ev.Code))
	if keyName == "" {
		return
	}

	if isEvdevModifier(keyName) {
		modifierState[strings.ToLower(keyName)] = ev.Value == 1
	}

	if ev.Value != 1 || !strings.EqualFold(combo.key, keyName) {
		return
	}

	for _, mod := range combo.modifiers {
		if !modifierState[toEvdevModifier(mod)] {
			return
		}
	}
	go onPress()
}
