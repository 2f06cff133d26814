// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package hotkey

import "strings"

// keyCombination is a parsed "ctrl+alt+space"-style binding string.
type keyCombination struct {
	modifiers []string
	key       string
}

// parseBinding splits a "+"-joined binding into its modifiers and final
// key, treating the last part as the key. Grounded on speak-to-ai's
// hotkeys/utils.ParseHotkey.
func parseBinding(binding string) keyCombination {
	parts := strings.Split(binding, "+")
	if len(parts) == 1 {
		return keyCombination{key: strings.TrimSpace(parts[0])}
	}

	combo := keyCombination{key: strings.TrimSpace(parts[len(parts)-1])}
	for _, p := range parts[:len(parts)-1] {
		combo.modifiers = append(combo.modifiers, strings.ToLower(strings.TrimSpace(p)))
	}
	return combo
}

// evdevModifierNames maps the general modifier vocabulary accepted in a
// binding string to the evdev key names Start's modifier-state map tracks.
var evdevModifierNames = map[string]string{
	"ctrl":  "leftctrl",
	"alt":   "leftalt",
	"shift": "leftshift",
	"super": "leftmeta",
	"meta":  "leftmeta",
	"win":   "leftmeta",
	"altgr": "rightalt",
}

func toEvdevModifier(modifier string) string {
	if name, ok := evdevModifierNames[modifier]; ok {
		return name
	}
	return modifier
}

func isEvdevModifier(keyName string) bool {
	switch strings.ToLower(keyName) {
	case "leftctrl", "rightctrl", "leftalt", "rightalt", "leftshift", "rightshift", "leftmeta", "rightmeta":
		return true
	default:
		return false
	}
}
