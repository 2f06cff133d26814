// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	supported bool
	startErr  error
	started   bool
	stopped   bool
}

func (f *fakeProvider) IsSupported() bool { return f.supported }
func (f *fakeProvider) Start(binding string, onPress func()) error {
	f.started = true
	return f.startErr
}
func (f *fakeProvider) Stop() { f.stopped = true }

func TestNewSelectsFirstSupportedProvider(t *testing.T) {
	unsupported := &fakeProvider{supported: false}
	supported := &fakeProvider{supported: true}

	m := New("ctrl+alt+space", func() {}, unsupported, supported)
	require.True(t, m.Available())

	require.NoError(t, m.Start())
	assert.False(t, unsupported.started)
	assert.True(t, supported.started)

	m.Stop()
	assert.True(t, supported.stopped)
}

func TestNewWithNoSupportedProviderIsUnavailable(t *testing.T) {
	m := New("ctrl+alt+space", func() {}, &fakeProvider{supported: false})
	assert.False(t, m.Available())
	assert.Error(t, m.Start())
}

func TestParseBindingSplitsModifiersAndKey(t *testing.T) {
	combo := parseBinding("Ctrl+Alt+Space")
	assert.Equal(t, []string{"ctrl", "alt"}, combo.modifiers)
	assert.Equal(t, "Space", combo.key)
}

func TestParseBindingSingleKey(t *testing.T) {
	combo := parseBinding("F9")
	assert.Empty(t, combo.modifiers)
	assert.Equal(t, "F9", combo.key)
}
