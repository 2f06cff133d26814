// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.sqlite3")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(Run{ID: "run-1", StartedAt: now, FinishedAt: now.Add(2 * time.Second), Backend: "whisper_cpp", Transcript: "hello"}))
	require.NoError(t, store.Append(Run{ID: "run-2", StartedAt: now.Add(time.Minute), FinishedAt: now.Add(time.Minute + time.Second), Backend: "whisper_cpp", Transcript: "world"}))

	assert.Equal(t, 2, store.Count())

	recent := store.Recent(10)
	require.Len(t, recent, 2)
	assert.Equal(t, "run-2", recent[0].ID)
	assert.Equal(t, "run-1", recent[1].ID)
}

func TestRecentToleratesMissingRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.sqlite3")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	assert.Empty(t, store.Recent(5))
	assert.Equal(t, 0, store.Count())
}
