// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package watchdog

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestArmingTimeoutFlipsWithoutFrames(t *testing.T) {
	start := time.Now()
	w := New(Config{ArmingTimeout: 40 * time.Millisecond, StallTimeout: 500 * time.Millisecond}, start)

	snap := w.Snapshot(start)
	require.True(t, snap.Armed)
	require.False(t, snap.FirstFrameSeen)

	snap = w.Snapshot(start.Add(60 * time.Millisecond))
	require.False(t, snap.Armed, "armed must flip false once arming_timeout has elapsed with no frames")
	require.False(t, snap.FirstFrameSeen)
}

func TestStallDetection(t *testing.T) {
	start := time.Now()
	w := New(Config{ArmingTimeout: 500 * time.Millisecond, StallTimeout: 50 * time.Millisecond}, start)

	w.MarkFrame(start.Add(10 * time.Millisecond))

	first := w.Snapshot(start.Add(20 * time.Millisecond))
	require.True(t, first.Armed)
	require.True(t, first.FirstFrameSeen)
	require.False(t, first.Stalled)

	second := w.Snapshot(start.Add(140 * time.Millisecond))
	require.True(t, second.Stalled)
	require.True(t, second.FirstFrameSeen)
}

func TestFirstFrameSeenIsLatched(t *testing.T) {
	start := time.Now()
	w := New(Config{ArmingTimeout: time.Second, StallTimeout: time.Second}, start)

	w.MarkFrame(start.Add(time.Millisecond))
	require.True(t, w.Snapshot(start.Add(2*time.Millisecond)).FirstFrameSeen)

	// A long gap afterward must not reset first_frame_seen back to false,
	// only raise Stalled.
	later := w.Snapshot(start.Add(10 * time.Second))
	require.True(t, later.FirstFrameSeen)
}

func TestStalledImpliesFirstFrameSeen(t *testing.T) {
	start := time.Now()
	w := New(Config{ArmingTimeout: time.Millisecond, StallTimeout: time.Millisecond}, start)

	// No frame ever arrived: stalled must never be true even though the
	// arming window has long since passed.
	snap := w.Snapshot(start.Add(time.Second))
	require.False(t, snap.Stalled)
	require.False(t, snap.FirstFrameSeen)
}

func TestFailSafeOnPoison(t *testing.T) {
	start := time.Now()
	w := New(Config{ArmingTimeout: time.Second, StallTimeout: time.Second}, start)

	w.mu.Lock()
	w.poisoned = true
	w.mu.Unlock()

	snap := w.Snapshot(start)
	require.Equal(t, failSafe, snap)
}

func TestCallbackWatchdogIgnoresEmptyBuffer(t *testing.T) {
	start := time.Now()
	c := NewCallbackWatchdog(Config{ArmingTimeout: 10 * time.Millisecond, StallTimeout: time.Second}, start)

	c.OnBuffer(nil, start.Add(time.Millisecond))
	snap := c.Snapshot(start.Add(20 * time.Millisecond))
	require.False(t, snap.FirstFrameSeen)
	require.False(t, snap.Armed)

	c.OnBuffer([]float32{0.1, 0.2}, start.Add(21*time.Millisecond))
	snap = c.Snapshot(start.Add(22 * time.Millisecond))
	require.True(t, snap.FirstFrameSeen)
}

func TestFileGrowthWatchdogDetectsGrowthPastHeader(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/capture.wav"

	start := time.Now()
	f := NewFileGrowthWatchdog(Config{ArmingTimeout: time.Second, StallTimeout: time.Second}, start, path)

	// No file yet: poll is a no-op.
	f.Poll(start)
	require.False(t, f.Snapshot(start).FirstFrameSeen)

	require.NoError(t, os.WriteFile(path, make([]byte, 44), 0o600)) // header only, no frame
	f.Poll(start.Add(time.Millisecond))
	require.False(t, f.Snapshot(start.Add(time.Millisecond)).FirstFrameSeen)

	require.NoError(t, os.WriteFile(path, make([]byte, 44+64), 0o600)) // growth past header
	f.Poll(start.Add(2 * time.Millisecond))
	require.True(t, f.Snapshot(start.Add(2*time.Millisecond)).FirstFrameSeen)
}
