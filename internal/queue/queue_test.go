// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package queue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnqueueStartNextMarkFinished(t *testing.T) {
	q := New(1)

	require.NoError(t, q.Enqueue("a.wav"))
	require.ErrorIs(t, q.Enqueue("b.wav"), ErrQueueFull)

	path, ok := q.StartNext()
	require.True(t, ok)
	require.Equal(t, "a.wav", path)
	require.Equal(t, 1, q.InFlight())

	// Queue is busy now (in_flight == max); enqueue while busy still fails.
	require.ErrorIs(t, q.Enqueue("c.wav"), ErrQueueFull)

	_, ok = q.StartNext()
	require.False(t, ok, "no pending jobs left")

	q.MarkFinished()
	require.Equal(t, 0, q.InFlight())

	// Enqueuing after mark-finished succeeds again.
	require.NoError(t, q.Enqueue("d.wav"))
}

func TestMarkFinishedSaturatingAndSpurious(t *testing.T) {
	q := New(1)
	q.MarkFinished() // spurious call on an empty queue is a no-op
	require.Equal(t, 0, q.InFlight())

	require.NoError(t, q.Enqueue("a.wav"))
	_, _ = q.StartNext()

	for i := 0; i < 5; i++ {
		q.MarkFinished()
	}
	require.Equal(t, 0, q.InFlight())
}

func TestFIFOOrdering(t *testing.T) {
	q := New(2)
	require.NoError(t, q.Enqueue("a.wav"))
	require.NoError(t, q.Enqueue("b.wav"))

	first, ok := q.StartNext()
	require.True(t, ok)
	require.Equal(t, "a.wav", first)

	second, ok := q.StartNext()
	require.True(t, ok)
	require.Equal(t, "b.wav", second)
}

func TestInvariantNeverExceedsCap(t *testing.T) {
	q := New(1)
	for i := 0; i < 3; i++ {
		_ = q.Enqueue("x.wav")
		require.LessOrEqual(t, q.InFlight()+q.Pending(), 1)
		if path, ok := q.StartNext(); ok {
			require.Equal(t, "x.wav", path)
		}
		require.LessOrEqual(t, q.InFlight()+q.Pending(), 1)
		q.MarkFinished()
	}
}
