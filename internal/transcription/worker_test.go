// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package transcription

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quedo-dev/quedo/internal/events"
	"github.com/quedo-dev/quedo/internal/logger"
)

type noopTestLogger struct{}

func (noopTestLogger) Debug(string, ...interface{})   {}
func (noopTestLogger) Info(string, ...interface{})    {}
func (noopTestLogger) Warning(string, ...interface{}) {}
func (noopTestLogger) Error(string, ...interface{})   {}
func (n noopTestLogger) With(string) logger.Logger    { return n }

// mockEngine lets tests script per-call responses and observe call order
// without touching whisper.cpp, matching speak-to-ai's own mocks/mock_*.go
// convention of hand-rolled interface fakes rather than a generated mock.
type mockEngine struct {
	mu       sync.Mutex
	reports  map[string]Report
	errs     map[string]error
	calls    []Request
	closed   bool
	closeErr error
}

func (m *mockEngine) Transcribe(_ context.Context, req Request) (Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if err, ok := m.errs[req.WavPath]; ok {
		return Report{}, err
	}
	return m.reports[req.WavPath], nil
}

func (m *mockEngine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.closeErr
}

func (m *mockEngine) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func newMockEngine() *mockEngine {
	return &mockEngine{reports: map[string]Report{}, errs: map[string]error{}}
}

func recvEvent(t *testing.T, ch <-chan events.ControllerEvent) events.ControllerEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for transcription event")
		return events.ControllerEvent{}
	}
}

func TestWorker_SuccessfulJobEmitsResult(t *testing.T) {
	engine := newMockEngine()
	engine.reports["/tmp/a.wav"] = Report{Text: "hello world", Language: "en"}

	finished := make(chan events.ControllerEvent, 4)
	w := NewWorker(engine, noopTestLogger{}, finished, nil)

	w.Submit("/tmp/a.wav", "run-1", "whisper-cpp", "en")

	ev := recvEvent(t, finished)
	require.Equal(t, events.EventTranscriptionFinished, ev.Kind)
	require.Equal(t, "/tmp/a.wav", ev.WavPath)
	require.NotNil(t, ev.Outcome.Result)
	require.Empty(t, ev.Outcome.Reason)
	require.Equal(t, "hello world", ev.Outcome.Result.Transcript)
	require.Equal(t, "run-1", ev.Outcome.Result.RunID)
	require.Equal(t, "whisper-cpp", ev.Outcome.Result.Backend)

	w.Shutdown()
	require.True(t, engine.closed)
}

func TestWorker_FailedJobEmitsReason(t *testing.T) {
	engine := newMockEngine()
	engine.errs["/tmp/bad.wav"] = errors.New("boom")

	finished := make(chan events.ControllerEvent, 4)
	w := NewWorker(engine, noopTestLogger{}, finished, nil)

	w.Submit("/tmp/bad.wav", "run-2", "whisper-cpp", "")

	ev := recvEvent(t, finished)
	require.Nil(t, ev.Outcome.Result)
	require.Contains(t, ev.Outcome.Reason, "boom")

	w.Shutdown()
}

func TestWorker_ProcessesJobsInOrder(t *testing.T) {
	engine := newMockEngine()
	engine.reports["/tmp/1.wav"] = Report{Text: "one"}
	engine.reports["/tmp/2.wav"] = Report{Text: "two"}
	engine.reports["/tmp/3.wav"] = Report{Text: "three"}

	finished := make(chan events.ControllerEvent, 8)
	w := NewWorker(engine, noopTestLogger{}, finished, nil)

	w.Submit("/tmp/1.wav", "r1", "whisper-cpp", "")
	w.Submit("/tmp/2.wav", "r2", "whisper-cpp", "")
	w.Submit("/tmp/3.wav", "r3", "whisper-cpp", "")

	first := recvEvent(t, finished)
	second := recvEvent(t, finished)
	third := recvEvent(t, finished)

	require.Equal(t, "/tmp/1.wav", first.WavPath)
	require.Equal(t, "/tmp/2.wav", second.WavPath)
	require.Equal(t, "/tmp/3.wav", third.WavPath)

	w.Shutdown()
	require.Equal(t, 3, engine.callCount())
}

func TestWorker_ShutdownDrainsBufferedJobsThenExits(t *testing.T) {
	engine := newMockEngine()
	engine.reports["/tmp/x.wav"] = Report{Text: "x"}

	finished := make(chan events.ControllerEvent, 4)
	w := NewWorker(engine, noopTestLogger{}, finished, nil)

	w.Submit("/tmp/x.wav", "r1", "whisper-cpp", "")
	w.Shutdown()

	ev := recvEvent(t, finished)
	require.Equal(t, "/tmp/x.wav", ev.WavPath)
	require.True(t, engine.closed)
}
