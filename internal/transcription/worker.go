// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package transcription

import (
	"context"
	"time"

	"github.com/quedo-dev/quedo/internal/events"
	"github.com/quedo-dev/quedo/internal/history"
	"github.com/quedo-dev/quedo/internal/logger"
)

// job is one accepted Transcribe request; shutdown is requested by closing
// the worker's jobs channel rather than sending a distinct message.
type job struct {
	wavPath  string
	runID    string
	backend  string
	language string
}

// Worker serializes Engine calls onto one background goroutine so their
// latency and blocking I/O never touch the controller's loop. Grounded on
// speak-to-ai's internal/app worker goroutine (a single consumer reading a
// buffered channel, posting results back through a callback), generalized
// to this package's explicit message-passing contract.
type Worker struct {
	engine  Engine
	log     logger.Logger
	jobs    chan job
	done    chan struct{}
	history *history.Store

	// finished receives exactly one ControllerEvent per accepted job.
	finished chan<- events.ControllerEvent
}

// NewWorker constructs a Worker around engine (already initialized, so
// model-load failures surface before this call ever happens) and starts its
// goroutine. finished is the controller's event channel. store may be nil,
// in which case completed runs are not persisted: a nil store just means
// "no history configured" rather than a startup failure.
func NewWorker(engine Engine, log logger.Logger, finished chan<- events.ControllerEvent, store *history.Store) *Worker {
	w := &Worker{
		engine:   engine,
		log:      log,
		jobs:     make(chan job, 8),
		done:     make(chan struct{}),
		history:  store,
		finished: finished,
	}
	go w.run()
	return w
}

// Submit enqueues a Transcribe job. Never blocks the controller for more
// than the channel's buffer allows; the worker itself places no bound on
// how many jobs it will accept (the admission-control cap lives in
// internal/queue, upstream of this call).
func (w *Worker) Submit(wavPath, runID, backend, language string) {
	select {
	case w.jobs <- job{wavPath: wavPath, runID: runID, backend: backend, language: language}:
	case <-w.done:
		w.log.Warning("transcription: dropped job for %s, worker already shutting down", wavPath)
	}
}

// Shutdown closes the jobs channel, causing run to drain any buffered jobs
// and exit. Safe to call once.
func (w *Worker) Shutdown() {
	close(w.jobs)
	<-w.done
}

func (w *Worker) run() {
	defer close(w.done)
	defer w.engine.Close()

	for j := range w.jobs {
		outcome := w.process(j)
		w.finished <- events.TranscriptionFinished(j.wavPath, outcome)
	}
}

// process runs one job under a fixed 2-minute context; the configured
// transcription.timeout_seconds is not consulted here.
func (w *Worker) process(j job) events.TranscriptionOutcome {
	startedAt := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := w.engine.Transcribe(ctx, Request{WavPath: j.wavPath, RunID: j.runID, Language: j.language})
	if err != nil {
		w.log.Error("transcription: job for %s failed: %v", j.wavPath, err)
		return events.TranscriptionOutcome{Reason: err.Error()}
	}

	finishedAt := time.Now()
	result := &events.TranscriptResult{
		RunID:      j.runID,
		Backend:    j.backend,
		Transcript: report.Text,
		Language:   report.Language,
		Warnings:   report.Warnings,
		FinishedAt: finishedAt,
	}

	if w.history != nil {
		run := history.Run{
			ID:         j.runID,
			StartedAt:  startedAt,
			FinishedAt: finishedAt,
			Backend:    j.backend,
			Transcript: report.Text,
		}
		if err := w.history.Append(run); err != nil {
			w.log.Warning("transcription: failed to persist run %s: %v", j.runID, err)
		}
	}

	return events.TranscriptionOutcome{Result: result}
}
