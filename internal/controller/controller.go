// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package controller implements the daemon's central state machine: it owns
// the active recording, the single-flight queue, and the transcription
// worker handle, consumes ControllerEvent, and emits ControllerOutput in
// order. Grounded on speak-to-ai's internal/app orchestrator (App holds a
// recorder, a whisper engine, a notify manager, and wires handler methods
// directly to hotkey/tray callbacks) but restructured from direct handler
// calls into an explicit event-loop + transition-table shape, since the
// teacher has no queue, no watchdog-driven degraded state, and no single
// state-machine type to match against. The transition table itself has no
// teacher equivalent; it is built directly from the daemon's Idle/Recording/
// Processing/Degraded/Unavailable state contract.
package controller

import (
	"fmt"
	"os"
	"time"

	"github.com/quedo-dev/quedo/internal/capture"
	"github.com/quedo-dev/quedo/internal/clipboard"
	"github.com/quedo-dev/quedo/internal/doctor"
	"github.com/quedo-dev/quedo/internal/events"
	"github.com/quedo-dev/quedo/internal/logger"
	"github.com/quedo-dev/quedo/internal/queue"
	"github.com/quedo-dev/quedo/internal/watchdog"
)

// OutputMode mirrors AppConfig.output.mode; kept here rather
// than importing internal/config to avoid a dependency cycle (config never
// needs the controller).
type OutputMode string

const (
	OutputClipboardOnly OutputMode = "clipboard_only"
	OutputDisabled      OutputMode = "disabled"
)

// AudioConfig is the subset of AppConfig.audio the controller's start path
// and tick checks need.
type AudioConfig struct {
	MaxRecordingSeconds int
	RetainAudio         bool
	ArmingTimeout       time.Duration
	StallTimeout        time.Duration
}

// Config bundles the controller's read-only, startup-immutable inputs.
type Config struct {
	Audio      AudioConfig
	OutputMode OutputMode
	Backend    string
	Language   string
	CaptureDir string
	DBPath     string
}

// DoctorFunc runs the preflight report; injected so the controller package
// never imports a concrete probe list beyond the doctor.Report shape.
type DoctorFunc func() doctor.Report

// Recorder is the narrow capability the controller needs from
// capture.MicrophoneCapture. Declared here (rather than depending on the
// concrete factory type) so tests can substitute a fake recorder without
// spawning a real arecord/ffmpeg/PulseAudio stream; *capture.MicrophoneCapture
// satisfies it structurally.
type Recorder interface {
	StartRecording(outputDir string, wdCfg watchdog.Config) (capture.ActiveRecording, error)
}

// WorkerHandle is the narrow capability the controller needs from
// transcription.Worker; declared here for the same fakeability reason as
// Recorder. *transcription.Worker satisfies it structurally.
type WorkerHandle interface {
	Submit(wavPath, runID, backend, language string)
	Shutdown()
}

// Controller is the single owner of ControllerState, the queue, and any
// live ActiveRecording. It must run on one goroutine (Run's caller);
// nothing else touches its fields.
type Controller struct {
	cfg Config
	log logger.Logger

	capture   Recorder
	queue     *queue.SingleFlightQueue
	worker    WorkerHandle
	clipboard clipboard.Writer
	runDoctor DoctorFunc

	events  <-chan events.ControllerEvent
	outputs chan<- events.ControllerOutput

	state     events.ControllerState
	recording capture.ActiveRecording
	startedAt time.Time

	shuttingDown bool
}

// New constructs a Controller. initial is the starting state: Idle, or
// Unavailable(reason) when a preflight dependency is missing.
func New(
	cfg Config,
	log logger.Logger,
	mic Recorder,
	q *queue.SingleFlightQueue,
	worker WorkerHandle,
	writer clipboard.Writer,
	runDoctor DoctorFunc,
	in <-chan events.ControllerEvent,
	out chan<- events.ControllerOutput,
	initial events.ControllerState,
) *Controller {
	return &Controller{
		cfg:       cfg,
		log:       log,
		capture:   mic,
		queue:     q,
		worker:    worker,
		clipboard: writer,
		runDoctor: runDoctor,
		events:    in,
		outputs:   out,
		state:     initial,
	}
}

// Run is the controller's event loop. It blocks until an EventShutdown (or
// event-channel closure) is processed, then returns after emitting the
// terminal Stopped output. The controller blocks on its event channel and
// never runs engine work itself.
//
// Shutdown is asynchronous on the worker side: joining the worker thread can
// take as long as its in-flight engine call, and that call's own completion
// message is posted back over the same events channel Run reads. Blocking
// inside the Shutdown handler would deadlock against that message, so
// shutdown instead starts the worker join on its own goroutine and the loop
// keeps draining events (bookkeeping only) until the join signals done.
func (c *Controller) Run() {
	c.emit(events.StateChanged(c.state))

	var workerDone chan struct{}

	for {
		if workerDone != nil {
			select {
			case <-workerDone:
				c.emit(events.Stopped())
				return
			case ev, ok := <-c.events:
				if !ok {
					<-workerDone
					c.emit(events.Stopped())
					return
				}
				if ev.Kind == events.EventTranscriptionFinished {
					c.queue.MarkFinished()
				}
			}
			continue
		}

		ev, ok := <-c.events
		if !ok {
			workerDone = c.beginShutdown()
			continue
		}

		switch ev.Kind {
		case events.EventToggle:
			c.handleToggle()
		case events.EventRunDoctor:
			c.handleRunDoctor()
		case events.EventTick:
			c.handleTick()
		case events.EventTranscriptionFinished:
			c.handleTranscriptionFinished(ev)
		case events.EventShutdown:
			workerDone = c.beginShutdown()
		}
	}
}

func (c *Controller) emit(o events.ControllerOutput) {
	c.outputs <- o
}

func (c *Controller) transition(s events.ControllerState) {
	c.state = s
	c.emit(events.StateChanged(s))
}

// handleToggle implements the Toggle column of this package's transition
// table. Degraded is treated as Idle; Unavailable refuses with a
// notification only.
func (c *Controller) handleToggle() {
	switch c.state.Mode {
	case events.StateIdle, events.StateDegraded:
		c.startRecording()
	case events.StateRecording:
		c.stopRecordingAndEnqueue()
	case events.StateProcessing:
		c.emit(events.Notification("Transcription already in progress; finishing current job."))
	case events.StateUnavailable:
		c.emit(events.Notification(fmt.Sprintf("recording disabled: %s", c.state.Reason)))
	}
}

func (c *Controller) startRecording() {
	wdCfg := watchdog.Config{ArmingTimeout: c.cfg.Audio.ArmingTimeout, StallTimeout: c.cfg.Audio.StallTimeout}
	rec, err := c.capture.StartRecording(c.cfg.CaptureDir, wdCfg)
	if err != nil {
		c.transition(events.Degraded(fmt.Sprintf("recording start failed: %s", err)))
		c.emit(events.Notification(fmt.Sprintf("recording start failed: %s", err)))
		return
	}

	c.recording = rec
	c.startedAt = time.Now()
	c.transition(events.Recording())
	c.emit(events.Notification("Recording started"))
}

func (c *Controller) stopRecordingAndEnqueue() {
	rec := c.recording
	c.recording = nil
	wavPath, err := rec.Stop()
	if err != nil {
		c.transition(events.Degraded(fmt.Sprintf("recording stop failed: %s", err)))
		c.emit(events.Notification(fmt.Sprintf("recording stop failed: %s", err)))
		return
	}

	c.enqueueAndStart(wavPath)
}

// enqueueAndStart admits wavPath to the single-flight queue and, since
// max_in_flight is always 1 and the controller only ever holds one
// recording at a time, immediately starts it on the worker.
func (c *Controller) enqueueAndStart(wavPath string) {
	if err := c.queue.Enqueue(wavPath); err != nil {
		c.transition(events.Degraded(fmt.Sprintf("queue full: %s", err)))
		c.emit(events.Notification(fmt.Sprintf("queue full: %s", err)))
		return
	}

	path, ok := c.queue.StartNext()
	if !ok {
		// Invariant violation: we just enqueued into an otherwise-empty
		// queue from the only goroutine that ever calls StartNext.
		c.transition(events.Degraded("internal error: queue scheduling mismatch"))
		c.emit(events.Notification("internal error: queue scheduling mismatch"))
		return
	}

	runID := runIDFromPath(path)
	c.worker.Submit(path, runID, c.cfg.Backend, c.cfg.Language)
	c.transition(events.Processing())
}

func (c *Controller) handleRunDoctor() {
	if c.runDoctor == nil {
		return
	}
	c.emit(events.DoctorReport(c.runDoctor()))
}

// handleTick implements this package's Tick semantics: watchdog checks take
// priority over the max-duration check, and all three only apply while a
// recording is live.
func (c *Controller) handleTick() {
	if c.recording == nil {
		return
	}

	now := time.Now()
	snap := c.recording.WatchdogSnapshot(now)

	switch {
	case !snap.Armed:
		c.abortRecording(fmt.Sprintf("capture watchdog arming timeout exceeded (first_frame_seen=%t)", snap.FirstFrameSeen))
	case snap.Stalled:
		c.abortRecording(fmt.Sprintf("capture watchdog stall detected (first_frame_seen=%t)", snap.FirstFrameSeen))
	case c.cfg.Audio.MaxRecordingSeconds > 0 && now.Sub(c.startedAt) > time.Duration(c.cfg.Audio.MaxRecordingSeconds)*time.Second:
		c.finishMaxDuration()
	}
}

// abortRecording stops a watchdog-failed recording best-effort and
// transitions to Degraded; stop() errors are folded into the same reason
// since the recording is being discarded either way.
func (c *Controller) abortRecording(reason string) {
	rec := c.recording
	c.recording = nil
	if rec != nil {
		_, _ = rec.Stop()
	}
	c.transition(events.Degraded(reason))
	c.emit(events.Notification(reason))
}

func (c *Controller) finishMaxDuration() {
	rec := c.recording
	c.recording = nil
	wavPath, err := rec.Stop()
	if err != nil {
		reason := fmt.Sprintf("recording stop failed: %s", err)
		c.transition(events.Degraded(reason))
		c.emit(events.Notification(reason))
		return
	}
	c.enqueueAndStart(wavPath)
}

// handleTranscriptionFinished implements this package's TranscriptionFinished
// column, identical across every live state except Unavailable (which never
// holds a job, so it's unreachable there in practice).
func (c *Controller) handleTranscriptionFinished(ev events.ControllerEvent) {
	c.queue.MarkFinished()

	if !c.cfg.Audio.RetainAudio {
		if _, err := os.Stat(ev.WavPath); err == nil {
			if rmErr := os.Remove(ev.WavPath); rmErr != nil {
				c.log.Warning("controller: failed to remove audio %s: %v", ev.WavPath, rmErr)
			}
		}
	}

	if ev.Outcome.Reason != "" {
		reason := fmt.Sprintf("transcription job failed: %s", ev.Outcome.Reason)
		c.transition(events.Degraded(reason))
		c.emit(events.Notification(reason))
		return
	}

	result := *ev.Outcome.Result

	if c.cfg.OutputMode == OutputClipboardOnly {
		if err := c.clipboard.WriteText(result.Transcript); err != nil {
			reason := fmt.Sprintf("clipboard output failed: %s", err)
			// Clipboard failure aborts the success path before
			// TranscriptReady is emitted.
			c.transition(events.Degraded(reason))
			c.emit(events.Notification(reason))
			return
		}
	}

	c.emit(events.TranscriptReady(result))
	c.transition(events.Idle())
	c.emit(events.Notification("Transcription complete"))
}

// beginShutdown implements this package's Shutdown drain: stop any live
// recording best-effort and start the worker join on its own goroutine so
// Run can keep consuming events (mark_finished bookkeeping only) until the
// join completes. The returned channel closes once the worker has fully
// exited; Stopped is emitted by Run itself, exactly once, last.
func (c *Controller) beginShutdown() chan struct{} {
	c.shuttingDown = true

	if c.recording != nil {
		_, _ = c.recording.Stop()
		c.recording = nil
	}

	done := make(chan struct{})
	if c.worker == nil {
		close(done)
		return done
	}

	go func() {
		c.worker.Shutdown()
		close(done)
	}()
	return done
}

// runIDFromPath derives a stable run id from a capture-<uuid>.wav path; the
// uuid is already unique.3, so reusing it avoids minting a
// second identifier for the same job.
func runIDFromPath(wavPath string) string {
	base := wavPath
	for i := len(wavPath) - 1; i >= 0; i-- {
		if wavPath[i] == '/' {
			base = wavPath[i+1:]
			break
		}
	}
	return "run-" + base
}
