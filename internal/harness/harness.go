// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package harness implements the runtime host loop that drives the daemon's
// outer shell: it wires periodic Ticks, forwards UI/hotkey events, handles
// Ctrl-C, runs the controller, tick pump, output pump, tray and stdin reader
// as supervised services (the transcription worker runs on its own goroutine,
// started by transcription.NewWorker), and translates ControllerOutput into user-visible effects (notifications,
// stdout, tray updates). Grounded on speak-to-ai's internal/app/runtime.go
// (RunAndWait: start tray, start hotkeys, wait on a shutdown channel,
// Shutdown on all components) restructured around
// github.com/thejerf/suture/v4 (donor: tomtom215-lyrebirdaudio-go) so the
// controller and its tick-pump run as supervised services with a restart
// policy instead of bare unmanaged goroutines.
package harness

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/quedo-dev/quedo/internal/events"
	"github.com/quedo-dev/quedo/internal/logger"
	"github.com/quedo-dev/quedo/internal/notify"
	"github.com/quedo-dev/quedo/internal/tray"
)

// TickInterval is the cadence the harness drives Tick events at. The
// watchdog needs a cadence no coarser than min(arming_timeout,
// stall_timeout) / 2; 150ms is typical and safe for the default timeouts
// (arming/stall in the 500ms-5s range).
const TickInterval = 150 * time.Millisecond

// Controller is the narrow capability the harness needs from
// controller.Controller: run the loop on the caller's goroutine. Declared
// here to avoid importing internal/controller directly, matching the
// dependency direction the rest of the daemon draws: the harness depends on
// the controller's event/output contract, not its internals.
type Controller interface {
	Run()
}

// Harness owns the process-level concerns around one Controller: the event
// and output channels, the tray, notifications, and OS signal/stdin
// plumbing. It owns a suture supervisor for those services; cmd/quedo runs
// it through RunWithSignals.
type Harness struct {
	log logger.Logger

	controller Controller
	events     chan<- events.ControllerEvent
	outputs    <-chan events.ControllerOutput

	notifier            *notify.Manager
	tray                *tray.Manager
	enableStdin         bool
	enableNotifications bool

	supervisor *suture.Supervisor
}

// Config configures a Harness.
type Config struct {
	EnableNotifications bool
	// EnableStdin gates the non-macOS-only stdin control surface; callers
	// set this per build target.
	EnableStdin bool
}

// New constructs a Harness wired to controller's event/output channels.
func New(cfg Config, log logger.Logger, controller Controller, in chan<- events.ControllerEvent, out <-chan events.ControllerOutput, notifier *notify.Manager, trayMgr *tray.Manager) *Harness {
	sup := suture.NewSimple("quedo-harness")

	h := &Harness{
		log:                 log,
		controller:          controller,
		events:              in,
		outputs:             out,
		notifier:            notifier,
		tray:                trayMgr,
		enableStdin:         cfg.EnableStdin,
		enableNotifications: cfg.EnableNotifications,
		supervisor:          sup,
	}

	sup.Add(controllerService{h.controller})
	sup.Add(tickPump{events: in, interval: TickInterval})
	sup.Add(outputPump{h: h})

	if trayMgr != nil {
		sup.Add(trayService{tray: trayMgr, events: in})
	}
	if cfg.EnableStdin {
		sup.Add(stdinService{events: in, log: log})
	}

	return h
}

// Run blocks until ctx is cancelled (typically by a Ctrl-C signal handler),
// then sends Shutdown, drains the supervisor and returns. Grounded on speak-to-ai's RunAndWait: start
// everything, block on a shutdown signal, then Shutdown.
func (h *Harness) Run(ctx context.Context) error {
	supDone := h.supervisor.ServeBackground(ctx)

	<-ctx.Done()
	h.log.Info("harness: shutdown signal received")
	h.events <- events.Shutdown()

	select {
	case err := <-supDone:
		return err
	case <-time.After(5 * time.Second):
		h.log.Warning("harness: supervisor did not stop within 5s, returning anyway")
		return nil
	}
}

// RunWithSignals is the convenience entry point cmd/quedo uses: it builds a
// context cancelled by SIGINT/SIGTERM and runs until shutdown completes.
func (h *Harness) RunWithSignals(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return h.Run(ctx)
}

// controllerService adapts Controller.Run to suture.Service. Run already
// blocks until Shutdown is processed and returns nil-equivalent by simply
// returning; suture treats a non-panicking return as "service completed",
// which for a controller only happens at intentional shutdown.
type controllerService struct {
	c Controller
}

func (s controllerService) Serve(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.c.Run()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		<-done
		return ctx.Err()
	}
}

// tickPump injects a periodic, dataless Tick event at TickInterval.
type tickPump struct {
	events   chan<- events.ControllerEvent
	interval time.Duration
}

func (p tickPump) Serve(ctx context.Context) error {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			select {
			case p.events <- events.Tick():
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// outputPump consumes ControllerOutput and translates it into notifications,
// stdout, and tray updates.
type outputPump struct {
	h *Harness
}

func (p outputPump) Serve(ctx context.Context) error {
	h := p.h
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case o, ok := <-h.outputs:
			if !ok {
				return nil
			}
			h.handleOutput(o)
			if o.Kind == events.OutputStopped {
				return nil
			}
		}
	}
}

func (h *Harness) handleOutput(o events.ControllerOutput) {
	switch o.Kind {
	case events.OutputStateChanged:
		h.log.Info("controller: state -> %s", o.State.Mode)
		if h.tray != nil {
			h.tray.SetState(o.State)
		}
		if o.State.IsDegraded() || o.State.IsUnavailable() {
			h.notifyError(o.State.Reason)
		}
	case events.OutputNotification:
		h.log.Info("controller: %s", o.Message)
		if h.enableNotifications && h.notifier != nil {
			_ = h.notifier.ShowNotification("quedo", o.Message)
		}
	case events.OutputDoctorReport:
		fmt.Printf("doctor state: %s\n", o.Doctor.State)
		for _, c := range o.Doctor.Checks {
			fmt.Printf("%-20s %-5s %s\n", c.Name, c.Status, c.Detail)
			if c.Remediation != "" {
				fmt.Printf("  remediation: %s\n", c.Remediation)
			}
		}
	case events.OutputTranscriptReady:
		fmt.Println(o.Transcript.Transcript)
	case events.OutputStopped:
		h.log.Info("controller: stopped")
	}
}

func (h *Harness) notifyError(reason string) {
	if h.notifier == nil || reason == "" {
		return
	}
	_ = h.notifier.NotifyError(reason)
}

// trayService starts and stops the tray alongside the supervisor. The tray's
// toggle and quit callbacks are supplied by the caller of tray.New.
type trayService struct {
	tray   *tray.Manager
	events chan<- events.ControllerEvent
}

func (s trayService) Serve(ctx context.Context) error {
	s.tray.Start()
	<-ctx.Done()
	s.tray.Stop()
	return ctx.Err()
}

// stdinService implements the daemon's stdin control surface: lines
// "toggle", "doctor", "quit"/"exit" translate to the matching event. Callers
// disable it on macOS by gating Config.EnableStdin at the call site; this
// package itself carries no build tag since the decision is a runtime
// default, not a compile-time one, matching how the rest of the daemon's
// platform differences are expressed as factory choices rather than
// //go:build splits.
type stdinService struct {
	events chan<- events.ControllerEvent
	log    logger.Logger
}

func (s stdinService) Serve(ctx context.Context) error {
	lines := make(chan string)
	go readStdinLines(lines)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			switch line {
			case "toggle":
				s.events <- events.Toggle()
			case "doctor":
				s.events <- events.RunDoctor()
			case "quit", "exit":
				s.events <- events.Shutdown()
				return nil
			default:
				s.log.Debug("harness: ignoring unrecognized stdin command %q", line)
			}
		}
	}
}
