// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/quedo-dev/quedo/internal/capture"
	"github.com/quedo-dev/quedo/internal/clipboard"
	"github.com/quedo-dev/quedo/internal/config"
	"github.com/quedo-dev/quedo/internal/controller"
	"github.com/quedo-dev/quedo/internal/doctor"
	"github.com/quedo-dev/quedo/internal/events"
	"github.com/quedo-dev/quedo/internal/harness"
	"github.com/quedo-dev/quedo/internal/history"
	"github.com/quedo-dev/quedo/internal/hotkey"
	"github.com/quedo-dev/quedo/internal/lockfile"
	"github.com/quedo-dev/quedo/internal/logger"
	"github.com/quedo-dev/quedo/internal/notify"
	"github.com/quedo-dev/quedo/internal/queue"
	"github.com/quedo-dev/quedo/internal/transcription"
	"github.com/quedo-dev/quedo/internal/tray"
)

func newRunCmd() *cobra.Command {
	var flags overrideFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(flags.cliOverrides())
		},
	}
	flags.register(cmd)
	return cmd
}

func runDaemon(cli config.CliOverrides) error {
	p, cfg, err := bootstrapConfig(cli)
	if err != nil {
		return err
	}

	log, err := logger.Configure(logger.Config{
		Level: logLevel(cfg.Diagnostics.LogLevel),
		File:  filepath.Join(p.LogsDir, "quedo.log"),
	})
	if err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	lock := lockfile.New(p.StateDir)
	if running, pid, lerr := lock.CheckExistingInstance(); lerr != nil {
		log.Warning("run: failed to check existing instance: %v", lerr)
	} else if running {
		return fmt.Errorf("another instance of quedo is already running (pid %d)", pid)
	}
	if err := lock.TryLock(); err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warning("run: failed to release lock: %v", err)
		}
	}()

	historyStore, err := history.Open(historyDBPath(p, cfg))
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer historyStore.Close()

	eventsCh := make(chan events.ControllerEvent, 8)
	outputsCh := make(chan events.ControllerOutput, 8)

	mic := capture.New(capture.Config{
		Variant: capture.VariantSubprocess,
		Device:  cfg.Audio.Device,
	}, log.With("capture"))

	engine := buildEngine(resolveModelPath(p.DataDir, cfg.Transcription.ModelID), log)
	worker := transcription.NewWorker(engine, log.With("worker"), eventsCh, historyStore)

	writer := clipboard.NewSystemWriter()
	doctorFn := func() doctor.Report { return doctor.Run(doctorInputs(p, cfg)) }

	initial := events.Idle()
	if report := doctorFn(); report.State == doctor.StateUnavailable {
		initial = events.Unavailable(report.FirstFailureReason())
	}
	if ue, ok := engine.(transcription.UnavailableEngine); ok && initial.Mode == events.StateIdle {
		initial = events.Unavailable(ue.Reason)
	}

	ctrlCfg := controller.Config{
		Audio: controller.AudioConfig{
			MaxRecordingSeconds: cfg.Audio.MaxRecordingSeconds,
			RetainAudio:         cfg.Audio.RetainAudio,
			ArmingTimeout:       cfg.Audio.ArmingTimeout(),
			StallTimeout:        cfg.Audio.StallTimeout(),
		},
		OutputMode: controller.OutputMode(cfg.Output.Mode),
		Backend:    cfg.Transcription.Backend,
		Language:   cfg.Transcription.Language,
		CaptureDir: p.CaptureDir(),
		DBPath:     historyDBPath(p, cfg),
	}

	ctrl := controller.New(ctrlCfg, log.With("controller"), mic, queue.New(1), worker, writer, doctorFn, eventsCh, outputsCh, initial)

	notifier := notify.NewManager("quedo", cfg.Output.EnableNotifications)
	trayMgr := tray.New(tray.GetIconIdle(), tray.GetIconBusy(), log.With("tray"),
		func() { eventsCh <- events.Toggle() },
		func() { eventsCh <- events.Shutdown() },
	)

	h := harness.New(harness.Config{
		EnableNotifications: cfg.Output.EnableNotifications,
		EnableStdin:         runtime.GOOS != "darwin",
	}, log.With("harness"), ctrl, eventsCh, outputsCh, notifier, trayMgr)

	hk := hotkey.New(cfg.Hotkey.Binding, func() { eventsCh <- events.Toggle() },
		hotkey.NewDbusProvider(), hotkey.NewEvdevProvider())
	if hk.Available() {
		if err := hk.Start(); err != nil {
			log.Warning("run: hotkey start failed: %v", err)
		} else {
			defer hk.Stop()
		}
	} else {
		log.Warning("run: no supported hotkey provider available; toggling is only possible via tray or stdin")
	}

	return h.RunWithSignals(context.Background())
}

// buildEngine constructs the whisper.cpp engine, falling back to an
// UnavailableEngine (rather than failing startup outright) when model
// loading fails — the controller's Unavailable state exists precisely for
// this case, and the preflight doctor report already surfaces the reason.
func buildEngine(modelPath string, log logger.Logger) transcription.Engine {
	engine, err := transcription.NewWhisperCppEngine(modelPath)
	if err != nil {
		log.Warning("run: transcription engine unavailable: %v", err)
		return transcription.UnavailableEngine{Reason: err.Error()}
	}
	return engine
}
