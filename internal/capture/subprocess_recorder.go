// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package capture

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/quedo-dev/quedo/internal/logger"
	"github.com/quedo-dev/quedo/internal/watchdog"
)

// stopWaitDeadline bounds how long Stop waits for the graceful-termination
// signal before escalating to a kill.
const stopWaitDeadline = 2 * time.Second

// pollInterval is how often the recorder's own poll loop calls the
// file-growth watchdog's Poll. The controller's Tick handling only reads
// WatchdogSnapshot; it never calls Poll.
const pollInterval = 100 * time.Millisecond

// subprocessBinary names a candidate recorder binary and how to build its
// argv for a given device/output path. Grounded on speak-to-ai's
// ArecordRecorder/FFmpegRecorder StartRecording methods.
type subprocessBinary struct {
	name string
	args func(device, wavPath string) []string
}

var subprocessBinaries = []subprocessBinary{
	{
		name: "arecord",
		args: func(device, wavPath string) []string {
			args := []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1"}
			if device != "" {
				args = append(args, "-D", device)
			}
			return append(args, wavPath)
		},
	},
	{
		name: "ffmpeg",
		args: func(device, wavPath string) []string {
			input := device
			if input == "" {
				input = "default"
			}
			return []string{
				"-y", "-f", "alsa", "-i", input,
				"-ac", "1", "-ar", "16000", "-c:a", "pcm_s16le",
				wavPath,
			}
		},
	},
}

// subprocessRecorder wraps a child process writing a WAV file directly.
// Grounded on speak-to-ai's audio.BaseRecorder: ExecuteRecordingCommand's
// command construction and StopProcess's graceful-signal, bounded-wait,
// escalate-to-kill sequence, generalized from "timeout-based retries" to an
// exact two-stage deadline.
type subprocessRecorder struct {
	cmd    *exec.Cmd
	cancel context.CancelFunc
	path   string
	wd     *watchdog.FileGrowthWatchdog
	log    logger.Logger

	pollStop chan struct{}
	pollWg   sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

func startSubprocessRecorder(cfg Config, wavPath string, wdCfg watchdog.Config, log logger.Logger) (ActiveRecording, error) {
	var chosen *subprocessBinary
	var missing []string
	for i := range subprocessBinaries {
		b := &subprocessBinaries[i]
		if _, err := exec.LookPath(b.name); err == nil {
			chosen = b
			break
		}
		missing = append(missing, b.name)
	}
	if chosen == nil {
		return nil, &BinaryMissingError{Candidates: missing}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, chosen.name, chosen.args(cfg.Device, wavPath)...)

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("capture: start %s: %w", chosen.name, err)
	}

	r := &subprocessRecorder{
		cmd:      cmd,
		cancel:   cancel,
		path:     wavPath,
		wd:       watchdog.NewFileGrowthWatchdog(wdCfg, time.Now(), wavPath),
		log:      log,
		pollStop: make(chan struct{}),
	}

	r.pollWg.Add(1)
	go r.pollLoop()

	return r, nil
}

// pollLoop drives the file-growth watchdog independently of the controller's
// own Tick cadence, so WatchdogSnapshot reflects recent evidence even
// between ticks.
func (r *subprocessRecorder) pollLoop() {
	defer r.pollWg.Done()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.pollStop:
			return
		case now := <-ticker.C:
			r.wd.Poll(now)
		}
	}
}

func (r *subprocessRecorder) WatchdogSnapshot(now time.Time) watchdog.Snapshot {
	return r.wd.Snapshot(now)
}

// Stop sends a graceful-termination signal, waits up to stopWaitDeadline,
// then escalates to a kill. After termination it validates the WAV header.
// Safe to call more than once.
func (r *subprocessRecorder) Stop() (string, error) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return r.path, nil
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.pollStop)
	r.pollWg.Wait()

	done := make(chan error, 1)
	go func() { done <- r.cmd.Wait() }()

	if r.cmd.Process != nil {
		if err := r.cmd.Process.Signal(os.Interrupt); err != nil {
			r.log.Warning("capture: graceful signal failed, killing immediately: %v", err)
			r.cancel()
		}
	}

	select {
	case <-done:
	case <-time.After(stopWaitDeadline):
		r.log.Warning("capture: %s did not exit within %s, escalating to kill", r.cmd.Path, stopWaitDeadline)
		r.cancel()
		<-done
	}

	if err := validateWAVHeader(r.path); err != nil {
		return "", err
	}
	return r.path, nil
}
