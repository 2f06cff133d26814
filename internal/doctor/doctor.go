// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package doctor implements the preflight checks the CLI's `doctor`
// subcommand, the `install` subcommand, and the controller's startup path
// all share. Grounded on speak-to-ai's
// audio.AudioRecorderFactory.DiagnoseAudioSystem/TestRecorderMethod for the
// binary-presence probing, and on whisper_assistant's
// daemon/src/doctor/checks.rs and doctor/report.rs for the richer shape: a
// State rollup, per-check required/remediation fields, and version-range
// checks on the transcription toolchain.
package doctor

import (
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// CheckStatus is the outcome of a single preflight check.
type CheckStatus string

const (
	StatusOK   CheckStatus = "ok"
	StatusWarn CheckStatus = "warn"
	StatusFail CheckStatus = "fail"
	StatusSkip CheckStatus = "skip"
)

// State is the aggregate rollup of a Report, mirroring the three states the
// controller itself can be in at startup.
type State string

const (
	StateReady       State = "ready"
	StateDegraded    State = "degraded"
	StateUnavailable State = "unavailable"
)

// Check is one named preflight probe. A required check that fails pushes
// the whole report to StateUnavailable; an optional one only degrades it.
type Check struct {
	Name        string      `json:"name"`
	Status      CheckStatus `json:"status"`
	Detail      string      `json:"detail,omitempty"`
	Required    bool        `json:"required"`
	Remediation string      `json:"remediation,omitempty"`
}

// Report is the full preflight result, returned to the controller at
// startup and printed by `quedo doctor`.
type Report struct {
	State  State   `json:"state"`
	Checks []Check `json:"checks"`
}

// Failing reports the checks that failed.
func (r Report) Failing() []Check {
	var out []Check
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			out = append(out, c)
		}
	}
	return out
}

// FirstFailureReason returns a human-readable reason built from the first
// required failing check, or "" if none failed. This is the text the
// controller surfaces in its Unavailable state at startup.
func (r Report) FirstFailureReason() string {
	for _, c := range r.Checks {
		if c.Required && c.Status == StatusFail {
			return c.Name + ": " + c.Detail
		}
	}
	return ""
}

// rollup derives a State from the checks: any required failure is
// Unavailable, any remaining warn/fail degrades, otherwise Ready.
func rollup(checks []Check) State {
	degraded := false
	for _, c := range checks {
		if c.Required && c.Status == StatusFail {
			return StateUnavailable
		}
		if c.Status == StatusWarn || c.Status == StatusFail {
			degraded = true
		}
	}
	if degraded {
		return StateDegraded
	}
	return StateReady
}

// Inputs the checks need; kept minimal and independent of internal/config so
// doctor stays a leaf package other parts of the tree can probe cheaply.
type Inputs struct {
	Device          string // preferred capture device; "" for platform default
	RecordingMethod string // "arecord" | "ffmpeg" | "in_process"
	ModelPath       string
	ClipboardTool   string // "" to probe the atotto/clipboard backend instead
	ConfigFile      string
	Diarize         bool // gates the python3 version check
}

// Run executes every preflight check and returns the aggregate report.
func Run(in Inputs) Report {
	var checks []Check

	checks = append(checks, checkBinaries(in.RecordingMethod)...)
	checks = append(checks, checkModel(in.ModelPath))
	checks = append(checks, checkClipboard(in.ClipboardTool))
	checks = append(checks, checkConfigFile(in.ConfigFile))
	checks = append(checks, checkBinaryVersion("ffmpeg", []string{"-version"}, [3]int{6, 0, 0}, true,
		"Install ffmpeg via your package manager."))
	checks = append(checks, checkBinaryVersion("whisper-cli", []string{"--help"}, [3]int{1, 7, 2}, true,
		"Install whisper.cpp and ensure whisper-cli is in PATH."))
	checks = append(checks, checkBinaryVersion("python3", []string{"--version"}, [3]int{3, 10, 0}, in.Diarize,
		"Install python3 >= 3.10 for diarization backend support."))
	checks = append(checks, checkMicrophone())

	return Report{State: rollup(checks), Checks: checks}
}

func checkBinaries(method string) []Check {
	have := func(name string) bool {
		_, err := exec.LookPath(name)
		return err == nil
	}

	arecord := have("arecord")
	ffmpeg := have("ffmpeg")
	const remediation = "Install alsa-utils (arecord) or ffmpeg."

	switch method {
	case "arecord":
		if arecord {
			return []Check{{Name: "recorder:arecord", Status: StatusOK, Required: true}}
		}
		if ffmpeg {
			return []Check{{Name: "recorder:arecord", Status: StatusWarn, Required: true,
				Detail: "arecord missing, ffmpeg available as fallback", Remediation: remediation}}
		}
		return []Check{{Name: "recorder:arecord", Status: StatusFail, Required: true,
			Detail: "neither arecord nor ffmpeg found on PATH", Remediation: remediation}}
	case "ffmpeg":
		if ffmpeg {
			return []Check{{Name: "recorder:ffmpeg", Status: StatusOK, Required: true}}
		}
		if arecord {
			return []Check{{Name: "recorder:ffmpeg", Status: StatusWarn, Required: true,
				Detail: "ffmpeg missing, arecord available as fallback", Remediation: remediation}}
		}
		return []Check{{Name: "recorder:ffmpeg", Status: StatusFail, Required: true,
			Detail: "neither arecord nor ffmpeg found on PATH", Remediation: remediation}}
	case "in_process":
		return []Check{{Name: "recorder:in_process", Status: StatusOK, Required: true}}
	default:
		if arecord || ffmpeg {
			return []Check{{Name: "recorder", Status: StatusOK, Required: true}}
		}
		return []Check{{Name: "recorder", Status: StatusFail, Required: true,
			Detail: "neither arecord nor ffmpeg found on PATH", Remediation: remediation}}
	}
}

func checkModel(modelPath string) Check {
	if modelPath == "" {
		return Check{Name: "model", Status: StatusWarn, Required: true,
			Detail: "no model_id configured", Remediation: "Set transcription.model_id in config.toml."}
	}
	info, err := os.Stat(modelPath)
	if err != nil {
		return Check{Name: "model", Status: StatusFail, Required: true,
			Detail:      "model file not found: " + modelPath,
			Remediation: "Download a whisper.cpp ggml model and point transcription.model_id at it."}
	}
	if info.IsDir() {
		return Check{Name: "model", Status: StatusFail, Required: true,
			Detail: "model path is a directory: " + modelPath}
	}
	return Check{Name: "model", Status: StatusOK, Required: true}
}

func checkClipboard(tool string) Check {
	if tool == "" {
		return Check{Name: "clipboard", Status: StatusOK, Required: false, Detail: "using built-in clipboard backend"}
	}
	if _, err := exec.LookPath(tool); err != nil {
		return Check{Name: "clipboard", Status: StatusFail, Required: false,
			Detail: "clipboard tool not found: " + tool, Remediation: "Install " + tool + " or use the built-in clipboard backend."}
	}
	return Check{Name: "clipboard", Status: StatusOK, Required: false}
}

func checkConfigFile(path string) Check {
	if path == "" {
		return Check{Name: "config", Status: StatusWarn, Required: false, Detail: "no config file path resolved, using defaults"}
	}
	if _, err := os.Stat(path); err != nil {
		return Check{Name: "config", Status: StatusWarn, Required: false,
			Detail: "config file not found, using defaults: " + path}
	}
	return Check{Name: "config", Status: StatusOK, Required: false}
}

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// checkBinaryVersion runs binary with versionArgs, parses the first
// "major.minor[.patch]" triplet out of its combined stdout/stderr, and
// compares it against min. Grounded on checks.rs's check_binary_version:
// a required-but-absent binary fails, an optional one only skips, and
// unparseable output always warns rather than failing outright.
func checkBinaryVersion(binary string, versionArgs []string, min [3]int, required bool, remediation string) Check {
	path, err := exec.LookPath(binary)
	if err != nil {
		status := StatusFail
		if !required {
			status = StatusSkip
		}
		return Check{Name: binary, Status: status, Required: required,
			Detail: "binary not found in PATH", Remediation: remediation}
	}

	out, _ := exec.Command(binary, versionArgs...).CombinedOutput()
	found, ok := parseVersionTriplet(string(out))
	if !ok {
		return Check{Name: binary, Status: StatusWarn, Required: required,
			Detail: "installed at " + path + ", version parse failed", Remediation: remediation}
	}

	if versionAtLeast(found, min) {
		return Check{Name: binary, Status: StatusOK, Required: required,
			Detail: versionString(found) + " (>= " + versionString(min) + ") at " + path}
	}
	return Check{Name: binary, Status: StatusFail, Required: required,
		Detail: versionString(found) + " (< " + versionString(min) + ")", Remediation: remediation}
}

func parseVersionTriplet(text string) ([3]int, bool) {
	m := versionPattern.FindStringSubmatch(text)
	if m == nil {
		return [3]int{}, false
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch := 0
	if m[3] != "" {
		patch, _ = strconv.Atoi(m[3])
	}
	return [3]int{major, minor, patch}, true
}

func versionAtLeast(found, required [3]int) bool {
	for i := range found {
		if found[i] != required[i] {
			return found[i] > required[i]
		}
	}
	return true
}

func versionString(v [3]int) string {
	return strconv.Itoa(v[0]) + "." + strconv.Itoa(v[1]) + "." + strconv.Itoa(v[2])
}

// checkMicrophone probes for a capture device via arecord -l, matching
// checks.rs's non-macOS microphone_probe branch (this daemon targets Linux
// only, so the macOS AVFoundation/swift branch has no equivalent here).
func checkMicrophone() Check {
	if _, err := exec.LookPath("arecord"); err != nil {
		return Check{Name: "microphone_probe", Status: StatusSkip, Required: false,
			Detail:      "arecord not installed; cannot probe input device availability",
			Remediation: "Install alsa-utils and rerun doctor."}
	}

	out, err := exec.Command("arecord", "-l").CombinedOutput()
	if err != nil {
		return Check{Name: "microphone_probe", Status: StatusWarn, Required: false,
			Detail: "failed to execute arecord -l: " + err.Error()}
	}
	if strings.Contains(strings.ToLower(string(out)), "card") {
		return Check{Name: "microphone_probe", Status: StatusOK, Required: false,
			Detail: "capture devices detected via arecord -l"}
	}
	return Check{Name: "microphone_probe", Status: StatusWarn, Required: false,
		Detail: "no input devices listed", Remediation: "Connect a microphone or verify ALSA/PulseAudio device routing."}
}
