// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package config defines AppConfig and loads it through the
// defaults -> TOML -> env -> CLI -> post-validation precedence chain.
// Grounded on speak-to-ai's config package layout (a models file,
// a loader, a validator) but the on-disk codec is swapped from speak-to-ai's
// gopkg.in/yaml.v2 to github.com/BurntSushi/toml to keep the on-disk format
// plain TOML.
package config

import "time"

// OutputMode mirrors controller.OutputMode by value (same underlying string
// constants) without importing the controller package, exactly as
// controller.Config declares its own OutputMode to avoid the reverse
// dependency; cmd/quedo converts between the two at the wiring boundary.
type OutputMode string

const (
	OutputClipboardOnly OutputMode = "clipboard_only"
	OutputDisabled      OutputMode = "disabled"
)

// AudioConfig is AppConfig.audio.
type AudioConfig struct {
	Device              string `toml:"device"`
	MaxRecordingSeconds int    `toml:"max_recording_seconds"`
	RetainAudio         bool   `toml:"retain_audio"`
	ArmingTimeoutMs     int    `toml:"arming_timeout_ms"`
	StallTimeoutMs      int    `toml:"stall_timeout_ms"`
}

// ArmingTimeout converts ArmingTimeoutMs to a time.Duration for the
// watchdog config.
func (a AudioConfig) ArmingTimeout() time.Duration {
	return time.Duration(a.ArmingTimeoutMs) * time.Millisecond
}

// StallTimeout converts StallTimeoutMs to a time.Duration.
func (a AudioConfig) StallTimeout() time.Duration {
	return time.Duration(a.StallTimeoutMs) * time.Millisecond
}

// TranscriptionConfig is AppConfig.transcription. Only ModelID, Backend and
// Language reach the transcription path; Translate, TimeoutSeconds, Threads
// and Processors are loaded but not passed to the engine
// (each job runs under the worker's fixed 2-minute limit), and Diarize only
// gates the doctor's python3 check.
type TranscriptionConfig struct {
	Backend        string `toml:"backend"`
	ModelID        string `toml:"model_id"`
	Language       string `toml:"language"`
	Translate      bool   `toml:"translate"`
	Diarize        bool   `toml:"diarize"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Threads        int    `toml:"threads"`
	Processors     int    `toml:"processors"`
}

// OutputConfig is AppConfig.output.
type OutputConfig struct {
	Mode                OutputMode `toml:"mode"`
	EnableNotifications bool       `toml:"enable_notifications"`
}

// HotkeyConfig is AppConfig.hotkey.
type HotkeyConfig struct {
	Binding string `toml:"binding"`
}

// HistoryConfig is AppConfig.history.
type HistoryConfig struct {
	DBPath string `toml:"db_path"`
}

// ServiceConfig holds autostart settings. AutostartEnabled is loaded and
// saved but nothing reads it: `quedo install` writes the autostart entry
// regardless of its value.
type ServiceConfig struct {
	AutostartEnabled bool `toml:"autostart_enabled"`
}

// DiagnosticsConfig controls logging and doctor verbosity.
type DiagnosticsConfig struct {
	LogLevel string `toml:"log_level"`
}

// PermissionsConfig lists external binary names, following the shape of
// speak-to-ai's Security.AllowedCommands. Nothing consults the list: the
// recorders and doctor run their binaries regardless of it.
type PermissionsConfig struct {
	AllowedCommands []string `toml:"allowed_commands"`
}

// AppConfig is the full, validated, read-only configuration shared with the
// controller after startup.
type AppConfig struct {
	Audio         AudioConfig         `toml:"audio"`
	Transcription TranscriptionConfig `toml:"transcription"`
	Output        OutputConfig        `toml:"output"`
	Hotkey        HotkeyConfig        `toml:"hotkey"`
	History       HistoryConfig       `toml:"history"`
	Service       ServiceConfig       `toml:"service"`
	Diagnostics   DiagnosticsConfig   `toml:"diagnostics"`
	Permissions   PermissionsConfig   `toml:"permissions"`
}

// Defaults returns the baseline AppConfig the defaults->TOML->env->CLI
// precedence chain starts from. Grounded on speak-to-ai's
// config/default_config.go SetDefaultConfig, narrowed to this package's fields.
func Defaults() AppConfig {
	return AppConfig{
		Audio: AudioConfig{
			MaxRecordingSeconds: 120,
			RetainAudio:         false,
			ArmingTimeoutMs:     1500,
			StallTimeoutMs:      3000,
		},
		Transcription: TranscriptionConfig{
			Backend:        "whisper_cpp",
			TimeoutSeconds: 60,
			Threads:        4,
		},
		Output: OutputConfig{
			Mode:                OutputClipboardOnly,
			EnableNotifications: true,
		},
		Hotkey: HotkeyConfig{
			Binding: "ctrl+alt+space",
		},
		Service: ServiceConfig{
			AutostartEnabled: false,
		},
		Diagnostics: DiagnosticsConfig{
			LogLevel: "info",
		},
		Permissions: PermissionsConfig{
			AllowedCommands: []string{"arecord", "ffmpeg"},
		},
	}
}
