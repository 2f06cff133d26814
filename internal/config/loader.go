// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// CliOverrides mirrors the flags `quedo run`/`doctor`/`install` map to CLI
// overrides. A field
// left at its zero value (empty string, false) is not applied; booleans
// that need an explicit "set or not" distinction use a pointer.
type CliOverrides struct {
	ConfigFile      string
	Backend         string
	ModelID         string
	Language        string
	TimeoutSeconds  int
	Diarize         *bool
	Translate       *bool
	HotkeyBinding   string
	OutputMode      string
}

// Load runs the full defaults -> TOML -> env -> CLI -> post-validation
// precedence chain. configFile is the resolved path to
// try reading (generally AppPaths.ConfigFile, unless overridden by
// --config); a missing file is not an error, matching speak-to-ai's
// LoadConfig ("could not read config file ... using default configuration").
func Load(configFile string, cli CliOverrides) (AppConfig, error) {
	cfg := Defaults()

	if cli.ConfigFile != "" {
		configFile = cli.ConfigFile
	}

	if data, err := os.ReadFile(configFile); err == nil {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("config: parse %s: %w", configFile, err)
		}
	} else if !os.IsNotExist(err) {
		return AppConfig{}, fmt.Errorf("config: read %s: %w", configFile, err)
	}

	applyEnv(&cfg)
	applyCLI(&cfg, cli)

	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

// EnsureWritten creates configFile with 0600 permissions containing cfg's
// current values if it does not already exist"Config
// file ... written with 0600 on POSIX if absent".
func EnsureWritten(configFile string, cfg AppConfig) error {
	if _, err := os.Stat(configFile); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("config: stat %s: %w", configFile, err)
	}

	f, err := os.OpenFile(configFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", configFile, err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("config: write %s: %w", configFile, err)
	}
	return nil
}

// applyEnv overlays the QUEDO_* environment variables onto cfg.
// Booleans accept {1,true,yes,on}/{0,false,no,off}; empty-string
// model/language clears the field; unknown values are ignored, leaving the
// prior value in place.
func applyEnv(cfg *AppConfig) {
	if v, ok := os.LookupEnv("QUEDO_BACKEND"); ok && v != "" {
		cfg.Transcription.Backend = v
	}
	if v, ok := os.LookupEnv("QUEDO_MODEL_ID"); ok {
		cfg.Transcription.ModelID = v
	}
	if v, ok := os.LookupEnv("QUEDO_LANGUAGE"); ok {
		cfg.Transcription.Language = v
	}
	if v, ok := parseBoolEnv("QUEDO_TRANSLATE"); ok {
		cfg.Transcription.Translate = v
	}
	if v, ok := parseBoolEnv("QUEDO_DIARIZE"); ok {
		cfg.Transcription.Diarize = v
	}
	if v, ok := parseIntEnv("QUEDO_TIMEOUT_SECONDS"); ok {
		cfg.Transcription.TimeoutSeconds = v
	}
	if v, ok := parseOutputModeEnv("QUEDO_OUTPUT_MODE"); ok {
		cfg.Output.Mode = v
	}
	if v, ok := os.LookupEnv("QUEDO_HOTKEY_BINDING"); ok && v != "" {
		cfg.Hotkey.Binding = v
	}
	if v, ok := os.LookupEnv("QUEDO_HISTORY_DB_PATH"); ok && v != "" {
		cfg.History.DBPath = v
	}
	if v, ok := parseBoolEnv("QUEDO_AUTOSTART_ENABLED"); ok {
		cfg.Service.AutostartEnabled = v
	}
	if v, ok := os.LookupEnv("QUEDO_LOG_LEVEL"); ok && v != "" {
		cfg.Diagnostics.LogLevel = v
	}
	if v, ok := parseIntEnv("QUEDO_MAX_RECORDING_SECONDS"); ok {
		cfg.Audio.MaxRecordingSeconds = v
	}
}

func parseBoolEnv(name string) (bool, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func parseIntEnv(name string) (int, bool) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseOutputModeEnv(name string) (OutputMode, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	return normalizeOutputMode(v)
}

// normalizeOutputMode accepts the spelling variants lists for
// --output-mode/QUEDO_OUTPUT_MODE; any other value is rejected (caller keeps
// the prior setting).
func normalizeOutputMode(v string) (OutputMode, bool) {
	switch v {
	case "clipboard_only", "clipboard-only":
		return OutputClipboardOnly, true
	case "disabled", "none":
		return OutputDisabled, true
	default:
		return "", false
	}
}

// applyCLI overlays CliOverrides, the highest-precedence source in the
// config resolution chain. Unrecognized --output-mode values are silently
// ignored.
func applyCLI(cfg *AppConfig, cli CliOverrides) {
	if cli.Backend != "" {
		cfg.Transcription.Backend = cli.Backend
	}
	if cli.ModelID != "" {
		cfg.Transcription.ModelID = cli.ModelID
	}
	if cli.Language != "" {
		cfg.Transcription.Language = cli.Language
	}
	if cli.TimeoutSeconds != 0 {
		cfg.Transcription.TimeoutSeconds = cli.TimeoutSeconds
	}
	if cli.Diarize != nil {
		cfg.Transcription.Diarize = *cli.Diarize
	}
	if cli.Translate != nil {
		cfg.Transcription.Translate = *cli.Translate
	}
	if cli.HotkeyBinding != "" {
		cfg.Hotkey.Binding = cli.HotkeyBinding
	}
	if cli.OutputMode != "" {
		if mode, ok := normalizeOutputMode(cli.OutputMode); ok {
			cfg.Output.Mode = mode
		}
	}
}
