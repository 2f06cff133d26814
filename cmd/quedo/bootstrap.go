// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quedo-dev/quedo/internal/config"
	"github.com/quedo-dev/quedo/internal/doctor"
	"github.com/quedo-dev/quedo/internal/logger"
	"github.com/quedo-dev/quedo/internal/paths"
)

// bootstrapConfig resolves AppPaths and loads AppConfig through the
// defaults->TOML->env->CLI->post-validation chain, writing config.toml on
// first run.
func bootstrapConfig(cli config.CliOverrides) (paths.AppPaths, config.AppConfig, error) {
	p, err := paths.Resolve()
	if err != nil {
		return paths.AppPaths{}, config.AppConfig{}, fmt.Errorf("resolve paths: %w", err)
	}

	cfg, err := config.Load(p.ConfigFile, cli)
	if err != nil {
		return paths.AppPaths{}, config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}

	if err := config.EnsureWritten(p.ConfigFile, cfg); err != nil {
		return paths.AppPaths{}, config.AppConfig{}, fmt.Errorf("write config: %w", err)
	}

	return p, cfg, nil
}

// historyDBPath resolves the effective history database path: the config
// override if set, otherwise AppPaths.HistoryDB.
func historyDBPath(p paths.AppPaths, cfg config.AppConfig) string {
	if cfg.History.DBPath != "" {
		return cfg.History.DBPath
	}
	return p.HistoryDB
}

// resolveModelPath turns transcription.model_id into a filesystem path: a
// value containing a path separator or ending in ".bin" is used as-is
// (resolved relative to dataDir if not already absolute); a bare identifier
// is looked up under "<dataDir>/models/<model_id>.bin".
func resolveModelPath(dataDir, modelID string) string {
	if modelID == "" {
		return ""
	}
	if strings.ContainsRune(modelID, filepath.Separator) || strings.HasSuffix(modelID, ".bin") {
		if filepath.IsAbs(modelID) {
			return modelID
		}
		return filepath.Join(dataDir, modelID)
	}
	return filepath.Join(dataDir, "models", modelID+".bin")
}

// logLevel maps the config's diagnostics.log_level string to logger.LogLevel,
// defaulting to Info for an unrecognized value.
func logLevel(s string) logger.LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return logger.DebugLevel
	case "warning", "warn":
		return logger.WarningLevel
	case "error":
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}

// doctorInputs builds doctor.Inputs from the resolved config and paths.
func doctorInputs(p paths.AppPaths, cfg config.AppConfig) doctor.Inputs {
	return doctor.Inputs{
		Device:          cfg.Audio.Device,
		RecordingMethod: "",
		ModelPath:       resolveModelPath(p.DataDir, cfg.Transcription.ModelID),
		ClipboardTool:   "",
		ConfigFile:      p.ConfigFile,
		Diarize:         cfg.Transcription.Diarize,
	}
}
