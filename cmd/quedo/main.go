// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Command quedo is the transcription daemon's entry point: run, doctor,
// install, and status subcommands over a shared cobra root. Grounded on the
// alnah-go-transcript cmd/transcript/main.go scaffold (cobra root with
// SilenceErrors/SilenceUsage, a signal-cancelled context, an exitCode(err)
// mapping printed to os.Exit) narrowed to this package's simpler two-code
// contract: 0 on success, 1 on any surfaced error, message on stderr
// prefixed "error: ".
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quedo-dev/quedo/internal/config"
)

var (
	version = "dev"
	commit  = "unknown"
)

// overrideFlags holds the CLI flag values shared by every subcommand that
// touches config.CliOverrides.
type overrideFlags struct {
	configFile     string
	backend        string
	modelID        string
	language       string
	timeoutSeconds int
	diarize        bool
	diarizeSet     bool
	translate      bool
	translateSet   bool
	hotkeyBinding  string
	outputMode     string
}

func (f *overrideFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.configFile, "config", "", "path to config.toml (default: XDG config dir)")
	flags.StringVar(&f.backend, "backend", "", "transcription backend")
	flags.StringVar(&f.modelID, "model-id", "", "whisper model identifier or path")
	flags.StringVar(&f.language, "language", "", "transcription language")
	flags.IntVar(&f.timeoutSeconds, "timeout-seconds", 0, "transcription.timeout_seconds (validated; not applied to engine calls)")
	flags.BoolVar(&f.diarize, "diarize", false, "transcription.diarize (gates the doctor's python3 check)")
	flags.BoolVar(&f.translate, "translate", false, "transcription.translate (not applied by the engine)")
	flags.StringVar(&f.hotkeyBinding, "hotkey-binding", "", "global hotkey binding, e.g. ctrl+alt+space")
	flags.StringVar(&f.outputMode, "output-mode", "", "clipboard_only|clipboard-only|disabled|none")

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		f.diarizeSet = cmd.Flags().Changed("diarize")
		f.translateSet = cmd.Flags().Changed("translate")
	}
}

func (f *overrideFlags) cliOverrides() config.CliOverrides {
	cli := config.CliOverrides{
		ConfigFile:     f.configFile,
		Backend:        f.backend,
		ModelID:        f.modelID,
		Language:       f.language,
		TimeoutSeconds: f.timeoutSeconds,
		HotkeyBinding:  f.hotkeyBinding,
		OutputMode:     f.outputMode,
	}
	if f.diarizeSet {
		v := f.diarize
		cli.Diarize = &v
	}
	if f.translateSet {
		v := f.translate
		cli.Translate = &v
	}
	return cli
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "quedo",
		Short:         "Hotkey-triggered microphone transcription daemon",
		Version:       fmt.Sprintf("%s (commit %s)", version, commit),
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newStatusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
