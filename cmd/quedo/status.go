// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/quedo-dev/quedo/internal/history"
)

func newStatusCmd() *cobra.Command {
	var flags overrideFlags

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print a short summary of configuration, history, and backend availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runStatus(flags overrideFlags) error {
	p, cfg, err := bootstrapConfig(flags.cliOverrides())
	if err != nil {
		return err
	}

	fmt.Printf("config file:     %s\n", p.ConfigFile)
	fmt.Printf("history db:      %s\n", historyDBPath(p, cfg))
	fmt.Printf("state dir:       %s\n", p.StateDir)
	fmt.Printf("recorder:        %s\n", recorderAvailability())

	dbPath := historyDBPath(p, cfg)
	store, err := history.Open(dbPath)
	if err != nil {
		fmt.Printf("recent runs:     unavailable (%s)\n", err)
		return nil
	}
	defer store.Close()

	fmt.Printf("recent runs:     %d\n", store.Count())
	recent := store.Recent(1)
	if len(recent) == 0 {
		fmt.Println("last run:        none")
		return nil
	}
	last := recent[0]
	fmt.Printf("last run:        %s backend=%s finished_at=%s\n", last.ID, last.Backend, last.FinishedAt.Format("2006-01-02T15:04:05Z07:00"))
	return nil
}

func recorderAvailability() string {
	have := func(name string) bool {
		_, err := exec.LookPath(name)
		return err == nil
	}
	switch {
	case have("arecord"):
		return "arecord available"
	case have("ffmpeg"):
		return "ffmpeg available (arecord missing)"
	default:
		return "unavailable: neither arecord nor ffmpeg found on PATH"
	}
}
