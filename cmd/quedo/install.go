// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quedo-dev/quedo/internal/doctor"
	"github.com/quedo-dev/quedo/internal/install"
)

func newInstallCmd() *cobra.Command {
	var flags overrideFlags

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Write the autostart entry and print a doctor report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runInstall(flags overrideFlags) error {
	p, cfg, err := bootstrapConfig(flags.cliOverrides())
	if err != nil {
		return err
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}

	if err := install.Install(p.AutostartFile, execPath); err != nil {
		return err
	}
	fmt.Printf("autostart entry written: %s\n", p.AutostartFile)

	printReport(doctor.Run(doctorInputs(p, cfg)))
	return nil
}
