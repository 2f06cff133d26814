// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quedo-dev/quedo/internal/config"
	"github.com/quedo-dev/quedo/internal/doctor"
)

func newDoctorCmd() *cobra.Command {
	var flags overrideFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run preflight checks and print a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(flags.cliOverrides(), asJSON)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}

func runDoctor(cli config.CliOverrides, asJSON bool) error {
	p, cfg, err := bootstrapConfig(cli)
	if err != nil {
		return err
	}

	report := doctor.Run(doctorInputs(p, cfg))

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(report)
	return nil
}

// printReport renders a doctor.Report as the `quedo doctor` table: state
// rollup first, then one row per check with its required flag and, for
// anything short of ok, a remediation line underneath.
func printReport(report doctor.Report) {
	fmt.Printf("doctor state: %s\n\n", report.State)
	fmt.Printf("%-20s %-5s %-8s %s\n", "CHECK", "STATUS", "REQUIRED", "DETAIL")
	for _, c := range report.Checks {
		required := "no"
		if c.Required {
			required = "yes"
		}
		fmt.Printf("%-20s %-5s %-8s %s\n", c.Name, c.Status, required, c.Detail)
		if c.Remediation != "" {
			fmt.Printf("  remediation: %s\n", c.Remediation)
		}
	}
}
