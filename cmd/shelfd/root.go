// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Shelfd CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelfd",
		Short: "Shelfd - a library lending backend",
		Long: `Shelfd manages a library catalog of authors and literature items
and the loan lifecycle that lends them out: issuing, returning, and
auditing transactions over a JSON HTTP API.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}
