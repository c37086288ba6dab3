// Package cli wires the configuration, logger and reporter into a pipeline
// run behind a Cobra command.
package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "uncoupledetl",
		Short: "uncoupledetl - fetch a character and the Kanto Pokédex into a database",
		Long: `uncoupledetl extracts one character profile and the first 151 Pokémon
from public HTTP APIs, validates them and replaces the "pokemon" table of the
configured target. Configuration comes from the environment (.env is read
when present); there are no flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context())
		},
	}

	rootCmd.AddCommand(newCheckCmd())

	return rootCmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and print the sources and target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout())
		},
	}
}
