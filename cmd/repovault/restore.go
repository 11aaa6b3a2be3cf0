package main

import (
	"github.com/spf13/cobra"

	"github.com/repovault/repovault/orchestrator"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the configured entities from the snapshot store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, orchestrator.OperationRestore)
	},
}

func init() {
	addRunFlags(restoreCmd)
	rootCmd.AddCommand(restoreCmd)
}
