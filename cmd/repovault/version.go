package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repovault/repovault/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		info := buildinfo.Get()
		fmt.Printf("repovault %s\n  commit: %s\n  built:  %s\n", info.Version, info.GitCommit, info.BuildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
