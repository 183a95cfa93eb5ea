package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/resumatch/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit %s, built %s)\n",
			appName, version.Version, version.Commit, version.Date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
