package cmd

import (
	"github.com/spf13/cobra"

	"telreport/logger"
)

var quiet bool

var RootCmd = &cobra.Command{
	Use:   "validator-telemetry-report",
	Short: "A tool for reporting validator telemetry status",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			logger.SetConsoleEnabled(false)
		}
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log to files only, keep stdout for the report output")
}
