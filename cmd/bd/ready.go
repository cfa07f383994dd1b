package main

import (
	"github.com/spf13/cobra"
)

var readyCmd = &cobra.Command{
	Use:   "ready",
	Short: "List issues with no open blocking predecessor",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		issues, err := svc.Ready(rootCtx)
		if err != nil {
			exitWithErr(err)
		}
		out := make([]issueJSON, 0, len(issues))
		for _, iss := range issues {
			out = append(out, renderIssue(rootCtx, iss))
		}
		emit(out)
	},
}

func init() {
	rootCmd.AddCommand(readyCmd)
}
