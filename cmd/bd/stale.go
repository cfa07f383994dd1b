package main

import (
	"github.com/spf13/cobra"
)

var staleCmd = &cobra.Command{
	Use:   "stale",
	Short: "List open or in-progress issues untouched for longer than a horizon",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		horizon, _ := cmd.Flags().GetDuration("horizon")
		issues, err := svc.Stale(rootCtx, horizon)
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
	staleCmd.Flags().Duration("horizon", 0, "Staleness horizon (default: graph.DefaultStaleHorizon, 30 days)")
	rootCmd.AddCommand(staleCmd)
}
