package main

import (
	"github.com/spf13/cobra"
)

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List open or in-progress issues with no links in either direction",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		issues, err := svc.Orphans(rootCtx)
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
	rootCmd.AddCommand(orphansCmd)
}
