package main

import (
	"github.com/spf13/cobra"
)

var reopenCmd = &cobra.Command{
	Use:   "reopen [id]",
	Short: "Reopen a closed issue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		iss, err := svc.Reopen(rootCtx, args[0], actor)
		if err != nil {
			exitWithErr(err)
		}
		emit(renderIssue(rootCtx, iss))
	},
}

func init() {
	rootCmd.AddCommand(reopenCmd)
}
