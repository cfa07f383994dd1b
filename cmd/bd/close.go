package main

import (
	"github.com/spf13/cobra"
)

var closeCmd = &cobra.Command{
	Use:   "close [id] [reason]",
	Short: "Close an issue with a reason",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		iss, err := svc.Close(rootCtx, args[0], args[1], actor)
		if err != nil {
			exitWithErr(err)
		}
		emit(renderIssue(rootCtx, iss))
	},
}

func init() {
	rootCmd.AddCommand(closeCmd)
}
