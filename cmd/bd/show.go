package main

import (
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a single issue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		iss, err := svc.Show(rootCtx, args[0])
		if err != nil {
			exitWithErr(err)
		}
		emit(renderIssue(rootCtx, iss))
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
