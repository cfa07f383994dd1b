package main

import (
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show an issue's full audit event log",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		events, err := svc.History(rootCtx, args[0])
		if err != nil {
			exitWithErr(err)
		}
		emit(events)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
