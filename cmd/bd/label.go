package main

import (
	"github.com/spf13/cobra"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Manage an issue's labels",
}

var labelAddCmd = &cobra.Command{
	Use:   "add [id] [label]",
	Short: "Add a label to an issue",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		iss, err := svc.LabelAdd(rootCtx, args[0], args[1], actor)
		if err != nil {
			exitWithErr(err)
		}
		emit(renderIssue(rootCtx, iss))
	},
}

var labelRemoveCmd = &cobra.Command{
	Use:   "remove [id] [label]",
	Short: "Remove a label from an issue",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		iss, err := svc.LabelRemove(rootCtx, args[0], args[1], actor)
		if err != nil {
			exitWithErr(err)
		}
		emit(renderIssue(rootCtx, iss))
	},
}

func init() {
	labelCmd.AddCommand(labelAddCmd, labelRemoveCmd)
	rootCmd.AddCommand(labelCmd)
}
