package main

import (
	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage an issue's comments",
}

var commentAddCmd = &cobra.Command{
	Use:   "add [id] [body]",
	Short: "Add a comment to an issue",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		author := actor
		if override, _ := cmd.Flags().GetString("author"); override != "" {
			author = override
		}
		c, err := svc.CommentAdd(rootCtx, args[0], author, args[1])
		if err != nil {
			exitWithErr(err)
		}
		emit(c)
	},
}

func init() {
	commentAddCmd.Flags().String("author", "", "Comment author (default: the resolved actor)")
	commentCmd.AddCommand(commentAddCmd)
	rootCmd.AddCommand(commentCmd)
}
