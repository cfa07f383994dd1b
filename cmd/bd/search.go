package main

import (
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search issues by title/description text, with the same filters as list",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filter := buildFilter(cmd)
		issues, err := svc.Search(rootCtx, args[0], filter)
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
	registerFilterFlags(searchCmd)
	rootCmd.AddCommand(searchCmd)
}
