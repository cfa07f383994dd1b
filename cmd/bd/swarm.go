package main

import (
	"github.com/spf13/cobra"
)

var swarmCmd = &cobra.Command{
	Use:   "swarm",
	Short: "List non-closed issues layered by blocking-predecessor depth",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		layers, err := svc.Swarm(rootCtx)
		if err != nil {
			exitWithErr(err)
		}
		out := make([][]issueJSON, 0, len(layers))
		for _, layer := range layers {
			rendered := make([]issueJSON, 0, len(layer))
			for _, iss := range layer {
				rendered = append(rendered, renderIssue(rootCtx, iss))
			}
			out = append(out, rendered)
		}
		emit(out)
	},
}

func init() {
	rootCmd.AddCommand(swarmCmd)
}
