package main

import (
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Render the blocking subgraph as nodes and edges",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		g, err := svc.Graph(rootCtx)
		if err != nil {
			exitWithErr(err)
		}
		emit(g)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
