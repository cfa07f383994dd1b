package main

import (
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate counts across the tracker",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		stats, err := svc.Stats(rootCtx)
		if err != nil {
			exitWithErr(err)
		}
		emit(stats)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
