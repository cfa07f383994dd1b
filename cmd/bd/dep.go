package main

import (
	"github.com/spf13/cobra"

	"github.com/steveyegge/beads/internal/types"
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Manage dependency links between issues",
}

var depAddCmd = &cobra.Command{
	Use:   "add [from] [to] [type]",
	Short: "Add a link between two issues",
	Args:  cobra.RangeArgs(2, 3),
	Run: func(cmd *cobra.Command, args []string) {
		typ := types.LinkBlocks
		if len(args) == 3 {
			typ = types.LinkType(args[2])
		}
		if err := svc.DepAdd(rootCtx, args[0], args[1], typ, actor); err != nil {
			exitWithErr(err)
		}
		iss, err := svc.Show(rootCtx, args[0])
		if err != nil {
			exitWithErr(err)
		}
		emit(renderIssue(rootCtx, iss))
	},
}

var depRemoveCmd = &cobra.Command{
	Use:   "remove [from] [to] [type]",
	Short: "Remove a link between two issues",
	Args:  cobra.RangeArgs(2, 3),
	Run: func(cmd *cobra.Command, args []string) {
		typ := types.LinkBlocks
		if len(args) == 3 {
			typ = types.LinkType(args[2])
		}
		if err := svc.DepRemove(rootCtx, args[0], args[1], typ, actor); err != nil {
			exitWithErr(err)
		}
		iss, err := svc.Show(rootCtx, args[0])
		if err != nil {
			exitWithErr(err)
		}
		emit(renderIssue(rootCtx, iss))
	},
}

var depListCmd = &cobra.Command{
	Use:   "list [id]",
	Short: "List an issue's links, from its point of view",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		links, err := svc.DepList(rootCtx, args[0])
		if err != nil {
			exitWithErr(err)
		}
		out := make([]linkJSON, 0, len(links))
		for _, l := range links {
			out = append(out, linkJSON{To: l.To, Type: l.Type})
		}
		emit(out)
	},
}

func init() {
	depCmd.AddCommand(depAddCmd, depRemoveCmd, depListCmd)
	rootCmd.AddCommand(depCmd)
}
