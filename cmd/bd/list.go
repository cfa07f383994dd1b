package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/steveyegge/beads/internal/types"
	"github.com/steveyegge/beads/internal/validation"
)

// buildFilter assembles a types.WorkFilter from the flags shared by list
// and search.
func buildFilter(cmd *cobra.Command) types.WorkFilter {
	var filter types.WorkFilter

	if statuses, _ := cmd.Flags().GetStringSlice("status"); len(statuses) > 0 {
		for _, s := range statuses {
			filter.Status = append(filter.Status, types.Status(s))
		}
	}
	if kinds, _ := cmd.Flags().GetStringSlice("type"); len(kinds) > 0 {
		for _, t := range kinds {
			filter.Type = append(filter.Type, types.IssueType(t))
		}
	}
	if cmd.Flags().Changed("max-priority") {
		s, _ := cmd.Flags().GetString("max-priority")
		p, err := validation.ValidatePriority(s)
		if err != nil {
			exitWithErr(err)
		}
		filter.MaxPriority = &p
	}
	filter.Assignee, _ = cmd.Flags().GetString("assignee")
	filter.Label, _ = cmd.Flags().GetString("label")
	if cmd.Flags().Changed("updated-since") {
		s, _ := cmd.Flags().GetString("updated-since")
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			exitWithErr(err)
		}
		filter.UpdatedSince = &t
	}
	filter.Limit, _ = cmd.Flags().GetInt("limit")
	return filter
}

func registerFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("status", nil, "Filter by status (repeatable; open|in_progress|blocked|closed)")
	cmd.Flags().StringSlice("type", nil, "Filter by issue type (repeatable)")
	cmd.Flags().String("max-priority", "", "Only issues at or above this priority (0-4 or P0-P4)")
	cmd.Flags().String("assignee", "", "Filter by assignee")
	cmd.Flags().String("label", "", "Filter by label")
	cmd.Flags().String("updated-since", "", "Only issues updated at or after this RFC3339 timestamp")
	cmd.Flags().Int("limit", 0, "Maximum number of results (0 = unlimited)")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List issues matching a filter",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		filter := buildFilter(cmd)
		issues, err := svc.List(rootCtx, filter)
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
	registerFilterFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}
