package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/steveyegge/beads/internal/service"
	"github.com/steveyegge/beads/internal/validation"
)

var updateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update an issue's mutable fields",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in := service.UpdateInput{ID: args[0], Actor: actor}

		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			in.Title = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			in.Description = &v
		}
		if cmd.Flags().Changed("type") {
			v, _ := cmd.Flags().GetString("type")
			t, err := validation.ParseIssueType(v)
			if err != nil {
				exitWithErr(err)
			}
			in.Type = &t
		}
		if cmd.Flags().Changed("priority") {
			v, _ := cmd.Flags().GetString("priority")
			p, err := validation.ValidatePriority(v)
			if err != nil {
				exitWithErr(err)
			}
			in.Priority = &p
		}
		if cmd.Flags().Changed("assignee") {
			v, _ := cmd.Flags().GetString("assignee")
			in.Assignee = &v
		}
		if cmd.Flags().Changed("labels") {
			v, _ := cmd.Flags().GetStringSlice("labels")
			in.Labels = v
		}

		iss, err := svc.Update(rootCtx, in)
		if err != nil {
			if errors.Is(err, service.ErrNoChange) {
				iss, err = svc.Show(rootCtx, in.ID)
				if err != nil {
					exitWithErr(err)
				}
				emit(renderIssue(rootCtx, iss))
				return
			}
			exitWithErr(err)
		}
		emit(renderIssue(rootCtx, iss))
	},
}

func init() {
	updateCmd.Flags().String("title", "", "New title")
	updateCmd.Flags().String("description", "", "New description")
	updateCmd.Flags().String("type", "", "New issue type")
	updateCmd.Flags().String("priority", "", "New priority (0-4 or P0-P4)")
	updateCmd.Flags().String("assignee", "", "New assignee")
	updateCmd.Flags().StringSlice("labels", nil, "Replace the full label set")
	rootCmd.AddCommand(updateCmd)
}
