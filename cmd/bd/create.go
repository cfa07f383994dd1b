package main

import (
	"github.com/spf13/cobra"

	"github.com/steveyegge/beads/internal/service"
	"github.com/steveyegge/beads/internal/validation"
)

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new issue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		priorityStr, _ := cmd.Flags().GetString("priority")
		priority, err := validation.ValidatePriority(priorityStr)
		if err != nil {
			exitWithErr(err)
		}
		typeStr, _ := cmd.Flags().GetString("type")
		issueType, err := validation.ParseIssueType(typeStr)
		if err != nil {
			exitWithErr(err)
		}
		description, _ := cmd.Flags().GetString("description")
		assignee, _ := cmd.Flags().GetString("assignee")
		labels, _ := cmd.Flags().GetStringSlice("labels")

		iss, err := svc.Create(rootCtx, service.CreateInput{
			Title:       args[0],
			Description: description,
			Type:        issueType,
			Priority:    priority,
			Assignee:    assignee,
			Labels:      labels,
			Actor:       actor,
		})
		if err != nil {
			exitWithErr(err)
		}
		emit(renderIssue(rootCtx, iss))
	},
}

func init() {
	createCmd.Flags().StringP("priority", "p", "2", "Priority (0-4 or P0-P4)")
	createCmd.Flags().StringP("type", "t", "task", "Issue type (bug|feature|task|epic|chore|spike|doc)")
	createCmd.Flags().StringP("description", "d", "", "Issue description")
	createCmd.Flags().String("assignee", "", "Assignee")
	createCmd.Flags().StringSliceP("labels", "l", nil, "Labels (comma-separated)")
	rootCmd.AddCommand(createCmd)
}
