package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/steveyegge/beads/internal/service"
	"github.com/steveyegge/beads/internal/types"
)

// linkJSON is one entry of an issueJSON's links array, per spec.md §6's
// {to, type} shape.
type linkJSON struct {
	To   string         `json:"to"`
	Type types.LinkType `json:"type"`
}

// issueJSON is the stable, documented rendering of types.Issue: spec.md
// §6 fixes this field set across major versions.
type issueJSON struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Priority    int        `json:"priority"`
	Status      string     `json:"status"`
	Assignee    *string    `json:"assignee"`
	Labels      []string   `json:"labels"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ClosedAt    *time.Time `json:"closed_at"`
	CloseReason *string    `json:"close_reason"`
	Links       []linkJSON `json:"links"`
}

// renderIssue fetches iss's links and assembles the JSON view, or exits
// fatally if the link lookup fails.
func renderIssue(ctx context.Context, iss *types.Issue) issueJSON {
	links, err := svc.DepList(ctx, iss.ID)
	if err != nil {
		exitWithErr(err)
	}
	return toIssueJSON(iss, links)
}

func toIssueJSON(iss *types.Issue, links []service.LinkView) issueJSON {
	out := issueJSON{
		ID:          iss.ID,
		Title:       iss.Title,
		Description: iss.Description,
		Type:        string(iss.Type),
		Priority:    iss.Priority,
		Status:      string(iss.Status),
		Labels:      iss.Labels,
		CreatedAt:   iss.CreatedAt,
		UpdatedAt:   iss.UpdatedAt,
		ClosedAt:    iss.ClosedAt,
		Links:       make([]linkJSON, 0, len(links)),
	}
	if iss.Assignee != "" {
		a := iss.Assignee
		out.Assignee = &a
	}
	if iss.CloseReason != "" {
		r := iss.CloseReason
		out.CloseReason = &r
	}
	for _, l := range links {
		out.Links = append(out.Links, linkJSON{To: l.To, Type: l.Type})
	}
	return out
}

// emit writes v as pretty-printed JSON to stdout, or exits fatally if
// encoding fails.
func emit(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(2)
	}
}
