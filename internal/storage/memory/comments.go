package memory

import (
	"context"
	"time"

	"github.com/steveyegge/beads/internal/types"
)

// AddComment appends a comment to an issue's history.
func (t *tx) AddComment(ctx context.Context, c *types.Comment) error {
	t.store.nextCommentID++
	c.ID = t.store.nextCommentID
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}
	cp := *c
	t.store.comments[c.IssueID] = append(t.store.comments[c.IssueID], &cp)
	return nil
}

// ListComments returns an issue's comments oldest-first.
func (t *tx) ListComments(ctx context.Context, issueID string) ([]*types.Comment, error) {
	src := t.store.comments[issueID]
	out := make([]*types.Comment, len(src))
	for i, c := range src {
		cp := *c
		out[i] = &cp
	}
	return out, nil
}
