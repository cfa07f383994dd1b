package sqlite

import (
	"context"
	"time"

	"github.com/steveyegge/beads/internal/types"
)

// AddComment appends a comment to an issue's history.
func (t *tx) AddComment(ctx context.Context, c *types.Comment) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	ts := c.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := t.conn.ExecContext(ctx, `
		INSERT INTO comments (issue_id, author, body, created_at) VALUES (?, ?, ?, ?)
	`, c.IssueID, c.Author, c.Body, ts.UTC().Format(sqliteTimeLayout))
	if err != nil {
		return wrapDBErrorf(err, "add comment to %s", c.IssueID)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return wrapDBErrorf(err, "add comment to %s: last insert id", c.IssueID)
	}
	c.ID = id
	c.Timestamp = ts
	return nil
}

// ListComments returns an issue's comments oldest-first.
func (t *tx) ListComments(ctx context.Context, issueID string) ([]*types.Comment, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}
	rows, err := t.conn.QueryContext(ctx, `
		SELECT id, issue_id, author, body, created_at FROM comments
		WHERE issue_id = ? ORDER BY created_at ASC, id ASC
	`, issueID)
	if err != nil {
		return nil, wrapDBErrorf(err, "list comments for %s", issueID)
	}
	defer rows.Close()

	var comments []*types.Comment
	for rows.Next() {
		c := &types.Comment{}
		var created string
		if err := rows.Scan(&c.ID, &c.IssueID, &c.Author, &c.Body, &created); err != nil {
			return nil, wrapDBErrorf(err, "scan comment for %s", issueID)
		}
		c.Timestamp = parseTimeString(created)
		comments = append(comments, c)
	}
	return comments, wrapDBErrorf(rows.Err(), "iterate comments for %s", issueID)
}
