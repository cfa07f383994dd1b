package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/steveyegge/beads/internal/storage"
	"github.com/steveyegge/beads/internal/types"
)

// CreateIssue inserts a brand-new issue row.
func (t *tx) CreateIssue(ctx context.Context, issue *types.Issue) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	_, err := t.conn.ExecContext(ctx, `
		INSERT INTO issues (
			id, content_hash, title, description, issue_type, priority, status,
			assignee, close_reason, created_at, updated_at, closed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		issue.ID, issue.ContentHash, issue.Title, issue.Description, issue.Type,
		issue.Priority, issue.Status, issue.Assignee, issue.CloseReason,
		issue.CreatedAt.UTC().Format(sqliteTimeLayout), issue.UpdatedAt.UTC().Format(sqliteTimeLayout),
		formatNullableTime(issue.ClosedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create issue %s: %w", issue.ID, storage.ErrAlreadyExists)
		}
		return wrapBusy(wrapDBErrorf(err, "create issue %s", issue.ID))
	}
	if err := t.replaceLabels(ctx, issue.ID, issue.Labels); err != nil {
		return err
	}
	return nil
}

// UpdateIssue overwrites an existing issue's mutable fields.
func (t *tx) UpdateIssue(ctx context.Context, issue *types.Issue) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	res, err := t.conn.ExecContext(ctx, `
		UPDATE issues SET
			content_hash = ?, title = ?, description = ?, issue_type = ?, priority = ?,
			status = ?, assignee = ?, close_reason = ?, updated_at = ?, closed_at = ?
		WHERE id = ?
	`,
		issue.ContentHash, issue.Title, issue.Description, issue.Type, issue.Priority,
		issue.Status, issue.Assignee, issue.CloseReason,
		issue.UpdatedAt.UTC().Format(sqliteTimeLayout), formatNullableTime(issue.ClosedAt),
		issue.ID,
	)
	if err != nil {
		return wrapBusy(wrapDBErrorf(err, "update issue %s", issue.ID))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBErrorf(err, "update issue %s: rows affected", issue.ID)
	}
	if n == 0 {
		return fmt.Errorf("update issue %s: %w", issue.ID, storage.ErrNotFound)
	}
	return t.replaceLabels(ctx, issue.ID, issue.Labels)
}

// GetIssue fetches a single issue with its labels.
func (t *tx) GetIssue(ctx context.Context, id string) (*types.Issue, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}
	issue := &types.Issue{}
	var created, updated string
	var closed sql.NullString
	err := t.conn.QueryRowContext(ctx, `
		SELECT id, content_hash, title, description, issue_type, priority, status,
		       assignee, close_reason, created_at, updated_at, closed_at
		FROM issues WHERE id = ?
	`, id).Scan(
		&issue.ID, &issue.ContentHash, &issue.Title, &issue.Description, &issue.Type,
		&issue.Priority, &issue.Status, &issue.Assignee, &issue.CloseReason,
		&created, &updated, &closed,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get issue %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, wrapDBErrorf(err, "get issue %s", id)
	}
	issue.CreatedAt = parseTimeString(created)
	issue.UpdatedAt = parseTimeString(updated)
	issue.ClosedAt = parseNullableTimeString(closed)

	labels, err := t.labelsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	issue.Labels = labels
	return issue, nil
}

// IssueExists reports whether id is already taken.
func (t *tx) IssueExists(ctx context.Context, id string) (bool, error) {
	if err := t.checkOpen(); err != nil {
		return false, err
	}
	var exists bool
	err := t.conn.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM issues WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, wrapDBErrorf(err, "check issue existence %s", id)
	}
	return exists, nil
}

// ListIssues returns every issue matching filter's conjunction of
// predicates. Ordering is left to the caller (types.ReadySort).
func (t *tx) ListIssues(ctx context.Context, filter types.WorkFilter) ([]*types.Issue, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}
	query, args := buildListQuery(filter)
	rows, err := t.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("list issues", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, wrapDBError("scan list issues", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("iterate list issues", err)
	}

	issues := make([]*types.Issue, 0, len(ids))
	for _, id := range ids {
		issue, err := t.GetIssue(ctx, id)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

func buildListQuery(filter types.WorkFilter) (string, []any) {
	query := `SELECT DISTINCT i.id FROM issues i`
	var conds []string
	var args []any

	if filter.Label != "" {
		query += ` JOIN labels l ON l.issue_id = i.id`
		conds = append(conds, `l.label = ?`)
		args = append(args, filter.Label)
	}
	if len(filter.Status) > 0 {
		ph := placeholders(len(filter.Status))
		conds = append(conds, fmt.Sprintf(`i.status IN (%s)`, ph))
		for _, s := range filter.Status {
			args = append(args, string(s))
		}
	}
	if len(filter.Type) > 0 {
		ph := placeholders(len(filter.Type))
		conds = append(conds, fmt.Sprintf(`i.issue_type IN (%s)`, ph))
		for _, typ := range filter.Type {
			args = append(args, string(typ))
		}
	}
	if filter.MaxPriority != nil {
		conds = append(conds, `i.priority <= ?`)
		args = append(args, *filter.MaxPriority)
	}
	if filter.Assignee != "" {
		conds = append(conds, `i.assignee = ?`)
		args = append(args, filter.Assignee)
	}
	if filter.UpdatedSince != nil {
		conds = append(conds, `i.updated_at >= ?`)
		args = append(args, filter.UpdatedSince.UTC().Format(sqliteTimeLayout))
	}
	if filter.TextMatch != "" {
		conds = append(conds, `(i.title LIKE ? OR i.description LIKE ?)`)
		needle := "%" + filter.TextMatch + "%"
		args = append(args, needle, needle)
	}

	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	return query, args
}

func placeholders(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			s += ","
		}
		s += "?"
	}
	return s
}

func (t *tx) replaceLabels(ctx context.Context, issueID string, labels []string) error {
	if _, err := t.conn.ExecContext(ctx, `DELETE FROM labels WHERE issue_id = ?`, issueID); err != nil {
		return wrapDBErrorf(err, "clear labels for %s", issueID)
	}
	for _, l := range labels {
		if _, err := t.conn.ExecContext(ctx, `INSERT INTO labels (issue_id, label) VALUES (?, ?)`, issueID, l); err != nil {
			return wrapDBErrorf(err, "insert label %s for %s", l, issueID)
		}
	}
	return nil
}

func (t *tx) labelsFor(ctx context.Context, issueID string) ([]string, error) {
	rows, err := t.conn.QueryContext(ctx, `SELECT label FROM labels WHERE issue_id = ? ORDER BY label`, issueID)
	if err != nil {
		return nil, wrapDBErrorf(err, "labels for %s", issueID)
	}
	defer rows.Close()
	var labels []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, wrapDBErrorf(err, "scan label for %s", issueID)
		}
		labels = append(labels, l)
	}
	return labels, wrapDBErrorf(rows.Err(), "iterate labels for %s", issueID)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "constraint failed: UNIQUE")
}
