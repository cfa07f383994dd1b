package sqlite

import (
	"context"
	"time"

	"github.com/steveyegge/beads/internal/types"
)

// AppendEvent writes one immutable audit record.
func (t *tx) AppendEvent(ctx context.Context, e *types.Event) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := t.conn.ExecContext(ctx, `
		INSERT INTO events (issue_id, kind, field, before, after, actor, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.IssueID, string(e.Kind), e.Field, e.Before, e.After, e.Actor, ts.UTC().Format(sqliteTimeLayout))
	if err != nil {
		return wrapDBErrorf(err, "append event for %s", e.IssueID)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return wrapDBErrorf(err, "append event for %s: last insert id", e.IssueID)
	}
	e.ID = id
	e.Timestamp = ts
	return nil
}

// ListEvents returns an issue's event history oldest-first.
func (t *tx) ListEvents(ctx context.Context, issueID string) ([]*types.Event, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}
	rows, err := t.conn.QueryContext(ctx, `
		SELECT id, issue_id, kind, field, before, after, actor, created_at FROM events
		WHERE issue_id = ? ORDER BY created_at ASC, id ASC
	`, issueID)
	if err != nil {
		return nil, wrapDBErrorf(err, "list events for %s", issueID)
	}
	defer rows.Close()

	var events []*types.Event
	for rows.Next() {
		e := &types.Event{}
		var kind, created string
		if err := rows.Scan(&e.ID, &e.IssueID, &kind, &e.Field, &e.Before, &e.After, &e.Actor, &created); err != nil {
			return nil, wrapDBErrorf(err, "scan event for %s", issueID)
		}
		e.Kind = types.EventKind(kind)
		e.Timestamp = parseTimeString(created)
		events = append(events, e)
	}
	return events, wrapDBErrorf(rows.Err(), "iterate events for %s", issueID)
}
