package memory

import (
	"context"
	"time"

	"github.com/steveyegge/beads/internal/types"
)

// AppendEvent writes one immutable audit record.
func (t *tx) AppendEvent(ctx context.Context, e *types.Event) error {
	t.store.nextEventID++
	e.ID = t.store.nextEventID
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	cp := *e
	t.store.events[e.IssueID] = append(t.store.events[e.IssueID], &cp)
	return nil
}

// ListEvents returns an issue's event history oldest-first.
func (t *tx) ListEvents(ctx context.Context, issueID string) ([]*types.Event, error) {
	src := t.store.events[issueID]
	out := make([]*types.Event, len(src))
	for i, e := range src {
		cp := *e
		out[i] = &cp
	}
	return out, nil
}
