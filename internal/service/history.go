package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/steveyegge/beads/internal/storage"
	"github.com/steveyegge/beads/internal/types"
)

// History returns an issue's full, immutable event log in commit order
// (Testable Property 3: exactly one event row per logical mutation).
func (s *Service) History(ctx context.Context, issueID string) ([]*types.Event, error) {
	ctx, span := s.startSpan(ctx, "History", attribute.String("issue.id", issueID))
	var err error
	defer func() { endSpan(span, err) }()

	var out []*types.Event
	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		var lerr error
		out, lerr = tx.ListEvents(ctx, issueID)
		return translateStoreErr(lerr)
	})
	return out, err
}
