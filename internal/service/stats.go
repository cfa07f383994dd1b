package service

import (
	"context"

	"github.com/steveyegge/beads/internal/storage"
	"github.com/steveyegge/beads/internal/types"
)

// Stats is a point-in-time summary of the issue graph, covering the
// counts a dashboard or agent status line typically wants.
type Stats struct {
	Total       int
	ByStatus    map[types.Status]int
	ByType      map[types.IssueType]int
	ReadyCount  int
	OrphanCount int
}

// Stats computes an aggregate snapshot of the tracker's current state.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	ctx, span := s.startSpan(ctx, "Stats")
	var err error
	defer func() { endSpan(span, err) }()

	out := &Stats{ByStatus: map[types.Status]int{}, ByType: map[types.IssueType]int{}}
	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		issues, lerr := tx.ListIssues(ctx, types.WorkFilter{})
		if lerr != nil {
			return translateStoreErr(lerr)
		}
		out.Total = len(issues)
		for _, iss := range issues {
			out.ByStatus[iss.Status]++
			out.ByType[iss.Type]++
		}

		engine, eerr := s.buildEngine(ctx, tx)
		if eerr != nil {
			return eerr
		}
		out.ReadyCount = len(engine.ReadySet())
		out.OrphanCount = len(engine.Orphans())
		return nil
	})
	return out, err
}
