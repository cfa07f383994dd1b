package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/steveyegge/beads/internal/graph"
	"github.com/steveyegge/beads/internal/storage"
	"github.com/steveyegge/beads/internal/types"
)

// Ready returns the current ready set (spec.md §4.4), sorted by
// types.ReadySort's tiebreak, as full Issue records.
func (s *Service) Ready(ctx context.Context) ([]*types.Issue, error) {
	ctx, span := s.startSpan(ctx, "Ready")
	var err error
	defer func() { endSpan(span, err) }()

	var out []*types.Issue
	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		engine, eerr := s.buildEngine(ctx, tx)
		if eerr != nil {
			return eerr
		}
		for _, n := range engine.ReadySet() {
			iss, gerr := tx.GetIssue(ctx, n.ID)
			if gerr != nil {
				return translateStoreErr(gerr)
			}
			out = append(out, iss)
		}
		return nil
	})
	return out, err
}

// Swarm returns the topological layering of every non-closed issue, each
// layer as full Issue records in ready-sort order.
func (s *Service) Swarm(ctx context.Context) ([][]*types.Issue, error) {
	ctx, span := s.startSpan(ctx, "Swarm")
	var err error
	defer func() { endSpan(span, err) }()

	var out [][]*types.Issue
	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		engine, eerr := s.buildEngine(ctx, tx)
		if eerr != nil {
			return eerr
		}
		layers, serr := engine.Swarm()
		if serr != nil {
			return wrapGraphErr(serr)
		}
		for _, layer := range layers {
			var issues []*types.Issue
			for _, n := range layer {
				iss, gerr := tx.GetIssue(ctx, n.ID)
				if gerr != nil {
					return translateStoreErr(gerr)
				}
				issues = append(issues, iss)
			}
			out = append(out, issues)
		}
		return nil
	})
	return out, err
}

// Graph renders the blocking subgraph as pure node/edge data for an
// external renderer (ASCII/DOT/JSON).
func (s *Service) Graph(ctx context.Context) (graph.RenderGraph, error) {
	ctx, span := s.startSpan(ctx, "Graph")
	var err error
	defer func() { endSpan(span, err) }()

	var out graph.RenderGraph
	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		engine, eerr := s.buildEngine(ctx, tx)
		if eerr != nil {
			return eerr
		}
		out = engine.Render()
		return nil
	})
	return out, err
}

// Orphans returns open/in_progress issues with no links in either direction.
func (s *Service) Orphans(ctx context.Context) ([]*types.Issue, error) {
	ctx, span := s.startSpan(ctx, "Orphans")
	var err error
	defer func() { endSpan(span, err) }()

	var out []*types.Issue
	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		engine, eerr := s.buildEngine(ctx, tx)
		if eerr != nil {
			return eerr
		}
		for _, n := range engine.Orphans() {
			iss, gerr := tx.GetIssue(ctx, n.ID)
			if gerr != nil {
				return translateStoreErr(gerr)
			}
			out = append(out, iss)
		}
		return nil
	})
	return out, err
}

// Stale returns open/in_progress issues whose updated_at precedes
// now-horizon, oldest first. A zero horizon applies graph.DefaultStaleHorizon
// (30 days).
func (s *Service) Stale(ctx context.Context, horizon time.Duration) ([]*types.Issue, error) {
	ctx, span := s.startSpan(ctx, "Stale", attribute.String("horizon", horizon.String()))
	var err error
	defer func() { endSpan(span, err) }()

	var out []*types.Issue
	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		engine, eerr := s.buildEngine(ctx, tx)
		if eerr != nil {
			return eerr
		}
		for _, n := range engine.Stale(s.clock.Now(), horizon) {
			iss, gerr := tx.GetIssue(ctx, n.ID)
			if gerr != nil {
				return translateStoreErr(gerr)
			}
			out = append(out, iss)
		}
		return nil
	})
	return out, err
}

// Ancestors returns the transitive blocking-predecessor closure of id.
func (s *Service) Ancestors(ctx context.Context, id string) ([]string, error) {
	return s.closure(ctx, id, func(e *graph.Engine, id string) []string { return e.Ancestors(id) })
}

// Descendants returns the transitive blocking-successor closure of id.
func (s *Service) Descendants(ctx context.Context, id string) ([]string, error) {
	return s.closure(ctx, id, func(e *graph.Engine, id string) []string { return e.Descendants(id) })
}

func (s *Service) closure(ctx context.Context, id string, fn func(*graph.Engine, string) []string) ([]string, error) {
	ctx, span := s.startSpan(ctx, "closure", attribute.String("issue.id", id))
	var err error
	defer func() { endSpan(span, err) }()

	var out []string
	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		engine, eerr := s.buildEngine(ctx, tx)
		if eerr != nil {
			return eerr
		}
		out = fn(engine, id)
		return nil
	})
	return out, err
}
