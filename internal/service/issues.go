package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/steveyegge/beads/internal/idgen"
	"github.com/steveyegge/beads/internal/storage"
	"github.com/steveyegge/beads/internal/types"
	"github.com/steveyegge/beads/internal/validation"
)

// CreateInput is the caller-supplied subset of Issue fields Create accepts;
// id, timestamps and content hash are computed by Service.
type CreateInput struct {
	Title       string
	Description string
	Type        types.IssueType
	Priority    int
	Assignee    string
	Labels      []string
	Actor       string
}

// Create validates input, mints a fresh id, persists the issue and appends
// one "created" event, per spec.md §4.5's transactional pattern.
func (s *Service) Create(ctx context.Context, in CreateInput) (*types.Issue, error) {
	ctx, span := s.startSpan(ctx, "Create", attribute.String("issue.title", in.Title))
	var err error
	defer func() { endSpan(span, err) }()

	sort.Strings(in.Labels)
	now := s.clock.Now()
	candidate := &types.Issue{
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Priority:    in.Priority,
		Status:      types.StatusOpen,
		Assignee:    in.Assignee,
		Labels:      in.Labels,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if verr := validation.ValidateIssue(candidate); verr != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidField, verr)
		return nil, err
	}

	actor := in.Actor
	if actor == "" {
		actor = s.actor
	}

	var out *types.Issue
	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		id, mintErr := idgen.Mint(s.idPrefix, in.Title, now, func(id string) (bool, error) {
			return tx.IssueExists(ctx, id)
		})
		if mintErr != nil {
			if errors.Is(mintErr, idgen.ErrExhausted) {
				return fmt.Errorf("%w: %v", ErrIdExhaustion, mintErr)
			}
			return fmt.Errorf("%w: %v", ErrInvariant, mintErr)
		}
		candidate.ID = id
		candidate.ContentHash = types.ComputeContentHash(candidate.Title, candidate.Description, candidate.Type, candidate.Priority, candidate.Assignee, candidate.Labels)

		if werr := tx.CreateIssue(ctx, candidate); werr != nil {
			return translateStoreErr(werr)
		}
		if eerr := tx.AppendEvent(ctx, &types.Event{
			IssueID:   candidate.ID,
			Kind:      types.EventCreated,
			After:     string(candidate.Status),
			Timestamp: now,
			Actor:     actor,
		}); eerr != nil {
			return translateStoreErr(eerr)
		}
		out = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateInput carries the mutable fields Update may change. Nil/zero
// fields are left unchanged except Labels, which — when non-nil —
// replaces the full label set.
type UpdateInput struct {
	ID          string
	Title       *string
	Description *string
	Type        *types.IssueType
	Priority    *int
	Assignee    *string
	Labels      []string
	Actor       string
}

// Update applies a partial field update, recomputes ContentHash, and
// short-circuits to ErrNoChange (Testable Property 9) when the resulting
// issue is byte-identical to what's stored.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*types.Issue, error) {
	ctx, span := s.startSpan(ctx, "Update", attribute.String("issue.id", in.ID))
	var err error
	defer func() { endSpan(span, err) }()

	actor := in.Actor
	if actor == "" {
		actor = s.actor
	}

	var out *types.Issue
	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		existing, gerr := tx.GetIssue(ctx, in.ID)
		if gerr != nil {
			return translateStoreErr(gerr)
		}

		next := *existing
		if in.Title != nil {
			next.Title = *in.Title
		}
		if in.Description != nil {
			next.Description = *in.Description
		}
		if in.Type != nil {
			next.Type = *in.Type
		}
		if in.Priority != nil {
			next.Priority = *in.Priority
		}
		if in.Assignee != nil {
			next.Assignee = *in.Assignee
		}
		if in.Labels != nil {
			labels := append([]string(nil), in.Labels...)
			sort.Strings(labels)
			next.Labels = labels
		}

		if verr := validation.ValidateIssue(&next); verr != nil {
			return fmt.Errorf("%w: %v", ErrInvalidField, verr)
		}

		next.ContentHash = types.ComputeContentHash(next.Title, next.Description, next.Type, next.Priority, next.Assignee, next.Labels)
		if next.ContentHash == existing.ContentHash {
			return ErrNoChange
		}

		now := s.clock.Now()
		next.UpdatedAt = now

		if werr := tx.UpdateIssue(ctx, &next); werr != nil {
			return translateStoreErr(werr)
		}

		events, lerr := tx.ListEvents(ctx, in.ID)
		if lerr != nil {
			return translateStoreErr(lerr)
		}
		ts := nextEventTime(now, events)
		if eerr := tx.AppendEvent(ctx, &types.Event{
			IssueID: in.ID, Kind: types.EventFieldChange,
			Before: existing.ContentHash, After: next.ContentHash,
			Timestamp: ts, Actor: actor,
		}); eerr != nil {
			return translateStoreErr(eerr)
		}
		out = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// transition moves id to target status, validating the edge, stamping
// closed_at/clearing it as appropriate, and emitting a status_change
// event. Shared by Close and Reopen.
func (s *Service) transition(ctx context.Context, id string, target types.Status, closeReason, actor string) (*types.Issue, error) {
	if actor == "" {
		actor = s.actor
	}

	var out *types.Issue
	err := s.store.WithTx(ctx, func(tx storage.Tx) error {
		existing, gerr := tx.GetIssue(ctx, id)
		if gerr != nil {
			return translateStoreErr(gerr)
		}
		if existing.Status == target {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, target)
		}
		if verr := validation.ValidateTransition(existing.Status, target); verr != nil {
			if errors.Is(verr, validation.ErrInvalidTransition) {
				return fmt.Errorf("%w: %v", ErrInvalidTransition, verr)
			}
			return fmt.Errorf("%w: %v", ErrInvalidField, verr)
		}
		if target == types.StatusClosed {
			if verr := validation.ValidateClose(closeReason); verr != nil {
				return fmt.Errorf("%w: %v", ErrInvalidField, verr)
			}
		}

		now := s.clock.Now()
		next := *existing
		next.Status = target
		next.UpdatedAt = now
		if target == types.StatusClosed {
			next.CloseReason = closeReason
			next.ClosedAt = &now
		} else if existing.Status == types.StatusClosed {
			next.CloseReason = ""
			next.ClosedAt = nil
		}

		if werr := tx.UpdateIssue(ctx, &next); werr != nil {
			return translateStoreErr(werr)
		}

		events, lerr := tx.ListEvents(ctx, id)
		if lerr != nil {
			return translateStoreErr(lerr)
		}
		ts := nextEventTime(now, events)
		if eerr := tx.AppendEvent(ctx, &types.Event{
			IssueID: id, Kind: types.EventStatusChange,
			Field: "status", Before: string(existing.Status), After: string(target),
			Timestamp: ts, Actor: actor,
		}); eerr != nil {
			return translateStoreErr(eerr)
		}
		if existing.Status == types.StatusClosed && target != types.StatusClosed && existing.ClosedAt != nil {
			// S5: reopening emits a second event clearing closed_at, timestamped
			// strictly after the status_change event just appended above.
			if eerr := tx.AppendEvent(ctx, &types.Event{
				IssueID: id, Kind: types.EventFieldChange,
				Field: "closed_at", Before: existing.ClosedAt.Format(time.RFC3339Nano), After: "",
				Timestamp: ts.Add(time.Millisecond), Actor: actor,
			}); eerr != nil {
				return translateStoreErr(eerr)
			}
		}
		out = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close transitions id to closed with reason, per spec.md §4.3/§8 S5.
func (s *Service) Close(ctx context.Context, id, reason, actor string) (*types.Issue, error) {
	ctx, span := s.startSpan(ctx, "Close", attribute.String("issue.id", id))
	out, err := s.transition(ctx, id, types.StatusClosed, reason, actor)
	endSpan(span, err)
	return out, err
}

// Reopen transitions a closed issue back to open, clearing closed_at
// (Testable Property / scenario S5).
func (s *Service) Reopen(ctx context.Context, id, actor string) (*types.Issue, error) {
	ctx, span := s.startSpan(ctx, "Reopen", attribute.String("issue.id", id))
	out, err := s.transition(ctx, id, types.StatusOpen, "", actor)
	endSpan(span, err)
	return out, err
}

// Show fetches a single issue by id.
func (s *Service) Show(ctx context.Context, id string) (*types.Issue, error) {
	ctx, span := s.startSpan(ctx, "Show", attribute.String("issue.id", id))
	var err error
	defer func() { endSpan(span, err) }()

	var out *types.Issue
	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		var gerr error
		out, gerr = tx.GetIssue(ctx, id)
		return translateStoreErr(gerr)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List returns issues matching filter, unordered beyond the Store's
// native scan order — callers that want ready-sort should use Ready.
func (s *Service) List(ctx context.Context, filter types.WorkFilter) ([]*types.Issue, error) {
	ctx, span := s.startSpan(ctx, "List")
	var err error
	defer func() { endSpan(span, err) }()

	var out []*types.Issue
	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		var lerr error
		out, lerr = tx.ListIssues(ctx, filter)
		return translateStoreErr(lerr)
	})
	return out, err
}

// Search is List with a text-match filter populated, returning issues
// whose title or description contains query (case-insensitive).
func (s *Service) Search(ctx context.Context, query string, filter types.WorkFilter) ([]*types.Issue, error) {
	filter.TextMatch = query
	return s.List(ctx, filter)
}
