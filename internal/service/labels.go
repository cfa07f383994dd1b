package service

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"

	"github.com/steveyegge/beads/internal/storage"
	"github.com/steveyegge/beads/internal/types"
	"github.com/steveyegge/beads/internal/validation"
)

// LabelAdd adds label to issue id's label set and emits a label_added
// event. If the label is already present nothing is written and
// ErrNoChange is returned.
func (s *Service) LabelAdd(ctx context.Context, id, label, actor string) (*types.Issue, error) {
	return s.editLabels(ctx, "LabelAdd", id, label, actor, types.EventLabelAdded, func(set map[string]bool) { set[label] = true })
}

// LabelRemove removes label from issue id's label set and emits a
// label_removed event. If the label is absent nothing is written and
// ErrNoChange is returned.
func (s *Service) LabelRemove(ctx context.Context, id, label, actor string) (*types.Issue, error) {
	return s.editLabels(ctx, "LabelRemove", id, label, actor, types.EventLabelRemoved, func(set map[string]bool) { delete(set, label) })
}

func (s *Service) editLabels(ctx context.Context, op, id, label, actor string, kind types.EventKind, mutate func(map[string]bool)) (*types.Issue, error) {
	ctx, span := s.startSpan(ctx, op, attribute.String("issue.id", id), attribute.String("label", label))
	var err error
	defer func() { endSpan(span, err) }()

	if verr := validation.ValidateLabel(label); verr != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidField, verr)
		return nil, err
	}
	if actor == "" {
		actor = s.actor
	}

	var out *types.Issue
	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		existing, gerr := tx.GetIssue(ctx, id)
		if gerr != nil {
			return translateStoreErr(gerr)
		}
		set := make(map[string]bool, len(existing.Labels))
		for _, l := range existing.Labels {
			set[l] = true
		}
		mutate(set)

		labels := make([]string, 0, len(set))
		for l := range set {
			labels = append(labels, l)
		}
		sort.Strings(labels)

		next := *existing
		next.Labels = labels
		next.UpdatedAt = s.clock.Now()
		next.ContentHash = types.ComputeContentHash(next.Title, next.Description, next.Type, next.Priority, next.Assignee, next.Labels)
		if next.ContentHash == existing.ContentHash {
			return ErrNoChange
		}

		if werr := tx.UpdateIssue(ctx, &next); werr != nil {
			return translateStoreErr(werr)
		}
		if eerr := tx.AppendEvent(ctx, &types.Event{
			IssueID: id, Kind: kind, Field: "labels", After: label,
			Timestamp: next.UpdatedAt, Actor: actor,
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
