package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/steveyegge/beads/internal/storage"
	"github.com/steveyegge/beads/internal/types"
)

// CommentAdd appends a comment and a comment_added event in one
// transaction.
func (s *Service) CommentAdd(ctx context.Context, issueID, author, body string) (*types.Comment, error) {
	ctx, span := s.startSpan(ctx, "CommentAdd", attribute.String("issue.id", issueID))
	var err error
	defer func() { endSpan(span, err) }()

	if author == "" {
		author = s.actor
	}
	now := s.clock.Now()
	c := &types.Comment{IssueID: issueID, Author: author, Body: body, Timestamp: now}

	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		if _, gerr := tx.GetIssue(ctx, issueID); gerr != nil {
			return translateStoreErr(gerr)
		}
		if aerr := tx.AddComment(ctx, c); aerr != nil {
			return translateStoreErr(aerr)
		}
		return translateStoreErr(tx.AppendEvent(ctx, &types.Event{
			IssueID: issueID, Kind: types.EventCommentAdded,
			After: body, Timestamp: now, Actor: author,
		}))
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Comments lists an issue's comment history in timestamp order.
func (s *Service) Comments(ctx context.Context, issueID string) ([]*types.Comment, error) {
	ctx, span := s.startSpan(ctx, "Comments", attribute.String("issue.id", issueID))
	var err error
	defer func() { endSpan(span, err) }()

	var out []*types.Comment
	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		var lerr error
		out, lerr = tx.ListComments(ctx, issueID)
		return translateStoreErr(lerr)
	})
	return out, err
}
