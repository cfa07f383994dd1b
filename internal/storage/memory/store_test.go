package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/steveyegge/beads/internal/storage"
	"github.com/steveyegge/beads/internal/types"
	"github.com/stretchr/testify/require"
)

func newIssue(id string) *types.Issue {
	now := time.Now()
	return &types.Issue{
		ID:        id,
		Title:     "Title " + id,
		Type:      types.TypeTask,
		Priority:  2,
		Status:    types.StatusOpen,
		Labels:    []string{"b", "a"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateAndGetIssue(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.CreateIssue(ctx, newIssue("bd-1"))
	})
	require.NoError(t, err)

	var got *types.Issue
	err = s.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		got, err = tx.GetIssue(ctx, "bd-1")
		return err
	})
	require.NoError(t, err)
	require.Equal(t, "Title bd-1", got.Title)
	require.Equal(t, []string{"a", "b"}, got.Labels) // sorted
}

func TestCreateIssueDuplicate(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.CreateIssue(ctx, newIssue("bd-1"))
	}))

	err := s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.CreateIssue(ctx, newIssue("bd-1"))
	})
	require.True(t, errors.Is(err, storage.ErrAlreadyExists))
}

func TestUpdateIssueNotFound(t *testing.T) {
	s := New()
	ctx := context.Background()
	err := s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.UpdateIssue(ctx, newIssue("missing"))
	})
	require.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx storage.Tx) error {
		if err := tx.CreateIssue(ctx, newIssue("bd-1")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// bd-1 must not have survived the rollback.
	err = s.WithTx(ctx, func(tx storage.Tx) error {
		_, err := tx.GetIssue(ctx, "bd-1")
		return err
	})
	require.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestPutLinkAndSnapshot(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		if err := tx.CreateIssue(ctx, newIssue("a")); err != nil {
			return err
		}
		if err := tx.CreateIssue(ctx, newIssue("b")); err != nil {
			return err
		}
		return tx.PutLink(ctx, types.Link{From: "a", To: "b", Type: types.LinkBlocks})
	}))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, snap.Blocking["a"])
	require.Equal(t, types.StatusOpen, snap.Issues["a"])
}

func TestPutLinkDuplicate(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		tx.CreateIssue(ctx, newIssue("a"))
		tx.CreateIssue(ctx, newIssue("b"))
		return tx.PutLink(ctx, types.Link{From: "a", To: "b", Type: types.LinkBlocks})
	}))

	err := s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.PutLink(ctx, types.Link{From: "a", To: "b", Type: types.LinkBlocks})
	})
	require.True(t, errors.Is(err, storage.ErrAlreadyExists))
}

func TestDeleteLinkNotFound(t *testing.T) {
	s := New()
	ctx := context.Background()
	err := s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.DeleteLink(ctx, "a", "b", types.LinkBlocks)
	})
	require.True(t, errors.Is(err, storage.ErrLinkNotFound))
}

func TestListIssuesFilters(t *testing.T) {
	s := New()
	ctx := context.Background()

	a := newIssue("a")
	a.Priority = 0
	b := newIssue("b")
	b.Priority = 3
	b.Status = types.StatusClosed
	b.CloseReason = "done"
	closedAt := time.Now()
	b.ClosedAt = &closedAt

	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		tx.CreateIssue(ctx, a)
		return tx.CreateIssue(ctx, b)
	}))

	var open []*types.Issue
	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		open, err = tx.ListIssues(ctx, types.WorkFilter{Status: []types.Status{types.StatusOpen}})
		return err
	}))
	require.Len(t, open, 1)
	require.Equal(t, "a", open[0].ID)
}

func TestCommentsAndEvents(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.CreateIssue(ctx, newIssue("a"))
	}))

	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.AddComment(ctx, &types.Comment{IssueID: "a", Author: "alice", Body: "hi"})
	}))
	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.AppendEvent(ctx, &types.Event{IssueID: "a", Kind: types.EventCreated, Actor: "alice"})
	}))

	var comments []*types.Comment
	var events []*types.Event
	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		comments, err = tx.ListComments(ctx, "a")
		if err != nil {
			return err
		}
		events, err = tx.ListEvents(ctx, "a")
		return err
	}))
	require.Len(t, comments, 1)
	require.Equal(t, "hi", comments[0].Body)
	require.Len(t, events, 1)
	require.Equal(t, types.EventCreated, events[0].Kind)
}

func TestMeta(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.SetMeta(ctx, "schema_version", "1")
	}))

	var v string
	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		v, err = tx.GetMeta(ctx, "schema_version")
		return err
	}))
	require.Equal(t, "1", v)
}
