package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/steveyegge/beads/internal/storage"
	"github.com/steveyegge/beads/internal/types"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(context.Background(), ":memory:", 2*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

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

func TestOpenStampsSchemaVersion(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var version string
	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		version, err = tx.GetMeta(ctx, "schema_version")
		return err
	}))
	require.Equal(t, SchemaVersion, version)
}

func TestCreateAndGetIssue(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.CreateIssue(ctx, newIssue("bd-1"))
	}))

	var got *types.Issue
	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		got, err = tx.GetIssue(ctx, "bd-1")
		return err
	}))
	require.Equal(t, "Title bd-1", got.Title)
	require.Equal(t, []string{"a", "b"}, got.Labels)
}

func TestCreateIssueDuplicate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.CreateIssue(ctx, newIssue("bd-1"))
	}))

	err := s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.CreateIssue(ctx, newIssue("bd-1"))
	})
	require.True(t, errors.Is(err, storage.ErrAlreadyExists))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx storage.Tx) error {
		if err := tx.CreateIssue(ctx, newIssue("bd-1")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = s.WithTx(ctx, func(tx storage.Tx) error {
		_, err := tx.GetIssue(ctx, "bd-1")
		return err
	})
	require.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestUpdateIssueStatusAndClose(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	issue := newIssue("bd-1")
	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.CreateIssue(ctx, issue)
	}))

	closedAt := time.Now()
	issue.Status = types.StatusClosed
	issue.CloseReason = "fixed"
	issue.ClosedAt = &closedAt
	issue.UpdatedAt = closedAt
	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.UpdateIssue(ctx, issue)
	}))

	var got *types.Issue
	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		got, err = tx.GetIssue(ctx, "bd-1")
		return err
	}))
	require.Equal(t, types.StatusClosed, got.Status)
	require.Equal(t, "fixed", got.CloseReason)
	require.NotNil(t, got.ClosedAt)
}

func TestLinkLifecycle(t *testing.T) {
	s := openTestStore(t)
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

	var froms []types.Link
	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		froms, err = tx.LinksFrom(ctx, "a")
		return err
	}))
	require.Len(t, froms, 1)
	require.Equal(t, "b", froms[0].To)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, snap.Blocking["a"])

	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.DeleteLink(ctx, "a", "b", types.LinkBlocks)
	}))
	err = s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.DeleteLink(ctx, "a", "b", types.LinkBlocks)
	})
	require.True(t, errors.Is(err, storage.ErrLinkNotFound))
}

func TestCommentsAndEventsPersist(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.CreateIssue(ctx, newIssue("a"))
	}))

	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.AddComment(ctx, &types.Comment{IssueID: "a", Author: "alice", Body: "hello"})
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
	require.Equal(t, "hello", comments[0].Body)
	require.Len(t, events, 1)
}

func TestListIssuesByStatus(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := newIssue("a")
	b := newIssue("b")
	b.Status = types.StatusInProgress

	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		if err := tx.CreateIssue(ctx, a); err != nil {
			return err
		}
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
