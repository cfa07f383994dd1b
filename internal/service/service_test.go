package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/steveyegge/beads/internal/storage/memory"
	"github.com/steveyegge/beads/internal/types"
)

func newTestService(at time.Time) *Service {
	return New(memory.New(), WithClock(FixedClock{At: at}), WithActor("tester"), WithIDPrefix("bd"))
}

func TestCreateAndShow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(time.Now())

	iss, err := svc.Create(ctx, CreateInput{Title: "fix the thing", Type: types.TypeBug, Priority: 2})
	require.NoError(t, err)
	require.NotEmpty(t, iss.ID)
	require.Equal(t, types.StatusOpen, iss.Status)

	got, err := svc.Show(ctx, iss.ID)
	require.NoError(t, err)
	require.Equal(t, iss.Title, got.Title)

	history, err := svc.History(ctx, iss.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, types.EventCreated, history[0].Kind)
}

func TestCreateRejectsInvalidField(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(time.Now())
	_, err := svc.Create(ctx, CreateInput{Title: "", Type: types.TypeBug})
	require.ErrorIs(t, err, ErrInvalidField)
}

// S1 — ready ordering.
func TestReadyOrdering(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestService(base)

	a, err := svc.Create(ctx, CreateInput{Title: "A", Type: types.TypeTask, Priority: 2})
	require.NoError(t, err)

	svc2 := newTestServiceSameStore(svc, base)
	b, err := svc2.Create(ctx, CreateInput{Title: "B", Type: types.TypeBug, Priority: 0})
	require.NoError(t, err)

	svc3 := newTestServiceSameStore(svc, base.Add(time.Hour))
	c, err := svc3.Create(ctx, CreateInput{Title: "C", Type: types.TypeBug, Priority: 0})
	require.NoError(t, err)

	ready, err := svc.Ready(ctx)
	require.NoError(t, err)
	require.Len(t, ready, 3)
	require.Equal(t, []string{c.ID, b.ID, a.ID}, []string{ready[0].ID, ready[1].ID, ready[2].ID})
}

func newTestServiceSameStore(svc *Service, at time.Time) *Service {
	return New(svc.store, WithClock(FixedClock{At: at}), WithActor("tester"), WithIDPrefix("bd"))
}

// S2 — cycle rejected.
func TestDepAddRejectsCycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(time.Now())

	x, _ := svc.Create(ctx, CreateInput{Title: "X", Type: types.TypeTask})
	y, _ := svc.Create(ctx, CreateInput{Title: "Y", Type: types.TypeTask})
	z, _ := svc.Create(ctx, CreateInput{Title: "Z", Type: types.TypeTask})

	require.NoError(t, svc.DepAdd(ctx, x.ID, y.ID, types.LinkBlocks, "tester"))
	require.NoError(t, svc.DepAdd(ctx, y.ID, z.ID, types.LinkBlocks, "tester"))

	err := svc.DepAdd(ctx, z.ID, x.ID, types.LinkBlocks, "tester")
	require.Error(t, err)
	var cyc *ErrCycleDetected
	require.True(t, errors.As(err, &cyc))
	require.Equal(t, []string{z.ID, x.ID, y.ID, z.ID}, cyc.Path)

	links, err := svc.DepList(ctx, x.ID)
	require.NoError(t, err)
	require.Len(t, links, 1) // the rejected link must not have been persisted
}

// S3 — transitive ready.
func TestReadyTransitiveUnblocking(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(time.Now())

	p, _ := svc.Create(ctx, CreateInput{Title: "P", Type: types.TypeTask})
	q, _ := svc.Create(ctx, CreateInput{Title: "Q", Type: types.TypeTask})
	r, _ := svc.Create(ctx, CreateInput{Title: "R", Type: types.TypeTask})
	require.NoError(t, svc.DepAdd(ctx, p.ID, q.ID, types.LinkBlocks, "tester"))
	require.NoError(t, svc.DepAdd(ctx, q.ID, r.ID, types.LinkBlocks, "tester"))

	ready, err := svc.Ready(ctx)
	require.NoError(t, err)
	require.Len(t, ready, 1)
	require.Equal(t, p.ID, ready[0].ID)

	_, err = svc.Close(ctx, p.ID, "done", "tester")
	require.NoError(t, err)
	ready, err = svc.Ready(ctx)
	require.NoError(t, err)
	require.Len(t, ready, 1)
	require.Equal(t, q.ID, ready[0].ID)

	_, err = svc.Close(ctx, q.ID, "done", "tester")
	require.NoError(t, err)
	ready, err = svc.Ready(ctx)
	require.NoError(t, err)
	require.Len(t, ready, 1)
	require.Equal(t, r.ID, ready[0].ID)
}

// S4 — inverse normalization.
func TestDepAddInverseNormalization(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(time.Now())
	a, _ := svc.Create(ctx, CreateInput{Title: "A", Type: types.TypeTask})
	b, _ := svc.Create(ctx, CreateInput{Title: "B", Type: types.TypeTask})

	require.NoError(t, svc.DepAdd(ctx, a.ID, b.ID, types.LinkBlockedBy, "tester"))

	aLinks, err := svc.DepList(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, aLinks, 1)
	require.Equal(t, types.LinkBlockedBy, aLinks[0].Type)
	require.Equal(t, b.ID, aLinks[0].To)

	bLinks, err := svc.DepList(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, bLinks, 1)
	require.Equal(t, types.LinkBlocks, bLinks[0].Type)
	require.Equal(t, a.ID, bLinks[0].To)
}

// S5 — reopen clears closed_at and emits two events.
func TestReopenClearsClosedAt(t *testing.T) {
	ctx := context.Background()
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestService(t1)
	k, err := svc.Create(ctx, CreateInput{Title: "K", Type: types.TypeTask})
	require.NoError(t, err)

	_, err = svc.Close(ctx, k.ID, "fixed", "tester")
	require.NoError(t, err)

	t2 := t1.Add(24 * time.Hour)
	svc2 := newTestServiceSameStore(svc, t2)
	got, err := svc2.Reopen(ctx, k.ID, "tester")
	require.NoError(t, err)
	require.Equal(t, types.StatusOpen, got.Status)
	require.Nil(t, got.ClosedAt)

	history, err := svc.History(ctx, k.ID)
	require.NoError(t, err)
	require.Len(t, history, 4) // created, status_change(close), status_change(reopen), field_change(closed_at)
}

// S6 — swarm layers.
func TestSwarmLayers(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(time.Now())
	a, _ := svc.Create(ctx, CreateInput{Title: "A", Type: types.TypeTask})
	b, _ := svc.Create(ctx, CreateInput{Title: "B", Type: types.TypeTask})
	c, _ := svc.Create(ctx, CreateInput{Title: "C", Type: types.TypeTask})
	d, _ := svc.Create(ctx, CreateInput{Title: "D", Type: types.TypeTask})
	require.NoError(t, svc.DepAdd(ctx, a.ID, b.ID, types.LinkBlocks, "tester"))
	require.NoError(t, svc.DepAdd(ctx, a.ID, c.ID, types.LinkBlocks, "tester"))
	require.NoError(t, svc.DepAdd(ctx, b.ID, d.ID, types.LinkBlocks, "tester"))
	require.NoError(t, svc.DepAdd(ctx, c.ID, d.ID, types.LinkBlocks, "tester"))

	layers, err := svc.Swarm(ctx)
	require.NoError(t, err)
	require.Len(t, layers, 3)
	require.Equal(t, a.ID, layers[0][0].ID)
	require.Len(t, layers[1], 2)
	require.Equal(t, d.ID, layers[2][0].ID)
}

// Testable Property 9 — idempotence.
func TestUpdateNoChangeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(time.Now())
	iss, err := svc.Create(ctx, CreateInput{Title: "A", Type: types.TypeTask, Priority: 2})
	require.NoError(t, err)

	title := "A"
	_, err = svc.Update(ctx, UpdateInput{ID: iss.ID, Title: &title})
	require.ErrorIs(t, err, ErrNoChange)

	history, err := svc.History(ctx, iss.ID)
	require.NoError(t, err)
	require.Len(t, history, 1) // no spurious field_change event
}

func TestUpdateRejectsInvalidTransitionViaClose(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(time.Now())
	iss, err := svc.Create(ctx, CreateInput{Title: "A", Type: types.TypeTask})
	require.NoError(t, err)
	_, err = svc.Close(ctx, iss.ID, "done", "tester")
	require.NoError(t, err)

	_, err = svc.Close(ctx, iss.ID, "again", "tester")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCommentAddAndList(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(time.Now())
	iss, _ := svc.Create(ctx, CreateInput{Title: "A", Type: types.TypeTask})

	_, err := svc.CommentAdd(ctx, iss.ID, "alice", "looking into this")
	require.NoError(t, err)

	comments, err := svc.Comments(ctx, iss.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, "looking into this", comments[0].Body)
}

func TestLabelAddAndRemove(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(time.Now())
	iss, _ := svc.Create(ctx, CreateInput{Title: "A", Type: types.TypeTask})

	got, err := svc.LabelAdd(ctx, iss.ID, "urgent", "tester")
	require.NoError(t, err)
	require.Equal(t, []string{"urgent"}, got.Labels)

	got, err = svc.LabelRemove(ctx, iss.ID, "urgent", "tester")
	require.NoError(t, err)
	require.Empty(t, got.Labels)
}

func TestOrphansAndStats(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(time.Now())
	a, _ := svc.Create(ctx, CreateInput{Title: "A", Type: types.TypeTask})
	b, _ := svc.Create(ctx, CreateInput{Title: "B", Type: types.TypeTask})
	require.NoError(t, svc.DepAdd(ctx, a.ID, b.ID, types.LinkBlocks, "tester"))
	c, _ := svc.Create(ctx, CreateInput{Title: "C", Type: types.TypeTask})

	orphans, err := svc.Orphans(ctx)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	require.Equal(t, c.ID, orphans[0].ID)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, stats.Total)
	require.Equal(t, 1, stats.OrphanCount)
}
