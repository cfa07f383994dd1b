// Package service implements the Service façade of spec.md §4.5: the
// single entry point that coordinates Model validation, Store persistence
// and GraphEngine queries behind one transactional, typed-error API.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/steveyegge/beads/internal/graph"
	"github.com/steveyegge/beads/internal/storage"
	"github.com/steveyegge/beads/internal/types"
)

var tracer = otel.Tracer("github.com/steveyegge/beads/service")

// Clock abstracts "now" so tests can inject BD_NOW's fixed instant instead
// of the wall clock. See config.Now for the environment-variable source.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock, backed by time.Now.
type SystemClock struct{}

// Now returns the current wall-clock time in UTC.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant, for BD_NOW-driven
// deterministic tests.
type FixedClock struct{ At time.Time }

// Now returns the fixed instant this clock was constructed with.
func (c FixedClock) Now() time.Time { return c.At }

// Service is the façade every external caller (CLI, future RPC) drives.
// It holds no issue state itself; Store is the sole source of truth.
type Service struct {
	store     storage.Store
	idPrefix  string
	clock     Clock
	actor     string
	logger    *slog.Logger
}

// Option configures a Service at construction time.
type Option func(*Service)

// WithClock overrides the default SystemClock, e.g. with config.Now's
// BD_NOW override.
func WithClock(c Clock) Option { return func(s *Service) { s.clock = c } }

// WithActor sets the default actor stamped on events when a caller
// doesn't supply one explicitly.
func WithActor(actor string) Option { return func(s *Service) { s.actor = actor } }

// WithLogger overrides the default slog.Default() logger.
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

// WithIDPrefix sets the short prefix minted ids carry (e.g. "bd" for
// "bd-a1b2c3d4"). Defaults to "bd".
func WithIDPrefix(prefix string) Option { return func(s *Service) { s.idPrefix = prefix } }

// New builds a Service bound to store.
func New(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		idPrefix: "bd",
		clock:    SystemClock{},
		actor:    "bd",
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// startSpan begins a span for one Service operation; callers pair it with
// endSpan(span, err).
func (s *Service) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "service."+op, trace.WithAttributes(attrs...))
}

// endSpan records err on span (if non-nil) before ending it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// translateStoreErr maps a storage-package sentinel to its Service-level
// equivalent. Unrecognized errors pass through unchanged so callers still
// see the original cause via errors.Is/errors.As.
func translateStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case isErr(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrIssueNotFound, err)
	case isErr(err, storage.ErrLinkNotFound):
		return fmt.Errorf("%w: %v", ErrLinkNotFound, err)
	case isErr(err, storage.ErrBusy):
		return fmt.Errorf("%w: %v", ErrStoreBusy, err)
	case isErr(err, storage.ErrSchemaMismatch):
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	case isErr(err, storage.ErrClosed):
		return fmt.Errorf("%w: %v", ErrIoError, err)
	default:
		return err
	}
}

func isErr(err, target error) bool {
	for err != nil {
		if err == target {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// nextEventTime enforces spec.md §5's ordering guarantee: within a single
// issue, event timestamps are strictly increasing, clamped to
// max(now, last_event_ts + 1ms) if the system clock ever goes backwards.
func nextEventTime(now time.Time, events []*types.Event) time.Time {
	if len(events) == 0 {
		return now
	}
	last := events[len(events)-1].Timestamp
	if floor := last.Add(time.Millisecond); floor.After(now) {
		return floor
	}
	return now
}

// buildEngine materializes a storage.Snapshot plus the per-node metadata
// (priority, updated_at, title, link count) GraphEngine's derived queries
// need, entirely inside one read transaction so the view is consistent.
func (s *Service) buildEngine(ctx context.Context, tx storage.Tx) (*graph.Engine, error) {
	issues, err := tx.ListIssues(ctx, types.WorkFilter{})
	if err != nil {
		return nil, translateStoreErr(err)
	}
	allLinks, err := tx.AllLinks(ctx)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	snap := &storage.Snapshot{
		Issues:   make(map[string]types.Status, len(issues)),
		Blocking: make(map[string][]string),
		TakenAt:  s.clock.Now(),
	}
	degree := make(map[string]int, len(issues))
	for _, l := range allLinks {
		degree[l.From]++
		degree[l.To]++
		if l.Type == types.LinkBlocks {
			snap.Blocking[l.From] = append(snap.Blocking[l.From], l.To)
		}
	}

	nodes := make([]graph.Node, 0, len(issues))
	for _, iss := range issues {
		snap.Issues[iss.ID] = iss.Status
		nodes = append(nodes, graph.Node{
			ID:        iss.ID,
			Status:    iss.Status,
			Priority:  iss.Priority,
			UpdatedAt: iss.UpdatedAt,
			Title:     iss.Title,
			LinkCount: degree[iss.ID],
		})
	}
	return graph.New(snap, nodes), nil
}
