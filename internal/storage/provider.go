// Package storage defines the Store contract (spec.md §4.2): the
// transactional, embedded persistence boundary that Service and
// GraphEngine build on. Concrete backends live in sub-packages (sqlite,
// memory).
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/steveyegge/beads/internal/types"
)

// Sentinel errors returned by every Store implementation, so Service can
// branch on errors.Is regardless of backend.
var (
	ErrNotFound       = errors.New("storage: not found")
	ErrAlreadyExists  = errors.New("storage: already exists")
	ErrLinkNotFound   = errors.New("storage: link not found")
	ErrSchemaMismatch = errors.New("storage: schema version mismatch")
	ErrBusy           = errors.New("storage: store busy")
	ErrClosed         = errors.New("storage: store closed")
)

// Snapshot is a read-only, point-in-time view of the full link graph, used
// by GraphEngine so cycle checks and closures never race a concurrent
// writer. It is cheap: adjacency lists over issue ids, no issue bodies.
type Snapshot struct {
	// Issues maps every known issue id to its current status, so
	// GraphEngine can tell open/closed apart without a second query.
	Issues map[string]types.Status
	// Blocking is the blocking-subgraph adjacency list: Blocking[a]
	// contains b for every canonical "a blocks b" link.
	Blocking map[string][]string
	// Taken at is recorded for staleness diagnostics in callers that cache
	// a Snapshot across a tick.
	TakenAt time.Time
}

// Tx is a single transactional unit of work against a Store. All methods
// observe the isolation the backend promises (serializable for sqlite).
type Tx interface {
	// CreateIssue inserts a brand-new issue. Returns ErrAlreadyExists if
	// issue.ID is already taken.
	CreateIssue(ctx context.Context, issue *types.Issue) error
	// UpdateIssue overwrites issue's mutable fields in place. Returns
	// ErrNotFound if issue.ID is unknown.
	UpdateIssue(ctx context.Context, issue *types.Issue) error
	// GetIssue fetches a single issue by id. Returns ErrNotFound if absent.
	GetIssue(ctx context.Context, id string) (*types.Issue, error)
	// IssueExists reports whether id is already taken, for idgen.Mint's
	// collision check.
	IssueExists(ctx context.Context, id string) (bool, error)
	// ListIssues returns issues matching filter, unsorted; callers apply
	// ordering (e.g. types.ReadySort).
	ListIssues(ctx context.Context, filter types.WorkFilter) ([]*types.Issue, error)

	// PutLink inserts a canonical link. Returns ErrAlreadyExists if the
	// (from, to, type) triple is already stored.
	PutLink(ctx context.Context, link types.Link) error
	// DeleteLink removes a canonical link. Returns ErrLinkNotFound if
	// absent.
	DeleteLink(ctx context.Context, from, to string, typ types.LinkType) error
	// LinksFrom returns every canonical link whose From is id.
	LinksFrom(ctx context.Context, id string) ([]types.Link, error)
	// LinksTo returns every canonical link whose To is id.
	LinksTo(ctx context.Context, id string) ([]types.Link, error)
	// AllLinks returns every stored link, for Snapshot construction.
	AllLinks(ctx context.Context) ([]types.Link, error)

	// AddComment appends a comment to an issue's history.
	AddComment(ctx context.Context, c *types.Comment) error
	// ListComments returns an issue's comments in timestamp order.
	ListComments(ctx context.Context, issueID string) ([]*types.Comment, error)

	// AppendEvent appends one audit record. Events are never mutated or
	// deleted once written.
	AppendEvent(ctx context.Context, e *types.Event) error
	// ListEvents returns an issue's event history in timestamp order.
	ListEvents(ctx context.Context, issueID string) ([]*types.Event, error)

	// GetMeta/SetMeta expose the small key-value store used for the
	// id-prefix, schema version and other singleton settings.
	GetMeta(ctx context.Context, key string) (string, error)
	SetMeta(ctx context.Context, key, value string) error
}

// Store is the top-level persistence boundary: it mints transactions and
// exposes a consistent Snapshot for GraphEngine, per spec.md §4.2.
type Store interface {
	// Begin opens a new transaction. The returned Tx must be committed or
	// rolled back by the caller.
	Begin(ctx context.Context) (Tx, error)
	// WithTx runs fn inside a transaction, committing on a nil return and
	// rolling back otherwise. Most callers should prefer this over Begin.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	// Snapshot takes a consistent, read-only copy of the link graph for
	// GraphEngine to operate on outside of any transaction.
	Snapshot(ctx context.Context) (*Snapshot, error)
	// Close releases any held resources (file handles, connections).
	Close() error
}
