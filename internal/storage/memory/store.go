// Package memory implements storage.Store entirely in process memory, for
// unit tests and short-lived tooling that doesn't want a SQLite file on
// disk.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/steveyegge/beads/internal/storage"
	"github.com/steveyegge/beads/internal/types"
)

// Storage is a mutex-guarded, in-memory storage.Store. Isolation is
// serializable by construction: Begin takes the single store-wide lock and
// holds it until commit or rollback, so there is never more than one
// in-flight transaction.
type Storage struct {
	mu sync.Mutex

	issues   map[string]*types.Issue
	labels   map[string]map[string]bool
	links    map[linkKey]types.Link
	comments map[string][]*types.Comment
	events   map[string][]*types.Event
	meta     map[string]string

	nextCommentID int64
	nextEventID   int64
}

type linkKey struct {
	from, to string
	typ      types.LinkType
}

// New returns an empty in-memory Store.
func New() *Storage {
	return &Storage{
		issues:   make(map[string]*types.Issue),
		labels:   make(map[string]map[string]bool),
		links:    make(map[linkKey]types.Link),
		comments: make(map[string][]*types.Comment),
		events:   make(map[string][]*types.Event),
		meta:     make(map[string]string),
	}
}

// Begin acquires the store's lock and snapshots every map so a later
// rollback can restore exactly the pre-transaction state, then returns a
// Tx bound to this Storage. The lock is released on commit or rollback.
func (s *Storage) Begin(ctx context.Context) (storage.Tx, error) {
	s.mu.Lock()
	return &tx{store: s, backup: s.backup()}, nil
}

// WithTx runs fn inside a transaction, committing on a nil return and
// rolling back otherwise.
func (s *Storage) WithTx(ctx context.Context, fn func(storage.Tx) error) error {
	t, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	mt := t.(*tx)

	if err := fn(t); err != nil {
		mt.rollback()
		return err
	}
	return mt.commit()
}

// snapshotState is a deep-enough copy of Storage's maps to restore on
// rollback; individual *types.Issue/*Comment/*Event values are copied
// by CreateIssue/AddComment/etc. before being stored, so a shallow map
// copy here is sufficient to undo inserts, updates and deletes alike.
type snapshotState struct {
	issues   map[string]*types.Issue
	labels   map[string]map[string]bool
	links    map[linkKey]types.Link
	comments map[string][]*types.Comment
	events   map[string][]*types.Event
	meta     map[string]string
}

func (s *Storage) backup() snapshotState {
	return snapshotState{
		issues:   cloneMap(s.issues),
		labels:   cloneLabelSets(s.labels),
		links:    cloneMap(s.links),
		comments: cloneMap(s.comments),
		events:   cloneMap(s.events),
		meta:     cloneMap(s.meta),
	}
}

func (s *Storage) restore(b snapshotState) {
	s.issues = b.issues
	s.labels = b.labels
	s.links = b.links
	s.comments = b.comments
	s.events = b.events
	s.meta = b.meta
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneLabelSets(m map[string]map[string]bool) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(m))
	for k, set := range m {
		out[k] = cloneMap(set)
	}
	return out
}

// Snapshot takes a consistent copy of the blocking subgraph without
// needing a transaction, since Storage's single lock already serializes
// every mutation.
func (s *Storage) Snapshot(ctx context.Context) (*storage.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &storage.Snapshot{
		Issues:   make(map[string]types.Status, len(s.issues)),
		Blocking: make(map[string][]string),
		TakenAt:  time.Now(),
	}
	for id, issue := range s.issues {
		snap.Issues[id] = issue.Status
	}
	for key := range s.links {
		if key.typ == types.LinkBlocks {
			snap.Blocking[key.from] = append(snap.Blocking[key.from], key.to)
		}
	}
	for from := range snap.Blocking {
		sort.Strings(snap.Blocking[from])
	}
	return snap, nil
}

// Close is a no-op: there is no underlying file handle to release.
func (s *Storage) Close() error { return nil }

// tx is a storage.Tx backed directly by Storage's maps, guarded by the
// store-wide lock acquired in Begin. backup holds the pre-transaction state
// so rollback can undo in-place writes made straight to Storage's maps.
type tx struct {
	store  *Storage
	backup snapshotState
	done   bool
}

func (t *tx) commit() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *tx) rollback() {
	if t.done {
		return
	}
	t.store.restore(t.backup)
	t.done = true
	t.store.mu.Unlock()
}

// CreateIssue inserts a brand-new issue.
func (t *tx) CreateIssue(ctx context.Context, issue *types.Issue) error {
	if _, exists := t.store.issues[issue.ID]; exists {
		return storage.ErrAlreadyExists
	}
	cp := *issue
	t.store.issues[issue.ID] = &cp
	t.setLabels(issue.ID, issue.Labels)
	return nil
}

// UpdateIssue overwrites an existing issue's fields.
func (t *tx) UpdateIssue(ctx context.Context, issue *types.Issue) error {
	if _, exists := t.store.issues[issue.ID]; !exists {
		return storage.ErrNotFound
	}
	cp := *issue
	t.store.issues[issue.ID] = &cp
	t.setLabels(issue.ID, issue.Labels)
	return nil
}

// GetIssue fetches a single issue with its labels.
func (t *tx) GetIssue(ctx context.Context, id string) (*types.Issue, error) {
	issue, exists := t.store.issues[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	cp := *issue
	cp.Labels = t.labelsFor(id)
	return &cp, nil
}

// IssueExists reports whether id is taken.
func (t *tx) IssueExists(ctx context.Context, id string) (bool, error) {
	_, exists := t.store.issues[id]
	return exists, nil
}

// ListIssues returns every issue matching filter, unsorted.
func (t *tx) ListIssues(ctx context.Context, filter types.WorkFilter) ([]*types.Issue, error) {
	var out []*types.Issue
	for id, issue := range t.store.issues {
		if !matchesFilter(issue, t.labelsFor(id), filter) {
			continue
		}
		cp := *issue
		cp.Labels = t.labelsFor(id)
		out = append(out, &cp)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func matchesFilter(issue *types.Issue, labels []string, filter types.WorkFilter) bool {
	if len(filter.Status) > 0 && !statusIn(issue.Status, filter.Status) {
		return false
	}
	if len(filter.Type) > 0 && !typeIn(issue.Type, filter.Type) {
		return false
	}
	if filter.MaxPriority != nil && issue.Priority > *filter.MaxPriority {
		return false
	}
	if filter.Assignee != "" && issue.Assignee != filter.Assignee {
		return false
	}
	if filter.Label != "" && !labelIn(filter.Label, labels) {
		return false
	}
	if filter.UpdatedSince != nil && issue.UpdatedAt.Before(*filter.UpdatedSince) {
		return false
	}
	if filter.TextMatch != "" {
		needle := strings.ToLower(filter.TextMatch)
		if !strings.Contains(strings.ToLower(issue.Title), needle) &&
			!strings.Contains(strings.ToLower(issue.Description), needle) {
			return false
		}
	}
	return true
}

func statusIn(s types.Status, set []types.Status) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func typeIn(t types.IssueType, set []types.IssueType) bool {
	for _, v := range set {
		if v == t {
			return true
		}
	}
	return false
}

func labelIn(label string, labels []string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

func (t *tx) setLabels(issueID string, labels []string) {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	t.store.labels[issueID] = set
}

func (t *tx) labelsFor(issueID string) []string {
	set := t.store.labels[issueID]
	labels := make([]string, 0, len(set))
	for l := range set {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

var _ storage.Store = (*Storage)(nil)
var _ storage.Tx = (*tx)(nil)
