// Package graph implements GraphEngine: cycle detection, transitive
// closure, ready-work selection, topological ("swarm") layering, and
// orphan/stale analysis over the blocking subgraph.
//
// GraphEngine never touches I/O. It operates entirely on an in-memory
// Snapshot built by a caller (Service) from storage.Snapshot plus the
// per-issue metadata (priority, updated_at, title, total link count) that
// the derived queries need but storage.Snapshot itself doesn't carry.
package graph

import (
	"sort"
	"time"

	"github.com/steveyegge/beads/internal/storage"
	"github.com/steveyegge/beads/internal/types"
)

// Node is the per-issue metadata GraphEngine needs beyond the bare
// adjacency lists in storage.Snapshot: enough to sort ready/swarm output
// and to answer Orphan without a second round-trip to Store.
type Node struct {
	ID        string
	Status    types.Status
	Priority  int
	UpdatedAt time.Time
	Title     string
	// LinkCount is the issue's total degree across every link type, both
	// directions, informational included. Only Orphan consults it.
	LinkCount int
}

// Engine answers derived graph queries against one immutable Snapshot. It
// holds no reference to Store and performs no I/O; build a fresh Engine
// per request from a freshly taken storage.Snapshot.
type Engine struct {
	nodes map[string]*Node
	// blocking[a] lists b for every canonical "a blocks b" edge.
	blocking map[string][]string
	// blockedBy[b] lists a for every canonical "a blocks b" edge — the
	// reverse index used by ReadySet and Swarm.
	blockedBy map[string][]string
}

// New builds an Engine from a storage snapshot and the per-node metadata
// Service gathered alongside it. Nodes not present in snap.Issues are
// ignored; nodes in snap.Issues with no matching metadata entry are kept
// with zero-value metadata so graph queries never panic on a partial view.
func New(snap *storage.Snapshot, nodes []Node) *Engine {
	e := &Engine{
		nodes:     make(map[string]*Node, len(snap.Issues)),
		blocking:  make(map[string][]string, len(snap.Blocking)),
		blockedBy: make(map[string][]string),
	}
	for id, status := range snap.Issues {
		e.nodes[id] = &Node{ID: id, Status: status}
	}
	for _, n := range nodes {
		if _, ok := snap.Issues[n.ID]; !ok {
			continue
		}
		cp := n
		e.nodes[n.ID] = &cp
	}
	for from, tos := range snap.Blocking {
		sorted := append([]string(nil), tos...)
		sort.Strings(sorted)
		e.blocking[from] = sorted
		for _, to := range sorted {
			e.blockedBy[to] = append(e.blockedBy[to], from)
		}
	}
	for to := range e.blockedBy {
		sort.Strings(e.blockedBy[to])
	}
	return e
}

// node returns the Engine's view of id, or a synthetic zero-value Node if
// id is unknown to this snapshot (defensive: callers should only query ids
// the Engine was built from).
func (e *Engine) node(id string) *Node {
	if n, ok := e.nodes[id]; ok {
		return n
	}
	return &Node{ID: id}
}

func issuesFromNodes(nodes []*Node) []*types.Issue {
	out := make([]*types.Issue, len(nodes))
	for i, n := range nodes {
		out[i] = &types.Issue{ID: n.ID, Priority: n.Priority, UpdatedAt: n.UpdatedAt, Status: n.Status}
	}
	return out
}

// sortNodes orders nodes with types.ReadySort's tiebreak (priority
// ascending, updated_at descending, id ascending) by round-tripping
// through the handful of fields that sort depends on.
func sortNodes(nodes []*Node) {
	issues := issuesFromNodes(nodes)
	types.ReadySort(issues)
	byID := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	for i, iss := range issues {
		nodes[i] = byID[iss.ID]
	}
}
