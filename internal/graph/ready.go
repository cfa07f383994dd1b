package graph

import "github.com/steveyegge/beads/internal/types"

// ReadySet returns the node of every issue that is ready per spec.md §4.4:
// status is open or in_progress, and every blocking predecessor is
// closed. The result is ordered by types.ReadySort's tiebreak.
func (e *Engine) ReadySet() []*Node {
	var ready []*Node
	for _, n := range e.nodes {
		if n.Status != types.StatusOpen && n.Status != types.StatusInProgress {
			continue
		}
		if e.allPredecessorsClosed(n.ID) {
			ready = append(ready, n)
		}
	}
	sortNodes(ready)
	return ready
}

// IsReady reports whether a single issue is currently ready, without
// building the full ready set.
func (e *Engine) IsReady(id string) bool {
	n := e.node(id)
	if n.Status != types.StatusOpen && n.Status != types.StatusInProgress {
		return false
	}
	return e.allPredecessorsClosed(id)
}

func (e *Engine) allPredecessorsClosed(id string) bool {
	for _, pred := range e.blockedBy[id] {
		if e.node(pred).Status != types.StatusClosed {
			return false
		}
	}
	return true
}

// Ancestors returns every issue that must close, directly or transitively,
// before id can become ready: the blocking predecessors closure. Traversal
// is closure's iterative DFS over blockedBy so deep graphs never grow the
// call stack.
func (e *Engine) Ancestors(id string) []string {
	return e.closure(id, e.blockedBy)
}

// Descendants returns every issue id unblocks, directly or transitively:
// the blocking successors closure.
func (e *Engine) Descendants(id string) []string {
	return e.closure(id, e.blocking)
}

// closure runs an iterative DFS (explicit stack, not recursion) over adj
// starting from id, returning every reachable node except id itself. This
// is the O(V+E)-per-query traversal spec.md §4.4 requires.
func (e *Engine) closure(id string, adj map[string][]string) []string {
	visited := map[string]bool{id: true}
	var out []string
	stack := append([]string(nil), adj[id]...)
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		out = append(out, cur)
		stack = append(stack, adj[cur]...)
	}
	return out
}
