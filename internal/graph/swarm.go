package graph

import "github.com/steveyegge/beads/internal/types"

// Swarm partitions every non-closed issue into layers L_0, L_1, … where a
// node's layer is one more than the longest blocking-predecessor chain
// among its non-closed predecessors (closed predecessors are already
// satisfied and don't extend the chain). It's computed with Kahn's
// algorithm processed breadth-first: a node only enters the frontier once
// every non-closed predecessor has already been placed in an earlier
// layer, which is exactly the longest-path layering spec.md §4.4 and the
// GLOSSARY describe.
//
// Acyclicity (Testable Property 1) guarantees every non-closed issue gets
// placed; if some remain unplaced after the frontier empties, the blocking
// subgraph is corrupt and Swarm returns *ErrGraphCorrupt naming them.
func (e *Engine) Swarm() ([][]*Node, error) {
	remaining := make(map[string]*Node)
	indegree := make(map[string]int)
	for id, n := range e.nodes {
		if n.Status == types.StatusClosed {
			continue
		}
		remaining[id] = n
		indegree[id] = 0
	}
	for id := range remaining {
		for _, pred := range e.blockedBy[id] {
			if p, ok := remaining[pred]; ok && p.Status != types.StatusClosed {
				indegree[id]++
			}
		}
	}

	var layers [][]*Node
	for len(remaining) > 0 {
		var frontier []*Node
		for id, n := range remaining {
			if indegree[id] == 0 {
				frontier = append(frontier, n)
			}
		}
		if len(frontier) == 0 {
			ids := make([]string, 0, len(remaining))
			for id := range remaining {
				ids = append(ids, id)
			}
			return nil, &ErrGraphCorrupt{Nodes: ids}
		}
		sortNodes(frontier)
		layers = append(layers, frontier)

		for _, n := range frontier {
			delete(remaining, n.ID)
			delete(indegree, n.ID)
			for _, succ := range e.blocking[n.ID] {
				if _, ok := remaining[succ]; ok {
					indegree[succ]--
				}
			}
		}
	}
	return layers, nil
}
