package graph

// CheckCycle reports whether inserting the canonical blocking edge
// "from blocks to" would create a cycle in the existing blocking subgraph.
// It runs a BFS from to, stopping as soon as from is dequeued, then
// reconstructs the shortest to-and-through-from path by walking parent
// pointers backward. The returned *ErrCycleDetected's Path starts and ends
// on from, e.g. for X blocks Y, Y blocks Z, inserting Z blocks X yields
// Path = [Z, X, Y, Z].
func (e *Engine) CheckCycle(from, to string) error {
	if from == to {
		return nil // self-links are rejected by validation, not here
	}

	parent := map[string]string{to: ""}
	queue := []string{to}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur == from {
			path := reconstructPath(parent, to, from)
			return &ErrCycleDetected{Path: append([]string{from}, path...)}
		}

		for _, next := range e.blocking[cur] {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = cur
			queue = append(queue, next)
		}
	}
	return nil
}

// reconstructPath walks parent pointers from from back to to, returning
// the forward path [to, ..., from].
func reconstructPath(parent map[string]string, to, from string) []string {
	var rev []string
	for cur := from; ; {
		rev = append(rev, cur)
		if cur == to {
			break
		}
		cur = parent[cur]
	}
	path := make([]string, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}
