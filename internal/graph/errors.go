package graph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycleDetected is returned by CheckCycle when inserting the candidate
// blocking edge would close a cycle. Path lists the cycle in traversal
// order, starting and ending on the edge's From node.
type ErrCycleDetected struct {
	Path []string
}

func (e *ErrCycleDetected) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Path, " -> "))
}

// ErrGraphCorrupt is returned by Swarm if the blocking subgraph contains a
// cycle, which Testable Property 1 (acyclicity) says should never happen;
// CheckCycle guarding every insert is what's supposed to prevent it.
type ErrGraphCorrupt struct {
	Nodes []string
}

func (e *ErrGraphCorrupt) Error() string {
	return fmt.Sprintf("graph corrupt: cycle among %s", strings.Join(e.Nodes, ", "))
}

// AsCycleDetected is a convenience wrapper so callers can use errors.As
// without importing the concrete type name.
func AsCycleDetected(err error) (*ErrCycleDetected, bool) {
	var c *ErrCycleDetected
	if errors.As(err, &c) {
		return c, true
	}
	return nil, false
}
