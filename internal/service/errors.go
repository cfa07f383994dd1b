package service

import (
	"errors"
	"fmt"

	"github.com/steveyegge/beads/internal/graph"
)

// Sentinel errors surfacing spec.md §7's error taxonomy. Service wraps the
// matching sentinel with %w, so errors.Is matches the Service sentinel; the
// lower-level cause is kept in the message text only (%v), not in the error
// chain. Storage errors that translateStoreErr does not recognize are
// returned unchanged.
var (
	// Validation
	ErrInvalidField     = errors.New("service: invalid field")
	ErrInvalidTransition = errors.New("service: invalid status transition")
	ErrUnknownLinkType  = errors.New("service: unknown link type")
	ErrSelfLink         = errors.New("service: self-link not allowed")
	ErrDuplicateLink    = errors.New("service: duplicate link")

	// Not found
	ErrIssueNotFound = errors.New("service: issue not found")
	ErrLinkNotFound  = errors.New("service: link not found")

	// Storage
	ErrStoreBusy      = errors.New("service: store busy")
	ErrTimeout        = errors.New("service: timeout")
	ErrSchemaMismatch = errors.New("service: schema version mismatch")
	ErrIoError        = errors.New("service: io error")

	// Internal
	ErrIdExhaustion = errors.New("service: id minting exhausted retries")
	ErrInvariant    = errors.New("service: invariant violation")

	// ErrNoChange is returned by Update when the submitted fields are
	// identical to the stored issue (Testable Property 9, idempotence).
	// It is not treated as a failure by callers.
	ErrNoChange = errors.New("service: no change")
)

// ErrCycleDetected wraps graph.ErrCycleDetected so callers outside this
// package don't need to import internal/graph to inspect Path.
type ErrCycleDetected struct {
	Path []string
}

func (e *ErrCycleDetected) Error() string {
	return fmt.Sprintf("service: cycle detected: %v", e.Path)
}

// ErrGraphCorrupt wraps graph.ErrGraphCorrupt the same way.
type ErrGraphCorrupt struct {
	Nodes []string
}

func (e *ErrGraphCorrupt) Error() string {
	return fmt.Sprintf("service: graph corrupt: %v", e.Nodes)
}

// wrapGraphErr translates a graph package error into its service-level
// equivalent, or returns err unchanged if it isn't one GraphEngine raises.
func wrapGraphErr(err error) error {
	if err == nil {
		return nil
	}
	if cyc, ok := graph.AsCycleDetected(err); ok {
		return &ErrCycleDetected{Path: cyc.Path}
	}
	var corrupt *graph.ErrGraphCorrupt
	if errors.As(err, &corrupt) {
		return &ErrGraphCorrupt{Nodes: corrupt.Nodes}
	}
	return err
}
