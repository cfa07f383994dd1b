package graph

import (
	"sort"
	"time"

	"github.com/steveyegge/beads/internal/types"
)

// Orphans returns open/in_progress issues with no links of any kind in
// either direction, sorted updated_at descending (most recently touched
// first). blocked and closed issues are excluded: a blocked issue is
// blocked on something, so it is never actually orphaned.
func (e *Engine) Orphans() []*Node {
	var out []*Node
	for _, n := range e.nodes {
		if n.Status != types.StatusOpen && n.Status != types.StatusInProgress {
			continue
		}
		if n.LinkCount == 0 {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

// DefaultStaleHorizon is the 30-day threshold spec.md §4.4 specifies when
// a caller doesn't supply one.
const DefaultStaleHorizon = 30 * 24 * time.Hour

// Stale returns open/in_progress issues whose updated_at precedes
// now.Add(-horizon), oldest first. A zero horizon falls back to
// DefaultStaleHorizon.
func (e *Engine) Stale(now time.Time, horizon time.Duration) []*Node {
	if horizon <= 0 {
		horizon = DefaultStaleHorizon
	}
	cutoff := now.Add(-horizon)

	var out []*Node
	for _, n := range e.nodes {
		if n.Status != types.StatusOpen && n.Status != types.StatusInProgress {
			continue
		}
		if n.UpdatedAt.Before(cutoff) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	return out
}
