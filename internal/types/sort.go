package types

import "sort"

// ReadySort orders issues the way spec.md §4.4 requires for bd ready and
// for each swarm layer: priority ascending, updated_at descending, id
// ascending as the final, fully deterministic tiebreaker.
func ReadySort(issues []*Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ID < b.ID
	})
}
