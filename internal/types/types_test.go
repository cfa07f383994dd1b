package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStatusIsValid(t *testing.T) {
	require.True(t, StatusOpen.IsValid())
	require.True(t, StatusInProgress.IsValid())
	require.True(t, StatusBlocked.IsValid())
	require.True(t, StatusClosed.IsValid())
	require.False(t, Status("invalid").IsValid())
	require.False(t, Status("").IsValid())
}

func TestIssueTypeIsValid(t *testing.T) {
	for _, typ := range []IssueType{TypeBug, TypeFeature, TypeTask, TypeEpic, TypeChore, TypeSpike, TypeDoc} {
		require.True(t, typ.IsValid(), typ)
	}
	require.False(t, IssueType("invalid").IsValid())
}

func TestLinkTypeIsBlocking(t *testing.T) {
	for _, typ := range []LinkType{LinkBlocks, LinkBlockedBy, LinkDependsOn, LinkRequiredBy} {
		require.True(t, typ.IsBlocking(), typ)
	}
	for _, typ := range []LinkType{LinkRelatesTo, LinkDuplicates, LinkParentOf, LinkFixes} {
		require.False(t, typ.IsBlocking(), typ)
	}
}

// S4 — Inverse normalization: "dep add A B --type blocked_by" is stored as
// a single link "B blocks A".
func TestLinkCanonicalizeBlockedBy(t *testing.T) {
	l := Link{From: "A", To: "B", Type: LinkBlockedBy}.Canonicalize()
	require.Equal(t, "B", l.From)
	require.Equal(t, "A", l.To)
	require.Equal(t, LinkBlocks, l.Type)
}

// Spec: depends_on (= blocked_by) — "A depends_on B" means A cannot proceed
// until B is done, i.e. "B blocks A", so depends_on flips from/to exactly
// like blocked_by does.
func TestLinkCanonicalizeDependsOn(t *testing.T) {
	l := Link{From: "A", To: "B", Type: LinkDependsOn}.Canonicalize()
	require.Equal(t, "B", l.From)
	require.Equal(t, "A", l.To)
	require.Equal(t, LinkBlocks, l.Type)
}

func TestLinkCanonicalizeRequiredBy(t *testing.T) {
	// required_by is a synonym for blocks in the same direction, not an
	// inverse: "A required_by B" means "B blocks A" is wrong — required_by
	// keeps from/to but renames to blocks (it is the forward alias).
	l := Link{From: "A", To: "B", Type: LinkRequiredBy}.Canonicalize()
	require.Equal(t, "A", l.From)
	require.Equal(t, "B", l.To)
	require.Equal(t, LinkBlocks, l.Type)
}

func TestLinkCanonicalizeAlreadyCanonical(t *testing.T) {
	l := Link{From: "A", To: "B", Type: LinkBlocks}.Canonicalize()
	require.Equal(t, Link{From: "A", To: "B", Type: LinkBlocks}, l)
}

func TestLinkCanonicalizeInformationalInverse(t *testing.T) {
	l := Link{From: "A", To: "B", Type: LinkChildOf}.Canonicalize()
	require.Equal(t, "B", l.From)
	require.Equal(t, "A", l.To)
	require.Equal(t, LinkParentOf, l.Type)
}

func TestComputeContentHashStable(t *testing.T) {
	h1 := ComputeContentHash("Title", "Desc", TypeBug, 2, "alice", []string{"a", "b"})
	h2 := ComputeContentHash("Title", "Desc", TypeBug, 2, "alice", []string{"a", "b"})
	require.Equal(t, h1, h2)

	h3 := ComputeContentHash("Title", "Desc", TypeBug, 2, "alice", []string{"a", "c"})
	require.NotEqual(t, h1, h3)
}

// S1 — Ready ordering: p=2 task A, p=0 bug B, p=0 bug C updated later than
// B → [C, B, A].
func TestReadySort(t *testing.T) {
	now := time.Now()
	a := &Issue{ID: "a", Priority: 2, UpdatedAt: now}
	b := &Issue{ID: "b", Priority: 0, UpdatedAt: now}
	c := &Issue{ID: "c", Priority: 0, UpdatedAt: now.Add(time.Hour)}

	issues := []*Issue{a, b, c}
	ReadySort(issues)

	require.Equal(t, []string{"c", "b", "a"}, idsOf(issues))
}

func TestReadySortTiebreakByID(t *testing.T) {
	now := time.Now()
	a := &Issue{ID: "z", Priority: 0, UpdatedAt: now}
	b := &Issue{ID: "a", Priority: 0, UpdatedAt: now}

	issues := []*Issue{a, b}
	ReadySort(issues)

	require.Equal(t, []string{"a", "z"}, idsOf(issues))
}

func idsOf(issues []*Issue) []string {
	ids := make([]string, len(issues))
	for i, iss := range issues {
		ids[i] = iss.ID
	}
	return ids
}
