package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/steveyegge/beads/internal/types"
	"github.com/stretchr/testify/require"
)

func TestValidateTitle(t *testing.T) {
	require.NoError(t, ValidateTitle("Fix login bug"))
	require.Error(t, ValidateTitle(""))
	require.Error(t, ValidateTitle("   "))
	require.Error(t, ValidateTitle(strings.Repeat("a", MaxTitleLength+1)))
	require.NoError(t, ValidateTitle(strings.Repeat("a", MaxTitleLength)))
	require.Error(t, ValidateTitle("line one\nline two"))
}

func TestValidateDescription(t *testing.T) {
	require.NoError(t, ValidateDescription(""))
	require.NoError(t, ValidateDescription(strings.Repeat("a", MaxDescriptionBytes)))
	require.Error(t, ValidateDescription(strings.Repeat("a", MaxDescriptionBytes+1)))
}

func TestValidatePriorityInt(t *testing.T) {
	for p := 0; p <= 4; p++ {
		require.NoError(t, ValidatePriorityInt(p))
	}
	require.Error(t, ValidatePriorityInt(-1))
	require.Error(t, ValidatePriorityInt(5))
}

func TestValidateIssueType(t *testing.T) {
	require.NoError(t, ValidateIssueType(types.TypeBug))
	require.Error(t, ValidateIssueType(types.IssueType("merge-request")))
}

func TestValidateLabel(t *testing.T) {
	require.NoError(t, ValidateLabel("backend"))
	require.NoError(t, ValidateLabel("area/storage"))
	require.NoError(t, ValidateLabel("p0"))
	require.Error(t, ValidateLabel(""))
	require.Error(t, ValidateLabel("Backend")) // uppercase not allowed
	require.Error(t, ValidateLabel("-leading-dash"))
	require.Error(t, ValidateLabel(strings.Repeat("a", 65)))
}

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		from, to types.Status
		ok       bool
	}{
		{types.StatusOpen, types.StatusInProgress, true},
		{types.StatusOpen, types.StatusBlocked, true},
		{types.StatusOpen, types.StatusClosed, true},
		{types.StatusInProgress, types.StatusOpen, true},
		{types.StatusInProgress, types.StatusBlocked, true},
		{types.StatusInProgress, types.StatusClosed, true},
		{types.StatusBlocked, types.StatusOpen, true},
		{types.StatusBlocked, types.StatusInProgress, true},
		{types.StatusBlocked, types.StatusClosed, true},
		{types.StatusClosed, types.StatusOpen, true},
		{types.StatusClosed, types.StatusInProgress, false},
		{types.StatusClosed, types.StatusBlocked, false},
		{types.StatusOpen, types.StatusOpen, true},
	}
	for _, c := range cases {
		err := ValidateTransition(c.from, c.to)
		if c.ok {
			require.NoError(t, err, "%s -> %s", c.from, c.to)
		} else {
			require.Error(t, err, "%s -> %s", c.from, c.to)
			require.True(t, errors.Is(err, ErrInvalidTransition))
		}
	}
}

func TestValidateClose(t *testing.T) {
	require.NoError(t, ValidateClose("fixed in a1b2c3d"))
	require.Error(t, ValidateClose(""))
	require.Error(t, ValidateClose("   "))
}

func TestValidateIssue(t *testing.T) {
	issue := &types.Issue{
		Title:    "Fix login bug",
		Type:     types.TypeBug,
		Priority: 1,
		Status:   types.StatusOpen,
		Labels:   []string{"backend", "area/auth"},
	}
	require.NoError(t, ValidateIssue(issue))

	closed := *issue
	closed.Status = types.StatusClosed
	require.Error(t, ValidateIssue(&closed)) // missing close reason

	closed.CloseReason = "fixed"
	require.NoError(t, ValidateIssue(&closed))

	badLabel := *issue
	badLabel.Labels = []string{"Bad Label"}
	require.Error(t, ValidateIssue(&badLabel))
}

func TestValidateLink(t *testing.T) {
	require.NoError(t, ValidateLink(types.Link{From: "a", To: "b", Type: types.LinkBlocks}))
	require.Error(t, ValidateLink(types.Link{From: "a", To: "a", Type: types.LinkBlocks}))
	require.Error(t, ValidateLink(types.Link{From: "a", To: "b", Type: types.LinkType("bogus")}))
}

func TestParsePriority(t *testing.T) {
	require.Equal(t, 0, ParsePriority("0"))
	require.Equal(t, 4, ParsePriority("4"))
	require.Equal(t, 2, ParsePriority("P2"))
	require.Equal(t, 2, ParsePriority("p2"))
	require.Equal(t, -1, ParsePriority(""))
	require.Equal(t, -1, ParsePriority("P9"))
	require.Equal(t, -1, ParsePriority("nonsense"))
}

func TestValidatePriority(t *testing.T) {
	n, err := ValidatePriority("P3")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	_, err = ValidatePriority("P9")
	require.Error(t, err)
}

func TestParseIssueType(t *testing.T) {
	typ, err := ParseIssueType("bug")
	require.NoError(t, err)
	require.Equal(t, types.TypeBug, typ)

	_, err = ParseIssueType("molecule")
	require.Error(t, err)
}

func TestValidateIDFormat(t *testing.T) {
	prefix, err := ValidateIDFormat("bd-abc12345")
	require.NoError(t, err)
	require.Equal(t, "bd", prefix)

	prefix, err = ValidateIDFormat("")
	require.NoError(t, err)
	require.Equal(t, "", prefix)

	_, err = ValidateIDFormat("noseparator")
	require.Error(t, err)
}
