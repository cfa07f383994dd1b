// Package validation implements the Model layer of spec.md §4.3: the
// rules every issue, link and label must satisfy before Service is
// allowed to persist them.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/steveyegge/beads/internal/types"
)

const (
	// MaxTitleLength is spec.md §4.3's title bound.
	MaxTitleLength = 200
	// MaxDescriptionBytes is spec.md §4.3's description bound (64 KiB).
	MaxDescriptionBytes = 64 * 1024
)

var labelRe = regexp.MustCompile(`^[a-z0-9][a-z0-9/_-]{0,63}$`)

// ValidateTitle enforces non-empty, <=200 chars.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("title must be %d characters or less", MaxTitleLength)
	}
	if strings.ContainsAny(title, "\n\r") {
		return fmt.Errorf("title must be a single line")
	}
	return nil
}

// ValidateDescription enforces <=64 KiB; empty is allowed.
func ValidateDescription(desc string) error {
	if len(desc) > MaxDescriptionBytes {
		return fmt.Errorf("description must be %d bytes or less", MaxDescriptionBytes)
	}
	return nil
}

// ValidatePriorityInt enforces priority in 0..4.
func ValidatePriorityInt(p int) error {
	if p < 0 || p > 4 {
		return fmt.Errorf("priority must be between 0 and 4")
	}
	return nil
}

// ValidateIssueType enforces membership in the 7 recognized types.
func ValidateIssueType(t types.IssueType) error {
	if !t.IsValid() {
		return fmt.Errorf("invalid issue type %q", t)
	}
	return nil
}

// ValidateLabel enforces spec.md §4.3's label grammar:
// [a-z0-9][a-z0-9/_-]{0,63}
func ValidateLabel(label string) error {
	if !labelRe.MatchString(label) {
		return fmt.Errorf("invalid label %q: must match [a-z0-9][a-z0-9/_-]{0,63}", label)
	}
	return nil
}

// validTransitions encodes spec.md §4.3's status machine.
var validTransitions = map[types.Status]map[types.Status]bool{
	types.StatusOpen:       {types.StatusInProgress: true, types.StatusBlocked: true, types.StatusClosed: true},
	types.StatusInProgress: {types.StatusOpen: true, types.StatusBlocked: true, types.StatusClosed: true},
	types.StatusBlocked:    {types.StatusOpen: true, types.StatusInProgress: true, types.StatusClosed: true},
	types.StatusClosed:     {types.StatusOpen: true},
}

// ErrInvalidTransition is returned by ValidateTransition for any edge not
// present in spec.md §4.3's status machine.
var ErrInvalidTransition = fmt.Errorf("invalid status transition")

// ValidateTransition checks from -> to against the fixed status machine.
func ValidateTransition(from, to types.Status) error {
	if from == to {
		return nil // no-op transitions are allowed (e.g. re-saving unrelated fields)
	}
	if !from.IsValid() {
		return fmt.Errorf("invalid status %q", from)
	}
	if !to.IsValid() {
		return fmt.Errorf("invalid status %q", to)
	}
	if !validTransitions[from][to] {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// ValidateClose enforces a non-empty close reason, per spec.md §4.3.
func ValidateClose(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("close_reason is required when closing an issue")
	}
	return nil
}

// ValidateIssue runs every stateless Model rule against a candidate issue.
// Store-dependent checks (duplicate ids, link existence) live in Service.
func ValidateIssue(issue *types.Issue) error {
	if err := ValidateTitle(issue.Title); err != nil {
		return err
	}
	if err := ValidateDescription(issue.Description); err != nil {
		return err
	}
	if err := ValidateIssueType(issue.Type); err != nil {
		return err
	}
	if err := ValidatePriorityInt(issue.Priority); err != nil {
		return err
	}
	if !issue.Status.IsValid() {
		return fmt.Errorf("invalid status %q", issue.Status)
	}
	if issue.Status == types.StatusClosed {
		if err := ValidateClose(issue.CloseReason); err != nil {
			return err
		}
	}
	for _, l := range issue.Labels {
		if err := ValidateLabel(l); err != nil {
			return err
		}
	}
	return nil
}

// ErrUnknownLinkType is returned by ValidateLink for any LinkType not in
// the 18 recognized kinds.
var ErrUnknownLinkType = fmt.Errorf("unknown link type")

// ErrSelfLink is returned by ValidateLink when From == To.
var ErrSelfLink = fmt.Errorf("self-link not allowed")

// ValidateLink enforces spec.md §3's link invariants that do not require a
// store lookup: no self-link, recognized type.
func ValidateLink(l types.Link) error {
	if !l.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownLinkType, l.Type)
	}
	if l.From == l.To {
		return fmt.Errorf("%w: %s", ErrSelfLink, l.From)
	}
	return nil
}

// ParsePriority accepts "0".."4" or "P0".."P4" (case-insensitive), with
// surrounding whitespace, and returns -1 for anything else. Grounded on
// the CLI-facing priority parser the teacher exposes for flag values.
func ParsePriority(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return -1
	}
	if len(s) > 1 && (s[0] == 'P' || s[0] == 'p') {
		s = s[1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 4 {
		return -1
	}
	return n
}

// ValidatePriority parses and validates a priority flag value in one step.
func ValidatePriority(s string) (int, error) {
	n := ParsePriority(s)
	if n < 0 {
		return -1, fmt.Errorf("invalid priority %q: must be 0-4 or P0-P4", s)
	}
	return n, nil
}

// ParseIssueType parses a trimmed, case-sensitive issue type string.
func ParseIssueType(s string) (types.IssueType, error) {
	s = strings.TrimSpace(s)
	t := types.IssueType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid issue type %q", s)
	}
	return t, nil
}

var idFormatRe = regexp.MustCompile(`^[^-]+-.+$`)

// ValidateIDFormat checks that an id looks like "<prefix>-<suffix>" and
// returns the prefix. An empty id is allowed (callers that haven't minted
// one yet) and returns an empty prefix.
func ValidateIDFormat(id string) (string, error) {
	if id == "" {
		return "", nil
	}
	if !idFormatRe.MatchString(id) {
		return "", fmt.Errorf("invalid id format %q: expected <prefix>-<suffix>", id)
	}
	return id[:strings.IndexByte(id, '-')], nil
}
