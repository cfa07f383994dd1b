package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/steveyegge/beads/internal/service"
	"github.com/steveyegge/beads/internal/storage"
)

// exitCode maps a Service error to spec.md §6's fixed exit codes: 0
// success, 1 user error (validation, not-found, cycle), 2 engine/store
// error, 3 schema mismatch.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, storage.ErrSchemaMismatch), errors.Is(err, service.ErrSchemaMismatch):
		return 3
	case errors.Is(err, service.ErrInvalidField),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrUnknownLinkType),
		errors.Is(err, service.ErrSelfLink),
		errors.Is(err, service.ErrDuplicateLink),
		errors.Is(err, service.ErrIssueNotFound),
		errors.Is(err, service.ErrLinkNotFound):
		return 1
	default:
		var cyc *service.ErrCycleDetected
		if errors.As(err, &cyc) {
			return 1
		}
		return 2
	}
}

// exitWithErr renders err (as JSON on stdout when --json is set, else
// plain text on stderr) and exits with the code exitCode maps it to.
func exitWithErr(err error) {
	code := exitCode(err)
	if jsonOutput {
		data, _ := json.MarshalIndent(map[string]string{"error": err.Error()}, "", "  ")
		fmt.Println(string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(code)
}
