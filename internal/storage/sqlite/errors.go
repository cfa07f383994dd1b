package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is the row-level sentinel this package's wrap helpers
// normalize sql.ErrNoRows into. Callers that need the storage package's
// backend-agnostic sentinel should check storage.ErrNotFound instead; this
// one only surfaces through wrapDBError/wrapDBErrorf's generic path.
var ErrNotFound = errors.New("sqlite: not found")

// wrapDBError wraps a database error with operation context
// It converts sql.ErrNoRows to ErrNotFound for consistent error handling
func wrapDBError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// wrapDBErrorf wraps a database error with formatted operation context
// It converts sql.ErrNoRows to ErrNotFound for consistent error handling
func wrapDBErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	op := fmt.Sprintf(format, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isNotFound checks if an error is or wraps ErrNotFound
func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
