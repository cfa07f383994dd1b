package sqlite

import (
	"context"
	"database/sql"
)

// GetMeta reads a singleton key from the meta table (schema_version,
// issue id prefix, and similar store-level settings). Returns "", nil if
// unset.
func (t *tx) GetMeta(ctx context.Context, key string) (string, error) {
	if err := t.checkOpen(); err != nil {
		return "", err
	}
	var value string
	err := t.conn.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, wrapDBErrorf(err, "get meta %s", key)
}

// SetMeta upserts a singleton key in the meta table.
func (t *tx) SetMeta(ctx context.Context, key, value string) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	_, err := t.conn.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value)
	return wrapDBErrorf(err, "set meta %s", key)
}
