package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/steveyegge/beads/internal/storage"
	"github.com/steveyegge/beads/internal/types"
)

// PutLink inserts a canonical link. Callers are responsible for having run
// types.Link.Canonicalize first; PutLink does not rewrite inverse spellings
// itself so Service's duplicate/self-link checks see the same triple that
// lands in the table.
func (t *tx) PutLink(ctx context.Context, link types.Link) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	ts := link.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := t.conn.ExecContext(ctx, `
		INSERT INTO links (from_id, to_id, type, created_at) VALUES (?, ?, ?, ?)
	`, link.From, link.To, string(link.Type), ts.UTC().Format(sqliteTimeLayout))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("put link %s-%s-%s: %w", link.From, link.Type, link.To, storage.ErrAlreadyExists)
		}
		return wrapBusy(wrapDBErrorf(err, "put link %s-%s-%s", link.From, link.Type, link.To))
	}
	return nil
}

// DeleteLink removes a canonical link.
func (t *tx) DeleteLink(ctx context.Context, from, to string, typ types.LinkType) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	res, err := t.conn.ExecContext(ctx, `
		DELETE FROM links WHERE from_id = ? AND to_id = ? AND type = ?
	`, from, to, string(typ))
	if err != nil {
		return wrapDBErrorf(err, "delete link %s-%s-%s", from, typ, to)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBErrorf(err, "delete link %s-%s-%s: rows affected", from, typ, to)
	}
	if n == 0 {
		return fmt.Errorf("delete link %s-%s-%s: %w", from, typ, to, storage.ErrLinkNotFound)
	}
	return nil
}

// LinksFrom returns every canonical link whose From is id.
func (t *tx) LinksFrom(ctx context.Context, id string) ([]types.Link, error) {
	return t.queryLinks(ctx, `SELECT from_id, to_id, type, created_at FROM links WHERE from_id = ?`, id)
}

// LinksTo returns every canonical link whose To is id.
func (t *tx) LinksTo(ctx context.Context, id string) ([]types.Link, error) {
	return t.queryLinks(ctx, `SELECT from_id, to_id, type, created_at FROM links WHERE to_id = ?`, id)
}

// AllLinks returns every stored link.
func (t *tx) AllLinks(ctx context.Context) ([]types.Link, error) {
	return t.queryLinks(ctx, `SELECT from_id, to_id, type, created_at FROM links`)
}

func (t *tx) queryLinks(ctx context.Context, query string, args ...any) ([]types.Link, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}
	rows, err := t.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("query links", err)
	}
	defer rows.Close()

	var links []types.Link
	for rows.Next() {
		var from, to, typ, created string
		if err := rows.Scan(&from, &to, &typ, &created); err != nil {
			return nil, wrapDBError("scan link", err)
		}
		links = append(links, types.Link{
			From:      from,
			To:        to,
			Type:      types.LinkType(typ),
			CreatedAt: parseTimeString(created),
		})
	}
	return links, wrapDBError("iterate links", rows.Err())
}
