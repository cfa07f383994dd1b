// Package sqlite implements storage.Store over an embedded, pure-Go SQLite
// database (ncruces/go-sqlite3, WASM-compiled, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver" // registers database/sql driver "sqlite3"
	_ "github.com/ncruces/go-sqlite3/embed"  // embeds the WASM SQLite build

	"github.com/steveyegge/beads/internal/storage"
	"github.com/steveyegge/beads/internal/types"
)

// Storage implements storage.Store on top of database/sql + the
// ncruces/go-sqlite3 driver.
type Storage struct {
	db     *sql.DB
	path   string
	closed atomic.Bool
}

// Open creates or opens a SQLite-backed Store at path. ":memory:" opens a
// private, single-connection in-memory database suitable for tests.
// busyTimeout bounds how long a writer waits on lock contention before
// storage.ErrBusy is returned (spec.md's BD_LOCK_TIMEOUT knob).
func Open(ctx context.Context, path string, busyTimeout time.Duration) (*Storage, error) {
	connStr, inMemory, err := buildConnString(path, busyTimeout)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	if inMemory {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(0)
	}

	if !inMemory {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: enable WAL: %w", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: init schema: %w", err)
	}

	s := &Storage{db: db, path: path}
	if err := s.reconcileSchemaVersion(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenReadOnly opens an existing database file without creating it or
// applying schema/WAL changes, for read-only commands (list, show, ready)
// that must never trigger a write on a database another process has open.
// It builds its pragma string with storage.SQLiteConnString, which reads
// BD_LOCK_TIMEOUT itself; the read-write Open path instead builds its own
// string from the busy timeout it is given.
func OpenReadOnly(ctx context.Context, path string) (*Storage, error) {
	connStr := storage.SQLiteConnString(path, true)
	if connStr == "" {
		return nil, fmt.Errorf("sqlite: empty database path")
	}
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open read-only: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping read-only: %w", err)
	}

	s := &Storage{db: db, path: path}
	var version string
	err = db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	if err != nil {
		db.Close()
		return nil, wrapDBError("read schema version", err)
	}
	if version != SchemaVersion {
		db.Close()
		return nil, fmt.Errorf("%w: database is at %q, this binary understands %q", storage.ErrSchemaMismatch, version, SchemaVersion)
	}
	return s, nil
}

// reconcileSchemaVersion stamps a freshly created database with
// SchemaVersion, or rejects an existing one stamped with a version this
// build doesn't understand.
func (s *Storage) reconcileSchemaVersion(ctx context.Context) error {
	var existing string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&existing)
	switch {
	case err == sql.ErrNoRows:
		_, err := s.db.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES ('schema_version', ?)`, SchemaVersion)
		return wrapDBError("stamp schema version", err)
	case err != nil:
		return wrapDBError("read schema version", err)
	case existing != SchemaVersion:
		return fmt.Errorf("%w: database is at %q, this binary understands %q", storage.ErrSchemaMismatch, existing, SchemaVersion)
	default:
		return nil
	}
}

func buildConnString(path string, busyTimeout time.Duration) (connStr string, inMemory bool, err error) {
	timeoutMs := int64(busyTimeout / time.Millisecond)

	if path == ":memory:" {
		return fmt.Sprintf("file:memdb%d?mode=memory&cache=shared&_pragma=journal_mode(DELETE)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(%d)&_time_format=sqlite",
			time.Now().UnixNano(), timeoutMs), true, nil
	}
	if strings.HasPrefix(path, "file:") {
		conn := path
		if !strings.Contains(conn, "_pragma=foreign_keys") {
			conn += fmt.Sprintf("&_pragma=foreign_keys(ON)&_pragma=busy_timeout(%d)&_time_format=sqlite", timeoutMs)
		}
		return conn, strings.Contains(conn, "mode=memory"), nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return "", false, fmt.Errorf("sqlite: create directory %s: %w", dir, err)
		}
	}
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(ON)&_pragma=busy_timeout(%d)&_time_format=sqlite", path, timeoutMs), false, nil
}

// Begin opens a storage.Tx bound to a dedicated connection, so the
// transaction's BEGIN/COMMIT statements land on the same connection as its
// statements regardless of database/sql's pool.
func (s *Storage) Begin(ctx context.Context) (storage.Tx, error) {
	if s.closed.Load() {
		return nil, storage.ErrClosed
	}
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, wrapDBError("acquire connection", err)
	}
	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		conn.Close()
		if isBusyErr(err) {
			return nil, fmt.Errorf("%w: %v", storage.ErrBusy, err)
		}
		return nil, wrapDBError("begin transaction", err)
	}
	return &tx{conn: conn}, nil
}

// WithTx runs fn inside a transaction, committing on a nil return and
// rolling back on any error or panic.
func (s *Storage) WithTx(ctx context.Context, fn func(storage.Tx) error) (err error) {
	t, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	sqltx := t.(*tx)
	defer func() {
		if p := recover(); p != nil {
			sqltx.rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(t); err != nil {
		if rbErr := sqltx.rollback(ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	return sqltx.commit(ctx)
}

// Snapshot materializes a consistent point-in-time view of the issue graph
// for GraphEngine, inside its own read transaction.
func (s *Storage) Snapshot(ctx context.Context) (*storage.Snapshot, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, wrapDBError("acquire connection", err)
	}
	defer conn.Close()
	if _, err := conn.ExecContext(ctx, "BEGIN"); err != nil {
		return nil, wrapDBError("begin snapshot", err)
	}
	defer conn.ExecContext(ctx, "ROLLBACK")

	snap := &storage.Snapshot{
		Issues:   make(map[string]types.Status),
		Blocking: make(map[string][]string),
		TakenAt:  time.Now(),
	}

	rows, err := conn.QueryContext(ctx, `SELECT id, status FROM issues`)
	if err != nil {
		return nil, wrapDBError("snapshot issues", err)
	}
	for rows.Next() {
		var id, status string
		if err := rows.Scan(&id, &status); err != nil {
			rows.Close()
			return nil, wrapDBError("scan snapshot issue", err)
		}
		snap.Issues[id] = types.Status(status)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, wrapDBError("iterate snapshot issues", err)
	}
	rows.Close()

	linkRows, err := conn.QueryContext(ctx, `SELECT from_id, to_id FROM links WHERE type = 'blocks'`)
	if err != nil {
		return nil, wrapDBError("snapshot links", err)
	}
	defer linkRows.Close()
	for linkRows.Next() {
		var from, to string
		if err := linkRows.Scan(&from, &to); err != nil {
			return nil, wrapDBError("scan snapshot link", err)
		}
		snap.Blocking[from] = append(snap.Blocking[from], to)
	}
	if err := linkRows.Err(); err != nil {
		return nil, wrapDBError("iterate snapshot links", err)
	}

	return snap, nil
}

// Close releases the database handle. Safe to call more than once.
func (s *Storage) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

func isBusyErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "locked") || strings.Contains(msg, "busy")
}

var _ storage.Store = (*Storage)(nil)
