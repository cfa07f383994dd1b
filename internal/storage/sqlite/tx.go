package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/steveyegge/beads/internal/storage"
)

// tx implements storage.Tx on a single dedicated *sql.Conn for the
// lifetime of one BEGIN IMMEDIATE ... COMMIT/ROLLBACK unit.
type tx struct {
	conn *sql.Conn
	done atomic.Bool
}

func (t *tx) commit(ctx context.Context) error {
	if !t.done.CompareAndSwap(false, true) {
		return nil
	}
	defer t.conn.Close()
	_, err := t.conn.ExecContext(ctx, "COMMIT")
	return wrapDBError("commit", err)
}

func (t *tx) rollback(ctx context.Context) error {
	if !t.done.CompareAndSwap(false, true) {
		return nil
	}
	defer t.conn.Close()
	_, err := t.conn.ExecContext(ctx, "ROLLBACK")
	return wrapDBError("rollback", err)
}

var errTxDone = errors.New("sqlite: transaction already committed or rolled back")

func (t *tx) checkOpen() error {
	if t.done.Load() {
		return errTxDone
	}
	return nil
}

func wrapBusy(err error) error {
	if err == nil {
		return nil
	}
	if isBusyErr(err) {
		return fmt.Errorf("%w: %v", storage.ErrBusy, err)
	}
	return err
}

var _ storage.Tx = (*tx)(nil)
