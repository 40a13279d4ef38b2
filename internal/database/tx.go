package database

import (
	"context"
	"database/sql"
)

// Tx is a unit of work against the store.  Repositories accept a Tx
// so the service layer never touches *sql.Tx directly and can be
// exercised with fakes.
type Tx interface {
	Commit() error
	Rollback() error
}

// sqlTx adapts *sql.Tx to Tx.
type sqlTx struct {
	*sql.Tx
}

// TxManager opens transactions on a connection pool.  Each transaction
// checks out one connection which is returned to the pool on Commit or
// Rollback.
type TxManager struct {
	db   *sql.DB
	opts *sql.TxOptions
}

// NewTxManager returns a manager that opens READ COMMITTED
// transactions.  Row locks taken with FOR UPDATE serialise competing
// writers; READ COMMITTED guarantees that the plain reads issued after
// a lock is granted observe whatever the previous holder committed.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db, opts: &sql.TxOptions{Isolation: sql.LevelReadCommitted}}
}

// Begin starts a transaction bound to ctx.  If ctx is cancelled before
// Commit the driver rolls the transaction back.
func (m *TxManager) Begin(ctx context.Context) (Tx, error) {
	tx, err := m.db.BeginTx(ctx, m.opts)
	if err != nil {
		return nil, err
	}
	return &sqlTx{Tx: tx}, nil
}

// Unwrap returns the *sql.Tx behind tx, or nil when tx was not created
// by a TxManager.
func Unwrap(tx Tx) *sql.Tx {
	if t, ok := tx.(*sqlTx); ok {
		return t.Tx
	}
	return nil
}

// Querier is the subset of *sql.DB and *sql.Tx used by repositories.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
