package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_txn_processor/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_txn_processor/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// pgUnitOfWork is a database transaction handed to repositories through the UnitOfWork port.
type pgUnitOfWork struct {
	tx pgx.Tx
}

// Commit commits the database transaction.
func (u *pgUnitOfWork) Commit(ctx context.Context) error {
	if err := u.tx.Commit(ctx); err != nil {
		return mapPgError(err, "failed to commit transaction", nil)
	}
	return nil
}

// Rollback rolls the database transaction back. Rolling back a committed transaction is a no-op.
func (u *pgUnitOfWork) Rollback(ctx context.Context) error {
	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return mapPgError(err, "failed to rollback transaction", nil)
	}
	return nil
}

// PgxTransactionManager opens units of work on the pool.
type PgxTransactionManager struct {
	BaseRepository
	lockTimeout time.Duration
}

// newPgxTransactionManager creates a manager whose units of work wait at most lockTimeout for a
// row lock. A non-positive timeout leaves the server default in place.
func newPgxTransactionManager(pool *pgxpool.Pool, lockTimeout time.Duration) *PgxTransactionManager {
	return &PgxTransactionManager{
		BaseRepository: BaseRepository{Pool: pool},
		lockTimeout:    lockTimeout,
	}
}

var _ portsrepo.TransactionManager = (*PgxTransactionManager)(nil)

// Begin starts a new database transaction
func (m *PgxTransactionManager) Begin(ctx context.Context) (portsrepo.UnitOfWork, error) {
	tx, err := m.Pool.Begin(ctx)
	if err != nil {
		return nil, mapPgError(err, "failed to begin transaction", nil)
	}

	if m.lockTimeout > 0 {
		// SET does not accept bind parameters.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return nil, mapPgError(err, "failed to set lock timeout", nil)
		}
	}
	return &pgUnitOfWork{tx: tx}, nil
}

// txFrom extracts the database transaction carried by uow.
func txFrom(uow portsrepo.UnitOfWork) (pgx.Tx, error) {
	u, ok := uow.(*pgUnitOfWork)
	if !ok || u == nil || u.tx == nil {
		return nil, apperrors.NewAppError(apperrors.ErrPersistence, "unit of work was not opened by the postgres transaction manager", nil)
	}
	return u.tx, nil
}
