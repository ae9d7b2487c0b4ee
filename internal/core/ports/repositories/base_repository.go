package repositories

import (
	"context"
)

// UnitOfWork is a scoped, all-or-nothing handle. Every store call made with the same handle
// belongs to the same atomic unit; row locks taken through it are held until Commit or
// Rollback. Rollback after a successful Commit is a no-op, so callers may always defer it.
type UnitOfWork interface {
	// Commit atomically publishes every write made through the handle.
	Commit(ctx context.Context) error

	// Rollback discards every write made through the handle and releases its locks.
	Rollback(ctx context.Context) error
}

// TransactionManager opens units of work.
type TransactionManager interface {
	// Begin starts a new unit of work.
	Begin(ctx context.Context) (UnitOfWork, error)
}
