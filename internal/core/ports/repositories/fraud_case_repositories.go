package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
)

// FraudCaseRepository stores fraud flags.
type FraudCaseRepository interface {
	// CountRecent counts fraud cases of the account detected at or after since.
	CountRecent(ctx context.Context, uow UnitOfWork, accountID string, since time.Time) (int, error)

	// InsertFraudCase stores a new case. Fails with ErrDuplicateFraudCase if the
	// (account, transaction) pair already has one.
	InsertFraudCase(ctx context.Context, uow UnitOfWork, fraudCase domain.FraudCase) error

	// ListFraudCasesByAccount retrieves committed cases of an account, newest first, using
	// token-based pagination. The returned token is nil on the last page.
	ListFraudCasesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.FraudCase, *string, error)
}
