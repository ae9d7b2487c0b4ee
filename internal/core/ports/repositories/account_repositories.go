package repositories

import (
	"context"

	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data outside of a unit of work.
type AccountReader interface {
	// FindAccountByID retrieves an account by its ID without locking it.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data outside of a unit of work.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountTransactionSupport defines the ledger operations used inside a unit of work.
type AccountTransactionSupport interface {
	// GetForUpdate loads the account and takes an exclusive lock on it that is held until the
	// unit of work ends.
	GetForUpdate(ctx context.Context, uow UnitOfWork, accountID string) (*domain.Account, error)

	// UpdateBalance sets the balance of a locked account.
	UpdateBalance(ctx context.Context, uow UnitOfWork, accountID string, newBalance decimal.Decimal) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
