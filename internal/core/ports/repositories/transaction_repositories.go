package repositories

import (
	"context"

	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
)

// TransactionRequestReader loads caller-created requests.
type TransactionRequestReader interface {
	// FindRequestByID returns the request with the given ID. It fails with ErrNotFound when
	// absent and ErrDataIntegrity when more than one row shares the ID.
	FindRequestByID(ctx context.Context, transactionID string) (*domain.TransactionRequest, error)
}

// TransactionRequestWriter registers new requests.
type TransactionRequestWriter interface {
	SaveRequest(ctx context.Context, req domain.TransactionRequest) error
}

// TransactionOutcomeSupport defines outcome writes made inside a unit of work.
type TransactionOutcomeSupport interface {
	// OutcomeExists reports whether an outcome for the transaction ID is committed or already
	// written in uow.
	OutcomeExists(ctx context.Context, uow UnitOfWork, transactionID string) (bool, error)

	// InsertOutcome stores a new outcome. Fails with ErrDuplicateTransaction if one already
	// exists for the transaction ID.
	InsertOutcome(ctx context.Context, uow UnitOfWork, outcome domain.TransactionOutcome) error

	// UpdateOutcomeStatus moves a provisionally written outcome to its terminal status. Fails
	// with ErrDataIntegrity if the outcome is already terminal.
	UpdateOutcomeStatus(ctx context.Context, uow UnitOfWork, transactionID string, status domain.TransactionStatus) error
}

// TransactionOutcomeReader reads committed outcomes.
type TransactionOutcomeReader interface {
	FindOutcomeByID(ctx context.Context, transactionID string) (*domain.TransactionOutcome, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionRequestReader
	TransactionRequestWriter
	TransactionOutcomeSupport
	TransactionOutcomeReader
}
