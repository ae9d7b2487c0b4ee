package services

import (
	"context"

	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
)

// TransactionProcessorSvc runs the end-to-end transaction workflow.
type TransactionProcessorSvc interface {
	// ProcessTransaction loads the pending request with the given ID and applies it to the
	// ledger in one atomic unit of work. On error nothing is persisted.
	ProcessTransaction(ctx context.Context, transactionID string) (*domain.TransactionOutcome, error)
}

// TransactionRequestSvc registers requests and exposes processed outcomes.
type TransactionRequestSvc interface {
	// SubmitRequest validates and stores a new pending request.
	SubmitRequest(ctx context.Context, req domain.TransactionRequest) (*domain.TransactionRequest, error)

	// GetOutcome returns the committed outcome for a transaction ID.
	GetOutcome(ctx context.Context, transactionID string) (*domain.TransactionOutcome, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionProcessorSvc
	TransactionRequestSvc
}
