package services

import (
	"context"
	"time"

	portsrepo "github.com/SscSPs/ledger_txn_processor/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_txn_processor/internal/dto"
	"github.com/shopspring/decimal"
)

// FraudDetector decides whether a transaction is suspicious. It never mutates state.
type FraudDetector interface {
	Evaluate(ctx context.Context, uow portsrepo.UnitOfWork, accountID string, amount decimal.Decimal, now time.Time) (bool, error)
}

// FraudCaseReaderSvc exposes recorded fraud cases for review.
type FraudCaseReaderSvc interface {
	// ListFraudCasesByAccount retrieves a page of an account's fraud cases, newest first.
	ListFraudCasesByAccount(ctx context.Context, accountID string, params dto.ListFraudCasesParams) (*dto.ListFraudCasesResponse, error)
}
