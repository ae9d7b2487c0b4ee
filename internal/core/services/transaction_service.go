package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_txn_processor/internal/apperrors"
	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
)

// SubmitRequest validates and stores a pending transaction request. A transaction ID is
// generated when the caller leaves it empty.
func (s *transactionService) SubmitRequest(ctx context.Context, req domain.TransactionRequest) (*domain.TransactionRequest, error) {
	if req.TransactionID == "" {
		req.TransactionID = s.newID()
	}
	req.CreatedAt = s.now()

	if err := req.Validate(); err != nil {
		s.LogWarn(ctx, "Rejected invalid transaction request",
			slog.String("transaction_id", req.TransactionID),
			slog.String("error", err.Error()))
		return nil, apperrors.NewAppError(apperrors.ErrInvalidData, "invalid transaction request", err)
	}

	if err := s.transactions.SaveRequest(ctx, req); err != nil {
		s.LogError(ctx, err, "Failed to save transaction request",
			slog.String("transaction_id", req.TransactionID))
		return nil, storeError(err, fmt.Sprintf("failed to save transaction request %s", req.TransactionID))
	}

	s.LogInfo(ctx, "Transaction request registered",
		slog.String("transaction_id", req.TransactionID),
		slog.String("type", string(req.Type)),
		slog.String("source_account_id", req.SourceAccountID))
	return &req, nil
}

// GetOutcome returns the committed outcome of a transaction.
func (s *transactionService) GetOutcome(ctx context.Context, transactionID string) (*domain.TransactionOutcome, error) {
	outcome, err := s.transactions.FindOutcomeByID(ctx, transactionID)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("failed to get outcome of transaction %s", transactionID))
	}
	return outcome, nil
}
