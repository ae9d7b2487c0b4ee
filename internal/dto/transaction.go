package dto

import (
	"time"

	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SubmitTransactionRequest is the payload used to register a pending transaction request.
type SubmitTransactionRequest struct {
	TransactionID   string                 `json:"transactionID"` // Optional, generated when empty
	SourceAccountID string                 `json:"sourceAccountID" binding:"required"`
	DestAccountID   string                 `json:"destAccountID"`
	Type            domain.TransactionType `json:"type" binding:"required,oneof=DEPOSIT WITHDRAWAL TRANSFER"`
	Amount          decimal.Decimal        `json:"amount"`
}

// ToDomain converts the payload into a domain request.
func (r SubmitTransactionRequest) ToDomain() domain.TransactionRequest {
	return domain.TransactionRequest{
		TransactionID:   r.TransactionID,
		SourceAccountID: r.SourceAccountID,
		DestAccountID:   r.DestAccountID,
		Type:            r.Type,
		Amount:          r.Amount,
	}
}

// TransactionRequestResponse mirrors domain.TransactionRequest.
type TransactionRequestResponse struct {
	TransactionID   string                 `json:"transactionID"`
	SourceAccountID string                 `json:"sourceAccountID"`
	DestAccountID   string                 `json:"destAccountID,omitempty"`
	Type            domain.TransactionType `json:"type"`
	Amount          decimal.Decimal        `json:"amount"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// ToTransactionRequestResponse converts a domain request to its response DTO
func ToTransactionRequestResponse(req *domain.TransactionRequest) TransactionRequestResponse {
	return TransactionRequestResponse{
		TransactionID:   req.TransactionID,
		SourceAccountID: req.SourceAccountID,
		DestAccountID:   req.DestAccountID,
		Type:            req.Type,
		Amount:          req.Amount,
		CreatedAt:       req.CreatedAt,
	}
}

// TransactionOutcomeResponse mirrors domain.TransactionOutcome.
type TransactionOutcomeResponse struct {
	TransactionID string                   `json:"transactionID"`
	AccountID     string                   `json:"accountID"`
	DestAccountID string                   `json:"destAccountID,omitempty"`
	Type          domain.TransactionType   `json:"type"`
	Amount        decimal.Decimal          `json:"amount"`
	Timestamp     time.Time                `json:"timestamp"`
	Status        domain.TransactionStatus `json:"status"`
	FraudFlagged  bool                     `json:"fraudFlagged"`
}

// ToTransactionOutcomeResponse converts a domain outcome to its response DTO
func ToTransactionOutcomeResponse(o *domain.TransactionOutcome) TransactionOutcomeResponse {
	return TransactionOutcomeResponse{
		TransactionID: o.TransactionID,
		AccountID:     o.AccountID,
		DestAccountID: o.DestAccountID,
		Type:          o.Type,
		Amount:        o.Amount,
		Timestamp:     o.Timestamp,
		Status:        o.Status,
		FraudFlagged:  o.FraudFlagged,
	}
}

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	Retryable bool   `json:"retryable"`
}
