package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType mirrors the transaction_type enum.
type TransactionType string

// TransactionStatus mirrors the transaction_status enum.
type TransactionStatus string

// TransactionRequest is a row of transaction_requests. Rows are written once by the caller
// and never modified.
type TransactionRequest struct {
	TransactionID   string          `db:"transaction_id"`
	SourceAccountID string          `db:"source_account_id"`
	DestAccountID   string          `db:"dest_account_id"` // Nullable
	TransactionType TransactionType `db:"transaction_type"`
	Amount          decimal.Decimal `db:"amount"`
	CreatedAt       time.Time       `db:"created_at"`
}

// Transaction is a row of the transactions table, the processed outcome of a request.
type Transaction struct {
	TransactionID   string            `db:"transaction_id"` // PK, FK -> transaction_requests
	AccountID       string            `db:"account_id"`
	DestAccountID   string            `db:"dest_account_id"` // Nullable
	TransactionType TransactionType   `db:"transaction_type"`
	Amount          decimal.Decimal   `db:"amount"`
	Timestamp       time.Time         `db:"processed_at"`
	Status          TransactionStatus `db:"status"`
	FraudFlagged    bool              `db:"fraud_flagged"`
}
