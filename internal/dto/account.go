package dto

import (
	"time"

	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	AccountID      string               `json:"accountID"` // Optional, generated when empty
	OpeningBalance decimal.Decimal      `json:"openingBalance"`
	Status         domain.AccountStatus `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE FROZEN"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string               `json:"accountID"`
	Balance       decimal.Decimal      `json:"balance"`
	Status        domain.AccountStatus `json:"status"`
	CreatedAt     time.Time            `json:"createdAt"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Balance:       acc.Balance,
		Status:        acc.Status,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}
