package models

import (
	"github.com/shopspring/decimal"
)

// AccountStatus mirrors the accounts.status column.
type AccountStatus string

// Account is a row of the accounts table.
type Account struct {
	AccountID   string          `db:"account_id"`
	Balance     decimal.Decimal `db:"balance"` // CHECK (balance >= 0)
	Status      AccountStatus   `db:"status"`
	AuditFields                 // Embed common audit fields
}
