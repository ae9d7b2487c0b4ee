package domain

import (
	"github.com/shopspring/decimal"
)

// AccountStatus is the lifecycle state of a ledger account.
type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountInactive AccountStatus = "INACTIVE"
	AccountFrozen   AccountStatus = "FROZEN"
)

// IsValid reports whether s is one of the known statuses.
func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountActive, AccountInactive, AccountFrozen:
		return true
	}
	return false
}

// Account is a ledger account. Its balance is only mutated by the transaction processor while
// the row is locked.
type Account struct {
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
	Status    AccountStatus   `json:"status"`
	AuditFields
}

// IsActive reports whether the account may take part in a transaction.
func (a Account) IsActive() bool {
	return a.Status == AccountActive
}

// CanCover reports whether the balance covers a debit of amount.
func (a Account) CanCover(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}
