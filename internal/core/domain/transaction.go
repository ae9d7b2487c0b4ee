package domain

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits stored for amounts and balances.
const MoneyScale = 4

// FitsMoneyScale reports whether d can be stored without rounding. Trailing zeros beyond the
// scale are fine.
func FitsMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}

// TransactionType is the kind of balance movement a request asks for.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
	Transfer   TransactionType = "TRANSFER"
)

// Debits reports whether the type takes money out of the source account.
func (t TransactionType) Debits() bool {
	return t == Withdrawal || t == Transfer
}

// TransactionStatus is the state of a TransactionOutcome.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCommitted TransactionStatus = "COMMITTED"
	StatusRejected  TransactionStatus = "REJECTED"
	StatusFailed    TransactionStatus = "FAILED"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusCommitted || s == StatusRejected || s == StatusFailed
}

// TransactionRequest is the caller-created, immutable description of a transaction awaiting
// processing.
type TransactionRequest struct {
	TransactionID   string          `json:"transactionID" validate:"required,max=64"`
	SourceAccountID string          `json:"sourceAccountID" validate:"required,max=64"`
	DestAccountID   string          `json:"destAccountID,omitempty" validate:"omitempty,max=64,nefield=SourceAccountID"`
	Type            TransactionType `json:"type" validate:"required,oneof=DEPOSIT WITHDRAWAL TRANSFER"`
	Amount          decimal.Decimal `json:"amount" validate:"gt=0"`
	CreatedAt       time.Time       `json:"createdAt"`
}

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	// Validate decimals by their numeric value.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Validate checks the request shape: required ids, a known type, a positive amount within
// MoneyScale, and a destination account present iff the type is TRANSFER.
func (r TransactionRequest) Validate() error {
	if err := requestValidator.Struct(r); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", r.Amount)
	}
	if !FitsMoneyScale(r.Amount) {
		return fmt.Errorf("amount %s has more than %d decimal places", r.Amount, MoneyScale)
	}
	if r.Type == Transfer && r.DestAccountID == "" {
		return fmt.Errorf("destination account is required for %s", Transfer)
	}
	if r.Type != Transfer && r.DestAccountID != "" {
		return fmt.Errorf("destination account is only allowed for %s", Transfer)
	}
	return nil
}

// SignedDelta is the change applied to the source account balance.
func (r TransactionRequest) SignedDelta() decimal.Decimal {
	if r.Type.Debits() {
		return r.Amount.Neg()
	}
	return r.Amount
}

// TransactionOutcome is the persisted result of processing a TransactionRequest.
type TransactionOutcome struct {
	TransactionID string            `json:"transactionID"`
	AccountID     string            `json:"accountID"`
	DestAccountID string            `json:"destAccountID,omitempty"`
	Type          TransactionType   `json:"type"`
	Amount        decimal.Decimal   `json:"amount"`
	Timestamp     time.Time         `json:"timestamp"`
	Status        TransactionStatus `json:"status"`
	FraudFlagged  bool              `json:"fraudFlagged"`
}

// NewPendingOutcome builds the provisional outcome for req.
func NewPendingOutcome(req TransactionRequest, now time.Time) TransactionOutcome {
	return TransactionOutcome{
		TransactionID: req.TransactionID,
		AccountID:     req.SourceAccountID,
		DestAccountID: req.DestAccountID,
		Type:          req.Type,
		Amount:        req.Amount,
		Timestamp:     now,
		Status:        StatusPending,
	}
}
