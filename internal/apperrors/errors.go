package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure surfaced by the transaction workflow matches exactly one of these
// through errors.Is.
var (
	// ErrNotFound indicates that a requested transaction request or account could not be found.
	ErrNotFound = errors.New("resource not found")

	// ErrDataIntegrity indicates that more than one row shares an identifier that is assumed unique.
	ErrDataIntegrity = errors.New("data integrity violation")

	// ErrAccountInactive indicates that the targeted account is not ACTIVE.
	ErrAccountInactive = errors.New("account is not active")

	// ErrInsufficientFunds indicates that the locked balance cannot cover the debit.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDuplicateTransaction indicates that an outcome already exists for the transaction ID.
	ErrDuplicateTransaction = errors.New("transaction already processed")

	// ErrInvalidData indicates a type or constraint mismatch on insert, or an invalid request.
	ErrInvalidData = errors.New("invalid data")

	// ErrDuplicateFraudCase indicates a fraud case already exists for the (account, transaction) pair.
	ErrDuplicateFraudCase = errors.New("fraud case already recorded")

	// ErrPersistence is a generic store failure.
	ErrPersistence = errors.New("persistence failure")

	// ErrResourceBusy indicates lock contention, a lock-wait timeout or a deadlock abort.
	ErrResourceBusy = errors.New("resource busy")
)

var kinds = []error{
	ErrNotFound,
	ErrDataIntegrity,
	ErrAccountInactive,
	ErrInsufficientFunds,
	ErrDuplicateTransaction,
	ErrInvalidData,
	ErrDuplicateFraudCase,
	ErrPersistence,
	ErrResourceBusy,
}

// AppError carries an error kind together with the underlying cause.
// errors.Is matches both the kind and anything in the cause chain.
type AppError struct {
	Kind    error
	Message string
	Err     error
}

// NewAppError creates an AppError of the given kind. cause may be nil.
func NewAppError(kind error, message string, cause error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: cause}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

// Unwrap exposes both the kind and the cause.
func (e *AppError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the first kind that err matches, or nil when err is outside the taxonomy.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// IsBusinessRejection reports whether err is a business-rule rejection. These are not
// retryable as-is.
func IsBusinessRejection(err error) bool {
	switch KindOf(err) {
	case ErrNotFound, ErrAccountInactive, ErrInsufficientFunds,
		ErrDuplicateTransaction, ErrDuplicateFraudCase, ErrInvalidData:
		return true
	}
	return false
}

// IsRetryable reports whether err is an infrastructure failure the caller may retry.
// Errors outside the taxonomy are treated as infrastructure failures.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !IsBusinessRejection(err)
}

// KindName returns a stable, machine-readable name for the kind of err.
func KindName(err error) string {
	switch KindOf(err) {
	case ErrNotFound:
		return "NOT_FOUND"
	case ErrDataIntegrity:
		return "DATA_INTEGRITY_ERROR"
	case ErrAccountInactive:
		return "ACCOUNT_INACTIVE"
	case ErrInsufficientFunds:
		return "INSUFFICIENT_FUNDS"
	case ErrDuplicateTransaction:
		return "DUPLICATE_TRANSACTION"
	case ErrInvalidData:
		return "INVALID_DATA"
	case ErrDuplicateFraudCase:
		return "DUPLICATE_FRAUD_CASE"
	case ErrPersistence:
		return "PERSISTENCE_ERROR"
	case ErrResourceBusy:
		return "RESOURCE_BUSY"
	}
	return "INTERNAL"
}
