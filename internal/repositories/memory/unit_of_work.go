package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/ledger_txn_processor/internal/apperrors"
	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
	"github.com/shopspring/decimal"
)

// unitOfWork stages writes until Commit. It may be used from one goroutine at a time per
// call, but the mutex keeps accidental sharing safe.
type unitOfWork struct {
	store *Store

	mu         sync.Mutex
	done       bool
	held       map[string]struct{}
	balances   map[string]decimal.Decimal
	outcomes   map[string]domain.TransactionOutcome
	fraudCases map[fraudKey]domain.FraudCase
	audit      []domain.AuditEntry
}

func newUnitOfWork(store *Store) *unitOfWork {
	return &unitOfWork{
		store:      store,
		held:       make(map[string]struct{}),
		balances:   make(map[string]decimal.Decimal),
		outcomes:   make(map[string]domain.TransactionOutcome),
		fraudCases: make(map[fraudKey]domain.FraudCase),
	}
}

// Commit publishes the staged writes atomically and releases every lock. If publishing fails
// nothing is applied.
func (u *unitOfWork) Commit(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return apperrors.NewAppError(apperrors.ErrPersistence, "unit of work already finished", nil)
	}
	u.done = true
	defer u.releaseLocked()

	if err := ctx.Err(); err != nil {
		return apperrors.NewAppError(apperrors.ErrResourceBusy, "context done before commit", err)
	}
	return u.store.apply(u)
}

// Rollback discards the staged writes and releases every lock. It is a no-op once the unit
// of work has finished.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return nil
	}
	u.done = true
	u.releaseLocked()
	return nil
}

func (u *unitOfWork) releaseLocked() {
	for id := range u.held {
		u.store.locks.release(id)
	}
	u.held = map[string]struct{}{}
	u.balances = nil
	u.outcomes = nil
	u.fraudCases = nil
	u.audit = nil
}

func (u *unitOfWork) closed() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.done
}

func (u *unitOfWork) holds(accountID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.held[accountID]
	return ok
}

func (u *unitOfWork) hold(accountID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.held[accountID] = struct{}{}
}

func (u *unitOfWork) stagedBalance(accountID string) (decimal.Decimal, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	b, ok := u.balances[accountID]
	return b, ok
}

func (u *unitOfWork) stageBalance(accountID string, balance decimal.Decimal) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.balances[accountID] = balance
}

func (u *unitOfWork) hasOutcome(transactionID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.outcomes[transactionID]
	return ok
}

func (u *unitOfWork) stageOutcome(outcome domain.TransactionOutcome) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.outcomes[outcome.TransactionID] = outcome
}

func (u *unitOfWork) outcomeStatus(transactionID string) (domain.TransactionStatus, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	outcome, ok := u.outcomes[transactionID]
	return outcome.Status, ok
}

func (u *unitOfWork) setOutcomeStatus(transactionID string, status domain.TransactionStatus) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	outcome, ok := u.outcomes[transactionID]
	if !ok {
		return false
	}
	outcome.Status = status
	u.outcomes[transactionID] = outcome
	return true
}

func (u *unitOfWork) stagedFraudCases() []domain.FraudCase {
	u.mu.Lock()
	defer u.mu.Unlock()
	cases := make([]domain.FraudCase, 0, len(u.fraudCases))
	for _, fc := range u.fraudCases {
		cases = append(cases, fc)
	}
	return cases
}

// stageFraudCase reports false if the pair is already staged.
func (u *unitOfWork) stageFraudCase(key fraudKey, fc domain.FraudCase) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, exists := u.fraudCases[key]; exists {
		return false
	}
	u.fraudCases[key] = fc
	return true
}

func (u *unitOfWork) stageAudit(entry domain.AuditEntry) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.audit = append(u.audit, entry)
}
