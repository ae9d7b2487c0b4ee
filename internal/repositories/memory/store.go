// Package memory is an in-process ledger backend. It honours the same unit-of-work contract as
// the Postgres backend: per-account exclusive locks held until commit or rollback, and writes
// that become visible all at once on commit.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/ledger_txn_processor/internal/apperrors"
	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_txn_processor/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_txn_processor/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// DefaultLockTimeout bounds how long GetForUpdate waits for a busy account.
const DefaultLockTimeout = 5 * time.Second

type fraudKey struct {
	accountID     string
	transactionID string
}

// Store holds committed ledger state.
type Store struct {
	mu         sync.RWMutex
	accounts   map[string]domain.Account
	requests   map[string]domain.TransactionRequest
	outcomes   map[string]domain.TransactionOutcome
	fraudCases map[fraudKey]domain.FraudCase
	audit      []domain.AuditEntry

	locks       *lockTable
	lockTimeout time.Duration
}

// NewStore creates an empty store. A non-positive lockTimeout selects DefaultLockTimeout.
func NewStore(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &Store{
		accounts:    make(map[string]domain.Account),
		requests:    make(map[string]domain.TransactionRequest),
		outcomes:    make(map[string]domain.TransactionOutcome),
		fraudCases:  make(map[fraudKey]domain.FraudCase),
		locks:       newLockTable(),
		lockTimeout: lockTimeout,
	}
}

// NewRepositoryProvider exposes the store through every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:       store,
		AccountRepo:     store,
		TransactionRepo: store,
		FraudCaseRepo:   store,
		AuditRepo:       store,
	}
}

var (
	_ portsrepo.TransactionManager          = (*Store)(nil)
	_ portsrepo.AccountRepositoryFacade     = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*Store)(nil)
	_ portsrepo.FraudCaseRepository         = (*Store)(nil)
	_ portsrepo.AuditRepository             = (*Store)(nil)
)

// Begin starts a new unit of work.
func (s *Store) Begin(ctx context.Context) (portsrepo.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrResourceBusy, "context done before unit of work began", err)
	}
	return newUnitOfWork(s), nil
}

func (s *Store) unitOfWork(uow portsrepo.UnitOfWork) (*unitOfWork, error) {
	u, ok := uow.(*unitOfWork)
	if !ok || u == nil || u.store != s {
		return nil, apperrors.NewAppError(apperrors.ErrPersistence, "unit of work does not belong to this store", nil)
	}
	if u.closed() {
		return nil, apperrors.NewAppError(apperrors.ErrPersistence, "unit of work already finished", nil)
	}
	return u, nil
}

// --- Accounts ---

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, fmt.Sprintf("account %s", accountID), nil)
	}
	return &acc, nil
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	if account.Balance.IsNegative() {
		return apperrors.NewAppError(apperrors.ErrInvalidData, fmt.Sprintf("account %s balance cannot be negative", account.AccountID), nil)
	}
	if !domain.FitsMoneyScale(account.Balance) {
		return apperrors.NewAppError(apperrors.ErrInvalidData, fmt.Sprintf("account %s balance %s exceeds the stored scale", account.AccountID, account.Balance), nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[account.AccountID]; exists {
		return apperrors.NewAppError(apperrors.ErrInvalidData, fmt.Sprintf("account %s already exists", account.AccountID), nil)
	}
	s.accounts[account.AccountID] = account
	return nil
}

// SetAccountStatus changes the lifecycle status of a stored account.
func (s *Store) SetAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus) error {
	if !status.IsValid() {
		return apperrors.NewAppError(apperrors.ErrInvalidData, fmt.Sprintf("unknown account status %q", status), nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return apperrors.NewAppError(apperrors.ErrNotFound, fmt.Sprintf("account %s", accountID), nil)
	}
	acc.Status = status
	s.accounts[accountID] = acc
	return nil
}

// GetForUpdate locks the account for the lifetime of uow and returns its current state as
// seen by uow. Locking the same account twice through one uow does not block.
func (s *Store) GetForUpdate(ctx context.Context, uow portsrepo.UnitOfWork, accountID string) (*domain.Account, error) {
	u, err := s.unitOfWork(uow)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	_, exists := s.accounts[accountID]
	s.mu.RUnlock()
	if !exists {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, fmt.Sprintf("account %s", accountID), nil)
	}

	if !u.holds(accountID) {
		if err := s.locks.acquire(ctx, accountID, s.lockTimeout); err != nil {
			return nil, err
		}
		u.hold(accountID)
	}

	s.mu.RLock()
	acc := s.accounts[accountID]
	s.mu.RUnlock()

	if staged, ok := u.stagedBalance(accountID); ok {
		acc.Balance = staged
	}
	return &acc, nil
}

// UpdateBalance stages a new balance for an account locked by uow.
func (s *Store) UpdateBalance(ctx context.Context, uow portsrepo.UnitOfWork, accountID string, newBalance decimal.Decimal) error {
	u, err := s.unitOfWork(uow)
	if err != nil {
		return err
	}
	if !u.holds(accountID) {
		return apperrors.NewAppError(apperrors.ErrPersistence, fmt.Sprintf("account %s is not locked by this unit of work", accountID), nil)
	}
	if newBalance.IsNegative() {
		return apperrors.NewAppError(apperrors.ErrInvalidData, fmt.Sprintf("account %s balance cannot be negative", accountID), nil)
	}
	u.stageBalance(accountID, newBalance)
	return nil
}

// --- Transaction requests and outcomes ---

func (s *Store) FindRequestByID(ctx context.Context, transactionID string) (*domain.TransactionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[transactionID]
	if !ok {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, fmt.Sprintf("transaction request %s", transactionID), nil)
	}
	return &req, nil
}

func (s *Store) SaveRequest(ctx context.Context, req domain.TransactionRequest) error {
	if !domain.FitsMoneyScale(req.Amount) {
		return apperrors.NewAppError(apperrors.ErrInvalidData, fmt.Sprintf("transaction request %s amount %s exceeds the stored scale", req.TransactionID, req.Amount), nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requests[req.TransactionID]; exists {
		return apperrors.NewAppError(apperrors.ErrDuplicateTransaction, fmt.Sprintf("transaction request %s already exists", req.TransactionID), nil)
	}
	s.requests[req.TransactionID] = req
	return nil
}

func (s *Store) InsertOutcome(ctx context.Context, uow portsrepo.UnitOfWork, outcome domain.TransactionOutcome) error {
	u, err := s.unitOfWork(uow)
	if err != nil {
		return err
	}

	s.mu.RLock()
	_, committed := s.outcomes[outcome.TransactionID]
	_, requested := s.requests[outcome.TransactionID]
	s.mu.RUnlock()

	if committed || u.hasOutcome(outcome.TransactionID) {
		return apperrors.NewAppError(apperrors.ErrDuplicateTransaction, fmt.Sprintf("transaction %s", outcome.TransactionID), nil)
	}
	if !requested {
		return apperrors.NewAppError(apperrors.ErrInvalidData, fmt.Sprintf("transaction %s has no request", outcome.TransactionID), nil)
	}
	if !outcome.Amount.IsPositive() {
		return apperrors.NewAppError(apperrors.ErrInvalidData, fmt.Sprintf("transaction %s amount must be positive", outcome.TransactionID), nil)
	}
	u.stageOutcome(outcome)
	return nil
}

func (s *Store) OutcomeExists(ctx context.Context, uow portsrepo.UnitOfWork, transactionID string) (bool, error) {
	u, err := s.unitOfWork(uow)
	if err != nil {
		return false, err
	}

	s.mu.RLock()
	_, committed := s.outcomes[transactionID]
	s.mu.RUnlock()
	return committed || u.hasOutcome(transactionID), nil
}

func (s *Store) UpdateOutcomeStatus(ctx context.Context, uow portsrepo.UnitOfWork, transactionID string, status domain.TransactionStatus) error {
	u, err := s.unitOfWork(uow)
	if err != nil {
		return err
	}
	current, ok := u.outcomeStatus(transactionID)
	if !ok {
		return apperrors.NewAppError(apperrors.ErrNotFound, fmt.Sprintf("transaction %s has no outcome in this unit of work", transactionID), nil)
	}
	if current.IsTerminal() {
		return apperrors.NewAppError(apperrors.ErrDataIntegrity,
			fmt.Sprintf("transaction %s is already %s", transactionID, current), nil)
	}
	u.setOutcomeStatus(transactionID, status)
	return nil
}

func (s *Store) FindOutcomeByID(ctx context.Context, transactionID string) (*domain.TransactionOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	outcome, ok := s.outcomes[transactionID]
	if !ok {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, fmt.Sprintf("transaction %s", transactionID), nil)
	}
	return &outcome, nil
}

// --- Fraud cases ---

func (s *Store) CountRecent(ctx context.Context, uow portsrepo.UnitOfWork, accountID string, since time.Time) (int, error) {
	u, err := s.unitOfWork(uow)
	if err != nil {
		return 0, err
	}

	count := 0
	s.mu.RLock()
	for key, fc := range s.fraudCases {
		if key.accountID == accountID && !fc.DetectedAt.Before(since) {
			count++
		}
	}
	s.mu.RUnlock()

	for _, fc := range u.stagedFraudCases() {
		if fc.AccountID == accountID && !fc.DetectedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *Store) InsertFraudCase(ctx context.Context, uow portsrepo.UnitOfWork, fraudCase domain.FraudCase) error {
	u, err := s.unitOfWork(uow)
	if err != nil {
		return err
	}

	key := fraudKey{accountID: fraudCase.AccountID, transactionID: fraudCase.TransactionID}
	s.mu.RLock()
	_, committed := s.fraudCases[key]
	s.mu.RUnlock()

	if committed || !u.stageFraudCase(key, fraudCase) {
		return apperrors.NewAppError(apperrors.ErrDuplicateFraudCase,
			fmt.Sprintf("account %s transaction %s", fraudCase.AccountID, fraudCase.TransactionID), nil)
	}
	return nil
}

// FraudCases returns the committed fraud cases of an account ordered by detection time.
func (s *Store) FraudCases(accountID string) []domain.FraudCase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var cases []domain.FraudCase
	for key, fc := range s.fraudCases {
		if key.accountID == accountID {
			cases = append(cases, fc)
		}
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].DetectedAt.Before(cases[j].DetectedAt) })
	return cases
}

func (s *Store) ListFraudCasesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.FraudCase, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		afterAt  time.Time
		afterID  string
		hasAfter bool
	)
	if nextToken != nil && *nextToken != "" {
		at, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(apperrors.ErrInvalidData, "invalid nextToken", err)
		}
		afterAt, afterID, hasAfter = at, id, true
	}

	// newest first, id breaks ties
	before := func(a, b domain.FraudCase) bool {
		if !a.DetectedAt.Equal(b.DetectedAt) {
			return a.DetectedAt.After(b.DetectedAt)
		}
		return a.FraudCaseID > b.FraudCaseID
	}

	s.mu.RLock()
	var cases []domain.FraudCase
	for key, fc := range s.fraudCases {
		if key.accountID != accountID {
			continue
		}
		if hasAfter && !before(domain.FraudCase{DetectedAt: afterAt, FraudCaseID: afterID}, fc) {
			continue
		}
		cases = append(cases, fc)
	}
	s.mu.RUnlock()

	sort.Slice(cases, func(i, j int) bool { return before(cases[i], cases[j]) })

	var next *string
	if len(cases) > limit {
		cases = cases[:limit]
		last := cases[limit-1]
		token := pagination.EncodeToken(last.DetectedAt, last.FraudCaseID)
		next = &token
	}
	return cases, next, nil
}

// --- Audit ---

func (s *Store) InsertAuditEntry(ctx context.Context, uow portsrepo.UnitOfWork, entry domain.AuditEntry) error {
	u, err := s.unitOfWork(uow)
	if err != nil {
		return err
	}
	if entry.Action == "" {
		return apperrors.NewAppError(apperrors.ErrInvalidData, "audit action cannot be empty", nil)
	}
	u.stageAudit(entry)
	return nil
}

// AuditEntries returns the committed audit entries of a transaction in insertion order.
func (s *Store) AuditEntries(transactionID string) []domain.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var entries []domain.AuditEntry
	for _, e := range s.audit {
		if e.TransactionID == transactionID {
			entries = append(entries, e)
		}
	}
	return entries
}

// apply publishes the writes staged by u. Called with u's locks still held.
func (s *Store) apply(u *unitOfWork) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range u.outcomes {
		if _, exists := s.outcomes[id]; exists {
			return apperrors.NewAppError(apperrors.ErrDuplicateTransaction, fmt.Sprintf("transaction %s", id), nil)
		}
	}
	for key := range u.fraudCases {
		if _, exists := s.fraudCases[key]; exists {
			return apperrors.NewAppError(apperrors.ErrDuplicateFraudCase,
				fmt.Sprintf("account %s transaction %s", key.accountID, key.transactionID), nil)
		}
	}

	now := time.Now().UTC()
	for id, balance := range u.balances {
		acc := s.accounts[id]
		acc.Balance = balance
		acc.LastUpdatedAt = now
		s.accounts[id] = acc
	}
	for id, outcome := range u.outcomes {
		s.outcomes[id] = outcome
	}
	for key, fc := range u.fraudCases {
		s.fraudCases[key] = fc
	}
	s.audit = append(s.audit, u.audit...)
	return nil
}
