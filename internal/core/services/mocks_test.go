package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_txn_processor/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockUnitOfWork is a mock type for the UnitOfWork interface
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockTransactionManager is a mock type for the TransactionManager interface
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) Begin(ctx context.Context) (portsrepo.UnitOfWork, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(portsrepo.UnitOfWork), args.Error(1)
}

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetForUpdate(ctx context.Context, uow portsrepo.UnitOfWork, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, uow, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, uow portsrepo.UnitOfWork, accountID string, newBalance decimal.Decimal) error {
	args := m.Called(ctx, uow, accountID, newBalance)
	return args.Error(0)
}

// MockTransactionRepository is a mock type for the TransactionRepositoryFacade interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindRequestByID(ctx context.Context, transactionID string) (*domain.TransactionRequest, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionRequest), args.Error(1)
}

func (m *MockTransactionRepository) SaveRequest(ctx context.Context, req domain.TransactionRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockTransactionRepository) OutcomeExists(ctx context.Context, uow portsrepo.UnitOfWork, transactionID string) (bool, error) {
	args := m.Called(ctx, uow, transactionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) InsertOutcome(ctx context.Context, uow portsrepo.UnitOfWork, outcome domain.TransactionOutcome) error {
	args := m.Called(ctx, uow, outcome)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateOutcomeStatus(ctx context.Context, uow portsrepo.UnitOfWork, transactionID string, status domain.TransactionStatus) error {
	args := m.Called(ctx, uow, transactionID, status)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindOutcomeByID(ctx context.Context, transactionID string) (*domain.TransactionOutcome, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionOutcome), args.Error(1)
}

// MockFraudCaseRepository is a mock type for the FraudCaseRepository interface
type MockFraudCaseRepository struct {
	mock.Mock
}

func (m *MockFraudCaseRepository) CountRecent(ctx context.Context, uow portsrepo.UnitOfWork, accountID string, since time.Time) (int, error) {
	args := m.Called(ctx, uow, accountID, since)
	return args.Int(0), args.Error(1)
}

func (m *MockFraudCaseRepository) InsertFraudCase(ctx context.Context, uow portsrepo.UnitOfWork, fraudCase domain.FraudCase) error {
	args := m.Called(ctx, uow, fraudCase)
	return args.Error(0)
}

func (m *MockFraudCaseRepository) ListFraudCasesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.FraudCase, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	var cases []domain.FraudCase
	if args.Get(0) != nil {
		cases = args.Get(0).([]domain.FraudCase)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return cases, token, args.Error(2)
}

// MockAuditRepository is a mock type for the AuditRepository interface
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) InsertAuditEntry(ctx context.Context, uow portsrepo.UnitOfWork, entry domain.AuditEntry) error {
	args := m.Called(ctx, uow, entry)
	return args.Error(0)
}

// MockFraudDetector is a mock type for the FraudDetector interface
type MockFraudDetector struct {
	mock.Mock
}

func (m *MockFraudDetector) Evaluate(ctx context.Context, uow portsrepo.UnitOfWork, accountID string, amount decimal.Decimal, now time.Time) (bool, error) {
	args := m.Called(ctx, uow, accountID, amount, now)
	return args.Bool(0), args.Error(1)
}

// recordingMetrics captures observations for assertions.
type recordingMetrics struct {
	results    []string
	fraudFlags int
}

func (r *recordingMetrics) ObserveOutcome(txnType, result string, seconds float64) {
	r.results = append(r.results, txnType+":"+result)
}

func (r *recordingMetrics) IncFraudFlag() {
	r.fraudFlags++
}
