package handlers_test

import (
	"context"

	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_txn_processor/internal/core/ports/services"
	"github.com/SscSPs/ledger_txn_processor/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) ProcessTransaction(ctx context.Context, transactionID string) (*domain.TransactionOutcome, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionOutcome), args.Error(1)
}

func (m *MockTransactionService) SubmitRequest(ctx context.Context, req domain.TransactionRequest) (*domain.TransactionRequest, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionRequest), args.Error(1)
}

func (m *MockTransactionService) GetOutcome(ctx context.Context, transactionID string) (*domain.TransactionOutcome, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionOutcome), args.Error(1)
}

// --- Mock FraudCaseService ---
type MockFraudCaseService struct {
	mock.Mock
}

func (m *MockFraudCaseService) ListFraudCasesByAccount(ctx context.Context, accountID string, params dto.ListFraudCasesParams) (*dto.ListFraudCasesResponse, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListFraudCasesResponse), args.Error(1)
}

// Ensure mocks implement the interfaces
var (
	_ portssvc.AccountSvcFacade     = (*MockAccountService)(nil)
	_ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)
	_ portssvc.FraudCaseReaderSvc   = (*MockFraudCaseService)(nil)
)
