package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_txn_processor/internal/apperrors"
	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
	"github.com/SscSPs/ledger_txn_processor/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestSubmitRequest_Success() {
	now := time.Now().UTC()
	suite.mockTransactionService.On("SubmitRequest", mock.Anything, mock.MatchedBy(func(req domain.TransactionRequest) bool {
		return req.TransactionID == "txn_1" &&
			req.SourceAccountID == "acc_1" &&
			req.DestAccountID == "acc_2" &&
			req.Type == domain.Transfer &&
			req.Amount.Equal(decimal.NewFromInt(75))
	})).Return(&domain.TransactionRequest{
		TransactionID:   "txn_1",
		SourceAccountID: "acc_1",
		DestAccountID:   "acc_2",
		Type:            domain.Transfer,
		Amount:          decimal.NewFromInt(75),
		CreatedAt:       now,
	}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transaction-requests", dto.SubmitTransactionRequest{
		TransactionID:   "txn_1",
		SourceAccountID: "acc_1",
		DestAccountID:   "acc_2",
		Type:            domain.Transfer,
		Amount:          decimal.NewFromInt(75),
	})

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.TransactionRequestResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("txn_1", body.TransactionID)
	suite.Equal("acc_2", body.DestAccountID)
}

func (suite *HandlerTestSuite) TestSubmitRequest_BindingFailures() {
	tests := []struct {
		name string
		body string
	}{
		{"missing source", `{"type":"DEPOSIT","amount":"10"}`},
		{"missing type", `{"sourceAccountID":"acc_1","amount":"10"}`},
		{"unknown type", `{"sourceAccountID":"acc_1","type":"REFUND","amount":"10"}`},
		{"not json", `deposit please`},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, "/api/v1/transaction-requests", tt.body)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
}

func (suite *HandlerTestSuite) TestSubmitRequest_DuplicateID() {
	suite.mockTransactionService.On("SubmitRequest", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewAppError(apperrors.ErrDuplicateTransaction, "request txn_1", nil)).Once()

	w := suite.do(http.MethodPost, "/api/v1/transaction-requests", `{"transactionID":"txn_1","sourceAccountID":"acc_1","type":"DEPOSIT","amount":"10"}`)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("DUPLICATE_TRANSACTION", suite.decodeError(w).Kind)
}

func (suite *HandlerTestSuite) TestProcessTransaction_Committed() {
	outcome := &domain.TransactionOutcome{
		TransactionID: "txn_1",
		AccountID:     "acc_1",
		Type:          domain.Withdrawal,
		Amount:        decimal.NewFromInt(15000),
		Timestamp:     time.Now().UTC(),
		Status:        domain.StatusCommitted,
		FraudFlagged:  true,
	}
	suite.mockTransactionService.On("ProcessTransaction", mock.Anything, "txn_1").Return(outcome, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/txn_1/process", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.TransactionOutcomeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(domain.StatusCommitted, body.Status)
	suite.True(body.FraudFlagged)
	suite.True(body.Amount.Equal(outcome.Amount))
}

func (suite *HandlerTestSuite) TestProcessTransaction_ErrorMapping() {
	tests := []struct {
		kind      error
		status    int
		kindName  string
		retryable bool
	}{
		{apperrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND", false},
		{apperrors.ErrAccountInactive, http.StatusLocked, "ACCOUNT_INACTIVE", false},
		{apperrors.ErrInsufficientFunds, http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", false},
		{apperrors.ErrInvalidData, http.StatusBadRequest, "INVALID_DATA", false},
		{apperrors.ErrDuplicateTransaction, http.StatusConflict, "DUPLICATE_TRANSACTION", false},
		{apperrors.ErrDuplicateFraudCase, http.StatusConflict, "DUPLICATE_FRAUD_CASE", false},
		{apperrors.ErrResourceBusy, http.StatusServiceUnavailable, "RESOURCE_BUSY", true},
		{apperrors.ErrDataIntegrity, http.StatusInternalServerError, "DATA_INTEGRITY_ERROR", true},
		{apperrors.ErrPersistence, http.StatusInternalServerError, "PERSISTENCE_ERROR", true},
	}
	for i, tt := range tests {
		suite.Run(tt.kindName, func() {
			txnID := fmt.Sprintf("txn_%d", i)
			err := fmt.Errorf("processing %s: %w", txnID, apperrors.NewAppError(tt.kind, "rejected", nil))
			suite.mockTransactionService.On("ProcessTransaction", mock.Anything, txnID).Return(nil, err).Once()

			w := suite.do(http.MethodPost, "/api/v1/transactions/"+txnID+"/process", nil)

			suite.Equal(tt.status, w.Code)
			body := suite.decodeError(w)
			suite.Equal(tt.kindName, body.Kind)
			suite.Equal(tt.retryable, body.Retryable)
		})
	}
}

func (suite *HandlerTestSuite) TestProcessTransaction_InternalErrorsAreNotLeaked() {
	cause := errors.New("pq: connection reset by peer 10.0.0.7:5432")
	suite.mockTransactionService.On("ProcessTransaction", mock.Anything, "txn_1").
		Return(nil, apperrors.NewAppError(apperrors.ErrPersistence, "update balance", cause)).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/txn_1/process", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	body := suite.decodeError(w)
	suite.Equal("Failed to process transaction", body.Error)
	suite.NotContains(w.Body.String(), "10.0.0.7")
}

func (suite *HandlerTestSuite) TestProcessTransaction_UnclassifiedError() {
	suite.mockTransactionService.On("ProcessTransaction", mock.Anything, "txn_1").
		Return(nil, context.Canceled).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/txn_1/process", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	body := suite.decodeError(w)
	suite.Equal("INTERNAL", body.Kind)
	suite.True(body.Retryable)
}

func (suite *HandlerTestSuite) TestGetTransaction() {
	outcome := &domain.TransactionOutcome{
		TransactionID: "txn_1",
		AccountID:     "acc_1",
		Type:          domain.Deposit,
		Amount:        decimal.NewFromInt(20),
		Status:        domain.StatusCommitted,
	}
	suite.mockTransactionService.On("GetOutcome", mock.Anything, "txn_1").Return(outcome, nil).Once()
	suite.mockTransactionService.On("GetOutcome", mock.Anything, "txn_2").
		Return(nil, apperrors.NewAppError(apperrors.ErrNotFound, "outcome txn_2", nil)).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions/txn_1", nil)
	suite.Equal(http.StatusOK, w.Code)
	var body dto.TransactionOutcomeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(domain.Deposit, body.Type)

	w = suite.do(http.MethodGet, "/api/v1/transactions/txn_2", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}
