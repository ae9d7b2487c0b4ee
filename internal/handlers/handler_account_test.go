package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/ledger_txn_processor/internal/apperrors"
	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_txn_processor/internal/core/ports/services"
	"github.com/SscSPs/ledger_txn_processor/internal/dto"
	"github.com/SscSPs/ledger_txn_processor/internal/handlers"
	"github.com/SscSPs/ledger_txn_processor/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router                 *gin.Engine
	mockAccountService     *MockAccountService
	mockTransactionService *MockTransactionService
	mockFraudCaseService   *MockFraudCaseService
	jwtSecret              string
}

// generateTestToken creates a signed JWT for the given caller.
func (suite *HandlerTestSuite) generateTestToken(callerID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "ledger-test",
		Subject:   callerID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

// do serves an authenticated request and returns the recorder.
func (suite *HandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var payload *bytes.Reader
	if raw, ok := body.(string); ok {
		payload = bytes.NewReader([]byte(raw))
	} else if body != nil {
		encoded, err := json.Marshal(body)
		suite.Require().NoError(err)
		payload = bytes.NewReader(encoded)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, url, payload)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("settlement-service"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decodeError(w *httptest.ResponseRecorder) dto.ErrorResponse {
	var body dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockAccountService = new(MockAccountService)
	suite.mockTransactionService = new(MockTransactionService)
	suite.mockFraudCaseService = new(MockFraudCaseService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret, IsProduction: true}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Account:     suite.mockAccountService,
		Transaction: suite.mockTransactionService,
		FraudCase:   suite.mockFraudCaseService,
	}, prometheus.NewRegistry())
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.mockAccountService.AssertExpectations(suite.T())
	suite.mockTransactionService.AssertExpectations(suite.T())
	suite.mockFraudCaseService.AssertExpectations(suite.T())
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestHealthAndMetricsArePublic() {
	for _, path := range []string{"/health", "/metrics"} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		suite.router.ServeHTTP(w, req)
		suite.Equal(http.StatusOK, w.Code, path)
	}
}

func (suite *HandlerTestSuite) TestAPIRequiresToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/accounts/acc_1", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "GetAccountByID", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateAccount_Success() {
	now := time.Now().UTC()
	created := &domain.Account{
		AccountID:   "acc_1",
		Balance:     decimal.RequireFromString("250.50"),
		Status:      domain.AccountActive,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	suite.mockAccountService.On("CreateAccount", mock.Anything, mock.MatchedBy(func(req dto.CreateAccountRequest) bool {
		return req.AccountID == "acc_1" && req.OpeningBalance.Equal(decimal.RequireFromString("250.50"))
	})).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", `{"accountID":"acc_1","openingBalance":"250.50"}`)

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("acc_1", body.AccountID)
	suite.True(body.Balance.Equal(created.Balance))
	suite.Equal(domain.AccountActive, body.Status)
}

func (suite *HandlerTestSuite) TestCreateAccount_BadInput() {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"accountID":`},
		{"unknown status", `{"accountID":"acc_1","status":"CLOSED"}`},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, "/api/v1/accounts", tt.body)
			suite.Equal(http.StatusBadRequest, w.Code)
			suite.Equal("INVALID_DATA", suite.decodeError(w).Kind)
		})
	}
}

func (suite *HandlerTestSuite) TestCreateAccount_ServiceRejects() {
	suite.mockAccountService.On("CreateAccount", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewAppError(apperrors.ErrInvalidData, "opening balance must not be negative", nil)).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", `{"openingBalance":"-1"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	body := suite.decodeError(w)
	suite.Equal("INVALID_DATA", body.Kind)
	suite.False(body.Retryable)
}

func (suite *HandlerTestSuite) TestGetAccount() {
	account := &domain.Account{AccountID: "acc_1", Balance: decimal.NewFromInt(10), Status: domain.AccountFrozen}
	suite.mockAccountService.On("GetAccountByID", mock.Anything, "acc_1").Return(account, nil).Once()
	suite.mockAccountService.On("GetAccountByID", mock.Anything, "missing").
		Return(nil, apperrors.NewAppError(apperrors.ErrNotFound, "account missing", nil)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc_1", nil)
	suite.Equal(http.StatusOK, w.Code)
	var body dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(domain.AccountFrozen, body.Status)

	w = suite.do(http.MethodGet, "/api/v1/accounts/missing", nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("NOT_FOUND", suite.decodeError(w).Kind)
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
