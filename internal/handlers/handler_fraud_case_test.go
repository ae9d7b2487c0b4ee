package handlers_test

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_txn_processor/internal/apperrors"
	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
	"github.com/SscSPs/ledger_txn_processor/internal/dto"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestListFraudCases_Success() {
	next := "b3BhcXVl"
	expected := &dto.ListFraudCasesResponse{
		FraudCases: []dto.FraudCaseResponse{{
			FraudCaseID:   "fc_1",
			AccountID:     "acc_1",
			TransactionID: "txn_1",
			CaseType:      domain.FraudCaseTypePossibleFraud,
			DetectedAt:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		}},
		NextToken: &next,
	}
	suite.mockFraudCaseService.On("ListFraudCasesByAccount", mock.Anything, "acc_1", mock.MatchedBy(func(p dto.ListFraudCasesParams) bool {
		return p.Limit == 10 && p.NextToken != nil && *p.NextToken == "prev"
	})).Return(expected, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc_1/fraud-cases?limit=10&nextToken=prev", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListFraudCasesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Require().Len(body.FraudCases, 1)
	suite.Equal("txn_1", body.FraudCases[0].TransactionID)
	suite.Require().NotNil(body.NextToken)
	suite.Equal(next, *body.NextToken)
}

func (suite *HandlerTestSuite) TestListFraudCases_InvalidLimit() {
	w := suite.do(http.MethodGet, "/api/v1/accounts/acc_1/fraud-cases?limit=1000", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListFraudCases_UnknownAccount() {
	suite.mockFraudCaseService.On("ListFraudCasesByAccount", mock.Anything, "nope", mock.Anything).
		Return(nil, apperrors.NewAppError(apperrors.ErrNotFound, "account nope", nil)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/nope/fraud-cases", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}
