package dto

import (
	"time"

	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
)

// ListFraudCasesParams defines the query parameters for listing an account's fraud cases.
type ListFraudCasesParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// FraudCaseResponse defines the data returned for a fraud case.
type FraudCaseResponse struct {
	FraudCaseID   string    `json:"fraudCaseID"`
	AccountID     string    `json:"accountID"`
	TransactionID string    `json:"transactionID"`
	CaseType      string    `json:"caseType"`
	DetectedAt    time.Time `json:"detectedAt"`
}

// ListFraudCasesResponse is one page of fraud cases. NextToken is omitted on the last page.
type ListFraudCasesResponse struct {
	FraudCases []FraudCaseResponse `json:"fraudCases"`
	NextToken  *string             `json:"nextToken,omitempty"`
}

// ToFraudCaseResponses converts domain fraud cases to response DTOs
func ToFraudCaseResponses(cases []domain.FraudCase) []FraudCaseResponse {
	resp := make([]FraudCaseResponse, len(cases))
	for i, fc := range cases {
		resp[i] = FraudCaseResponse{
			FraudCaseID:   fc.FraudCaseID,
			AccountID:     fc.AccountID,
			TransactionID: fc.TransactionID,
			CaseType:      fc.CaseType,
			DetectedAt:    fc.DetectedAt,
		}
	}
	return resp
}
