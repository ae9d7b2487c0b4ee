package domain

import "time"

// FraudCaseTypePossibleFraud is the only case type the detector raises.
const FraudCaseTypePossibleFraud = "Possible Fraud"

// FraudCase flags a transaction as suspicious. At most one exists per (account, transaction).
type FraudCase struct {
	FraudCaseID   string    `json:"fraudCaseID"`
	AccountID     string    `json:"accountID"`
	TransactionID string    `json:"transactionID"`
	CaseType      string    `json:"caseType"`
	DetectedAt    time.Time `json:"detectedAt"`
}
