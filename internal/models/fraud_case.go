package models

import "time"

// FraudCase is a row of fraud_cases. (account_id, transaction_id) is unique.
type FraudCase struct {
	FraudCaseID   string    `db:"fraud_case_id"`
	AccountID     string    `db:"account_id"`
	TransactionID string    `db:"transaction_id"`
	CaseType      string    `db:"case_type"`
	DetectedAt    time.Time `db:"detected_at"`
}

// AuditEntry is a row of the append-only audit_entries table.
type AuditEntry struct {
	AuditID       string    `db:"audit_id"`
	AccountID     string    `db:"account_id"`
	TransactionID string    `db:"transaction_id"`
	Action        string    `db:"action"`
	Timestamp     time.Time `db:"logged_at"`
}
