package domain

import (
	"fmt"
	"time"
)

// AuditEntry is an append-only record of one processed transaction.
type AuditEntry struct {
	AuditID       string    `json:"auditID"`
	AccountID     string    `json:"accountID"`
	TransactionID string    `json:"transactionID"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
}

// AuditAction renders the action text stored for a processed outcome.
func AuditAction(o TransactionOutcome) string {
	action := fmt.Sprintf("%s of %s processed", o.Type, o.Amount.StringFixed(2))
	if o.DestAccountID != "" {
		action += " to " + o.DestAccountID
	}
	if o.FraudFlagged {
		action += " (flagged: " + FraudCaseTypePossibleFraud + ")"
	}
	return action
}
