package mapping

import (
	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
	"github.com/SscSPs/ledger_txn_processor/internal/models"
)

// ToModelFraudCase converts a domain FraudCase to a model FraudCase
func ToModelFraudCase(d domain.FraudCase) models.FraudCase {
	return models.FraudCase{
		FraudCaseID:   d.FraudCaseID,
		AccountID:     d.AccountID,
		TransactionID: d.TransactionID,
		CaseType:      d.CaseType,
		DetectedAt:    d.DetectedAt,
	}
}

// ToModelAuditEntry converts a domain AuditEntry to a model AuditEntry
func ToModelAuditEntry(d domain.AuditEntry) models.AuditEntry {
	return models.AuditEntry{
		AuditID:       d.AuditID,
		AccountID:     d.AccountID,
		TransactionID: d.TransactionID,
		Action:        d.Action,
		Timestamp:     d.Timestamp,
	}
}

// ToDomainFraudCase converts a model FraudCase to a domain FraudCase
func ToDomainFraudCase(m models.FraudCase) domain.FraudCase {
	return domain.FraudCase{
		FraudCaseID:   m.FraudCaseID,
		AccountID:     m.AccountID,
		TransactionID: m.TransactionID,
		CaseType:      m.CaseType,
		DetectedAt:    m.DetectedAt,
	}
}

// ToDomainFraudCases converts a slice of model FraudCases
func ToDomainFraudCases(ms []models.FraudCase) []domain.FraudCase {
	cases := make([]domain.FraudCase, len(ms))
	for i, m := range ms {
		cases[i] = ToDomainFraudCase(m)
	}
	return cases
}
