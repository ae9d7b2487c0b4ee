package mapping

import (
	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
	"github.com/SscSPs/ledger_txn_processor/internal/models"
)

// ToModelTransactionRequest converts a domain TransactionRequest to a model TransactionRequest
func ToModelTransactionRequest(d domain.TransactionRequest) models.TransactionRequest {
	return models.TransactionRequest{
		TransactionID:   d.TransactionID,
		SourceAccountID: d.SourceAccountID,
		DestAccountID:   d.DestAccountID,
		TransactionType: models.TransactionType(d.Type),
		Amount:          d.Amount,
		CreatedAt:       d.CreatedAt,
	}
}

// ToDomainTransactionRequest converts a model TransactionRequest to a domain TransactionRequest
func ToDomainTransactionRequest(m models.TransactionRequest) domain.TransactionRequest {
	return domain.TransactionRequest{
		TransactionID:   m.TransactionID,
		SourceAccountID: m.SourceAccountID,
		DestAccountID:   m.DestAccountID,
		Type:            domain.TransactionType(m.TransactionType),
		Amount:          m.Amount,
		CreatedAt:       m.CreatedAt,
	}
}

// ToModelTransaction converts a domain TransactionOutcome to a model Transaction
func ToModelTransaction(d domain.TransactionOutcome) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		AccountID:       d.AccountID,
		DestAccountID:   d.DestAccountID,
		TransactionType: models.TransactionType(d.Type),
		Amount:          d.Amount,
		Timestamp:       d.Timestamp,
		Status:          models.TransactionStatus(d.Status),
		FraudFlagged:    d.FraudFlagged,
	}
}

// ToDomainTransaction converts a model Transaction to a domain TransactionOutcome
func ToDomainTransaction(m models.Transaction) domain.TransactionOutcome {
	return domain.TransactionOutcome{
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		DestAccountID: m.DestAccountID,
		Type:          domain.TransactionType(m.TransactionType),
		Amount:        m.Amount,
		Timestamp:     m.Timestamp,
		Status:        domain.TransactionStatus(m.Status),
		FraudFlagged:  m.FraudFlagged,
	}
}
